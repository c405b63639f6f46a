package generator

import (
	"errors"
	"fmt"
)

// Stage is a step of the per-request state machine.
type Stage string

// Stages in the order a successful request passes through them. StageFailed
// is terminal and may follow any stage.
const (
	StageInit             Stage = "INIT"
	StageTemplateSelected Stage = "TEMPLATE_SELECTED"
	StagePromptBuilt      Stage = "PROMPT_BUILT"
	StageCallingModel     Stage = "CALLING_MODEL"
	StageParsing          Stage = "PARSING"
	StageDone             Stage = "DONE"
	StageFailed           Stage = "FAILED"
)

// ErrorKind classifies why a generation failed.
type ErrorKind string

const (
	// KindValidation covers bad requests and unpriced models.
	KindValidation ErrorKind = "validation"
	// KindInputBlocked means the input gate rejected the job description.
	KindInputBlocked ErrorKind = "input_blocked"
	// KindTemplateNotFound means no template matched, not even a generic one.
	KindTemplateNotFound ErrorKind = "template_not_found"
	// KindPromptBuild means the template had unfilled placeholders.
	KindPromptBuild ErrorKind = "prompt_build"
	// KindRateLimited means the limiter had no capacity left.
	KindRateLimited ErrorKind = "rate_limited"
	// KindAPI means the model call failed fatally or retries ran out.
	KindAPI ErrorKind = "api"
	// KindParse means no questions could be extracted from the response.
	KindParse ErrorKind = "parse"
)

// Error is a classified generation failure. Stage is the last stage reached
// before failing.
type Error struct {
	Kind    ErrorKind
	Stage   Stage
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error at %s: %s", e.Kind, e.Stage, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var genErr *Error
	return errors.As(err, &genErr) && genErr.Kind == kind
}
