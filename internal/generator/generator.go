// Package generator runs a single interview question generation request:
// template selection, prompt building, the model call with bounded retry,
// response parsing, and cost and rate accounting.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/cost"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/llm"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/observability"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/parsing"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/prompts"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/ratelimit"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

// GateResult is the verdict of an InputGate.
type GateResult struct {
	IsValid         bool
	Warnings        []string
	BlockedPatterns []string
}

// InputGate screens job descriptions before any work is done.
type InputGate interface {
	Validate(text string) GateResult
}

// Generator composes the pipeline. It does not throttle: callers consult the
// limiter first, and a request made without capacity fails as rate limited.
type Generator struct {
	library    *prompts.Library
	caller     llm.Caller
	limiter    *ratelimit.Limiter
	calculator *cost.Calculator
	parser     *parsing.Parser
	gate       InputGate
	logger     *observability.Logger
	retry      RetryPolicy
	now        func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithGate installs an input gate.
func WithGate(g InputGate) Option {
	return func(gen *Generator) { gen.gate = g }
}

// WithLogger sets the logger.
func WithLogger(l *observability.Logger) Option {
	return func(gen *Generator) { gen.logger = observability.OrNop(l) }
}

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(gen *Generator) { gen.retry = p }
}

// WithParser overrides the default response parser.
func WithParser(p *parsing.Parser) Option {
	return func(gen *Generator) { gen.parser = p }
}

// WithClock sets the time source used for timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(gen *Generator) { gen.now = now }
}

// New creates a Generator. All four collaborators are required.
func New(library *prompts.Library, caller llm.Caller, limiter *ratelimit.Limiter, calculator *cost.Calculator, opts ...Option) (*Generator, error) {
	switch {
	case library == nil:
		return nil, errors.New("prompt library is required")
	case caller == nil:
		return nil, errors.New("model caller is required")
	case limiter == nil:
		return nil, errors.New("rate limiter is required")
	case calculator == nil:
		return nil, errors.New("cost calculator is required")
	}

	g := &Generator{
		library:    library,
		caller:     caller,
		limiter:    limiter,
		calculator: calculator,
		parser:     parsing.NewParser(),
		logger:     observability.Nop(),
		retry:      DefaultRetryPolicy(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate runs req to completion. The returned result is always non-nil: on
// success it is fully populated, on failure it carries only identity fields
// and the error message, and the classified *Error is returned as well.
func (g *Generator) Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error) {
	start := g.now()
	req.Normalize()

	run := &run{
		gen:   g,
		req:   req,
		stage: StageInit,
		result: &types.GenerationResult{
			SessionID: uuid.New(),
			Technique: req.Technique,
			Model:     req.AI.Model,
			CreatedAt: start,
		},
	}
	run.log = g.logger.With(
		"session_id", run.result.SessionID.String(),
		"technique", string(req.Technique),
		"interview_type", string(req.InterviewType),
		"experience_level", string(req.ExperienceLevel),
		"model", req.AI.Model,
	)

	err := run.execute(ctx)
	run.result.Duration = g.now().Sub(start)
	if err != nil {
		var genErr *Error
		if !errors.As(err, &genErr) {
			genErr = &Error{Kind: KindAPI, Stage: run.stage, Message: "unexpected failure", Cause: err}
		}
		run.fail(genErr)
		return run.result, genErr
	}
	return run.result, nil
}

// run holds the state of one Generate call.
type run struct {
	gen    *Generator
	req    types.GenerationRequest
	stage  Stage
	result *types.GenerationResult
	log    *observability.Logger
}

func (r *run) errorf(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Stage: r.stage, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (r *run) advance(s Stage) {
	r.log.Debug("stage transition", "from", string(r.stage), "to", string(s))
	r.stage = s
}

func (r *run) execute(ctx context.Context) error {
	g := r.gen
	req := r.req

	if err := req.Validate(); err != nil {
		return r.errorf(KindValidation, err, "invalid request")
	}
	if !g.calculator.Supports(req.AI.Model) {
		return r.errorf(KindValidation, cost.ErrUnsupportedModel, "model %q has no pricing", req.AI.Model)
	}
	if g.gate != nil {
		verdict := g.gate.Validate(req.JobDescription)
		if len(verdict.Warnings) > 0 {
			r.log.Warn("input gate warnings", "warnings", verdict.Warnings)
		}
		if !verdict.IsValid {
			return r.errorf(KindInputBlocked, nil, "job description blocked: %s", strings.Join(verdict.BlockedPatterns, ", "))
		}
	}

	tmpl := g.library.Get(req.Technique, req.InterviewType, req.ExperienceLevel)
	if tmpl == nil {
		return r.errorf(KindTemplateNotFound, nil, "no template for %s", prompts.LookupKeys(req.Technique, req.InterviewType, req.ExperienceLevel)[0])
	}
	r.advance(StageTemplateSelected)

	prompt, err := tmpl.Format(BuildVariables(req))
	if err != nil {
		return r.errorf(KindPromptBuild, err, "failed to build prompt from %s", tmpl.Name)
	}
	r.advance(StagePromptBuilt)

	if !g.limiter.CanMakeCall() {
		return r.errorf(KindRateLimited, nil, "%s", g.limiter.Advisory().Message)
	}
	r.advance(StageCallingModel)

	completion, attempts, err := r.callModel(ctx, prompt)
	if err != nil {
		return err
	}
	r.advance(StageParsing)

	parsed, err := g.parser.Parse(completion.Text)
	if err != nil {
		r.log.Debug("unparseable response", "raw_response", excerpt(completion.Text, 200))
		return r.errorf(KindParse, err, "could not extract questions")
	}
	parsing.Enrich(parsed, req.InterviewType, req.ExperienceLevel)

	breakdown, err := g.calculator.AddUsage(req.AI.Model, completion.InputTokens, completion.OutputTokens)
	if err != nil {
		return r.errorf(KindValidation, err, "failed to account cost")
	}

	questions, details := parsed.Questions, parsed.Details
	if len(questions) > req.QuestionCount {
		questions = questions[:req.QuestionCount]
		details = details[:req.QuestionCount]
	}

	r.advance(StageDone)
	res := r.result
	res.Questions = questions
	res.Recommendations = parsed.Recommendations
	res.Details = details
	res.Cost = breakdown
	res.RawResponse = completion.Text
	res.Success = true
	res.Metadata = map[string]any{
		"template":       tmpl.Name,
		"technique":      string(req.Technique),
		"parse_strategy": string(parsed.Strategy),
		"attempts":       attempts,
		"tokens_used":    breakdown.TotalTokens(),
		"finish_reason":  completion.FinishReason,
		"fallback":       tmpl.Generic() && req.ExperienceLevel != types.LevelAny,
		"parser":         parsed.Metadata,
	}

	r.log.Info("generation complete",
		"questions", len(questions),
		"recommendations", len(parsed.Recommendations),
		"attempts", attempts,
		"total_cost", breakdown.TotalCost,
	)
	return nil
}

// callModel performs the model call with retry. Every physical attempt is
// recorded in the limiter exactly once.
func (r *run) callModel(ctx context.Context, prompt string) (*llm.Completion, int, error) {
	g := r.gen
	policy := g.retry
	maxAttempts := policy.attempts()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if !g.limiter.CanMakeCall() {
				return nil, attempt - 1, r.errorf(KindRateLimited, lastErr, "rate limit reached while retrying")
			}
			delay := policy.Delay(attempt-1, lastErr)
			r.log.Warn("retrying after transient error",
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"delay", delay,
				"error", lastErr,
			)
			if err := sleep(ctx, delay); err != nil {
				return nil, attempt - 1, r.errorf(KindAPI, err, "retry cancelled")
			}
		}

		completion, err := r.attempt(ctx, prompt)
		if err == nil {
			g.limiter.RecordCall(true, "")
			return completion, attempt, nil
		}
		g.limiter.RecordCall(false, err.Error())
		lastErr = err

		if ctx.Err() != nil {
			return nil, attempt, r.errorf(KindAPI, err, "model call cancelled")
		}
		if !llm.IsTransient(err) {
			return nil, attempt, r.errorf(KindAPI, err, "model call failed")
		}
	}
	return nil, maxAttempts, r.errorf(KindAPI, lastErr, "model call failed after %d attempts", maxAttempts)
}

// attempt makes one call bounded by the request timeout.
func (r *run) attempt(ctx context.Context, prompt string) (*llm.Completion, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.req.AI.Timeout)
	defer cancel()

	completion, err := r.gen.caller.Call(callCtx, prompt, r.req.AI)
	if err != nil {
		return nil, err
	}
	if completion == nil {
		return nil, errors.New("model returned no completion")
	}
	return completion, nil
}

// fail turns the result into a failure record.
func (r *run) fail(err *Error) {
	r.stage = StageFailed
	res := r.result
	res.Questions = nil
	res.Recommendations = nil
	res.Details = nil
	res.Cost = types.CostBreakdown{}
	res.RawResponse = ""
	res.Metadata = nil
	res.Success = false
	res.Error = err.Error()

	r.log.Warn("generation failed",
		"kind", string(err.Kind),
		"stage", string(err.Stage),
		"error", err,
	)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
