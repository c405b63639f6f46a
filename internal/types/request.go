package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Request bounds.
const (
	MinJobDescriptionLength = 10
	MaxJobDescriptionLength = 5000
	DefaultQuestionCount    = 5
	MaxQuestionCount        = 20
)

// Model call defaults.
const (
	DefaultModel       = "gpt-4o"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	DefaultTimeout     = 30 * time.Second
)

// blockedMarkup lists fragments that are never accepted inside a job description.
var blockedMarkup = []string{"<script", "javascript:", "data:text/html"}

// AISettings configures a single model call.
type AISettings struct {
	Model       string        `json:"model" yaml:"model" validate:"required"`
	Temperature float64       `json:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `json:"max_tokens" yaml:"max_tokens" validate:"gte=100,lte=4000"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout" validate:"gt=0"`
}

// DefaultAISettings returns the settings used when the caller does not override them.
func DefaultAISettings() AISettings {
	return AISettings{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// Validate validates the AISettings using the validator.
func (s *AISettings) Validate() error {
	return toValidationError(newValidator().Struct(s))
}

// GenerationRequest is the input to a single question generation.
type GenerationRequest struct {
	JobDescription    string            `json:"job_description" validate:"required,min=10,max=5000,safe_text"`
	InterviewType     InterviewType     `json:"interview_type" validate:"required,oneof=technical behavioral case_study reverse"`
	ExperienceLevel   ExperienceLevel   `json:"experience_level" validate:"required,oneof=junior mid senior lead"`
	Technique         Technique         `json:"technique" validate:"required,oneof=few_shot chain_of_thought zero_shot role_based structured_output"`
	QuestionCount     int               `json:"question_count" validate:"gte=1,lte=20"`
	AI                AISettings        `json:"ai"`
	AdditionalContext map[string]string `json:"additional_context,omitempty"`
}

// Normalize trims the job description and fills zero-valued fields with defaults.
func (r *GenerationRequest) Normalize() {
	r.JobDescription = strings.TrimSpace(r.JobDescription)
	if r.QuestionCount == 0 {
		r.QuestionCount = DefaultQuestionCount
	}
	def := DefaultAISettings()
	if r.AI.Model == "" {
		r.AI.Model = def.Model
	}
	if r.AI.MaxTokens == 0 {
		r.AI.MaxTokens = def.MaxTokens
	}
	if r.AI.Timeout == 0 {
		r.AI.Timeout = def.Timeout
	}
}

// Validate validates the GenerationRequest using the validator.
func (r *GenerationRequest) Validate() error {
	return toValidationError(newValidator().Struct(r))
}

// FieldError describes one failed constraint.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every failed constraint of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("safe_text", func(fl validator.FieldLevel) bool {
		lower := strings.ToLower(fl.Field().String())
		for _, frag := range blockedMarkup {
			if strings.Contains(lower, frag) {
				return false
			}
		}
		return true
	})
	return v
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Namespace(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be > %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "safe_text":
		return "contains disallowed markup"
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}
