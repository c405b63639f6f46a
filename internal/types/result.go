package types

import (
	"time"

	"github.com/google/uuid"
)

// CostBreakdown is the priced token usage of one model call.
type CostBreakdown struct {
	Model        string  `json:"model"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	InputCost    float64 `json:"input_cost"`
	OutputCost   float64 `json:"output_cost"`
	TotalCost    float64 `json:"total_cost"`
}

// TotalTokens returns input plus output tokens.
func (c CostBreakdown) TotalTokens() int {
	return c.InputTokens + c.OutputTokens
}

// QuestionDetail carries the optional per-question fields of a structured response.
type QuestionDetail struct {
	Question         string           `json:"question"`
	Difficulty       DifficultyLevel  `json:"difficulty,omitempty"`
	Category         QuestionCategory `json:"category,omitempty"`
	EstimatedMinutes int              `json:"estimated_time_minutes,omitempty"`
	Hints            []string         `json:"hints,omitempty"`
	FollowUps        []string         `json:"follow_up_questions,omitempty"`
}

// GenerationResult is the outcome of one generation request. It is either
// fully populated (Success) or carries only an error message.
type GenerationResult struct {
	SessionID       uuid.UUID        `json:"session_id"`
	Questions       []string         `json:"questions"`
	Recommendations []string         `json:"recommendations"`
	Details         []QuestionDetail `json:"details,omitempty"`
	Cost            CostBreakdown    `json:"cost"`
	RawResponse     string           `json:"raw_response,omitempty"`
	Technique       Technique        `json:"technique"`
	Model           string           `json:"model"`
	Success         bool             `json:"success"`
	Error           string           `json:"error,omitempty"`
	Metadata        map[string]any   `json:"metadata,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	Duration        time.Duration    `json:"duration"`
}
