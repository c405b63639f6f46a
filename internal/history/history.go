// Package history persists one record per generation session.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

// Drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// DefaultListLimit is used by callers that do not pick a limit.
const DefaultListLimit = 10

const excerptLength = 200

// Record is a persisted generation session.
type Record struct {
	ID              uuid.UUID             `json:"id"`
	CreatedAt       time.Time             `json:"created_at"`
	Technique       types.Technique       `json:"technique"`
	InterviewType   types.InterviewType   `json:"interview_type"`
	ExperienceLevel types.ExperienceLevel `json:"experience_level"`
	QuestionCount   int                   `json:"question_count"`
	Model           string                `json:"model"`
	JobExcerpt      string                `json:"job_excerpt"`
	Questions       []string              `json:"questions"`
	Recommendations []string              `json:"recommendations"`
	Success         bool                  `json:"success"`
	Error           string                `json:"error,omitempty"`
	Cost            types.CostBreakdown   `json:"cost"`
}

// Store appends and lists session records.
type Store interface {
	Append(ctx context.Context, rec Record) error
	// List returns up to limit records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// FromResult builds a record from a request and the result it produced.
func FromResult(req types.GenerationRequest, res *types.GenerationResult) Record {
	rec := Record{
		Technique:       req.Technique,
		InterviewType:   req.InterviewType,
		ExperienceLevel: req.ExperienceLevel,
		QuestionCount:   req.QuestionCount,
		Model:           req.AI.Model,
		JobExcerpt:      excerpt(req.JobDescription, excerptLength),
	}
	if res == nil {
		rec.ID = uuid.New()
		rec.CreatedAt = time.Now().UTC()
		return rec
	}
	rec.ID = res.SessionID
	rec.CreatedAt = res.CreatedAt.UTC()
	rec.Questions = res.Questions
	rec.Recommendations = res.Recommendations
	rec.Success = res.Success
	rec.Error = res.Error
	rec.Cost = res.Cost
	if res.Model != "" {
		rec.Model = res.Model
	}
	return rec
}

// Open returns the store for driver. DriverNone yields a store that discards
// everything.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite, "":
		return NewSQLiteStore(ctx, dsn)
	case DriverPostgres, "postgresql", "pgx":
		return NewPostgresStore(ctx, dsn)
	case DriverNone:
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown history driver %q", driver)
	}
}

// payload is the JSON column shared by both backends.
type payload struct {
	Questions       []string            `json:"questions"`
	Recommendations []string            `json:"recommendations"`
	Cost            types.CostBreakdown `json:"cost"`
}

func encodePayload(rec Record) ([]byte, error) {
	b, err := json.Marshal(payload{Questions: rec.Questions, Recommendations: rec.Recommendations, Cost: rec.Cost})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history payload: %w", err)
	}
	return b, nil
}

func decodePayload(b []byte, rec *Record) error {
	var p payload
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("failed to unmarshal history payload: %w", err)
	}
	rec.Questions = p.Questions
	rec.Recommendations = p.Recommendations
	rec.Cost = p.Cost
	return nil
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// NopStore discards records. Used when history is disabled.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error          { return nil }
func (NopStore) List(context.Context, int) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                 { return nil }
