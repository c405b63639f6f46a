package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps history in a shared PostgreSQL database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const createSessionsTable = `CREATE TABLE IF NOT EXISTS interview_sessions (
	id               UUID PRIMARY KEY,
	created_at       TIMESTAMPTZ NOT NULL,
	technique        TEXT NOT NULL,
	interview_type   TEXT NOT NULL,
	experience_level TEXT NOT NULL,
	question_count   INTEGER NOT NULL,
	model            TEXT NOT NULL,
	job_excerpt      TEXT NOT NULL,
	success          BOOLEAN NOT NULL,
	error            TEXT NOT NULL DEFAULT '',
	payload          JSONB NOT NULL
)`

// NewPostgresStore connects to databaseURL and ensures the sessions table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createSessionsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Append inserts rec.
func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	body, err := encodePayload(rec)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO interview_sessions (id, created_at, technique, interview_type, experience_level,
			question_count, model, job_excerpt, success, error, payload)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.CreatedAt, string(rec.Technique), string(rec.InterviewType), string(rec.ExperienceLevel),
		rec.QuestionCount, rec.Model, rec.JobExcerpt, rec.Success, rec.Error, body,
	)
	if err != nil {
		return fmt.Errorf("failed to append session %s: %w", rec.ID, err)
	}
	return nil
}

// List returns up to limit records, newest first.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, created_at, technique, interview_type, experience_level, question_count,
			model, job_excerpt, success, error, payload
		 FROM interview_sessions ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec  Record
			body []byte
		)
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Technique, &rec.InterviewType, &rec.ExperienceLevel,
			&rec.QuestionCount, &rec.Model, &rec.JobExcerpt, &rec.Success, &rec.Error, &body); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		if err := decodePayload(body, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return out, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
