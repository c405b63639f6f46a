package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps history in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// sessions table exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS sessions (
		id               TEXT PRIMARY KEY,
		created_at       INTEGER NOT NULL,
		technique        TEXT NOT NULL,
		interview_type   TEXT NOT NULL,
		experience_level TEXT NOT NULL,
		question_count   INTEGER NOT NULL,
		model            TEXT NOT NULL,
		job_excerpt      TEXT NOT NULL,
		success          INTEGER NOT NULL,
		error            TEXT NOT NULL DEFAULT '',
		payload          TEXT NOT NULL
	)`
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts rec. Appending an existing id is an error.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	body, err := encodePayload(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at, technique, interview_type, experience_level,
			question_count, model, job_excerpt, success, error, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.CreatedAt.UTC().UnixNano(), string(rec.Technique), string(rec.InterviewType),
		string(rec.ExperienceLevel), rec.QuestionCount, rec.Model, rec.JobExcerpt, rec.Success, rec.Error, string(body),
	)
	if err != nil {
		return fmt.Errorf("appending session %s: %w", rec.ID, err)
	}
	return nil
}

// List returns up to limit records, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, technique, interview_type, experience_level, question_count,
			model, job_excerpt, success, error, payload
		 FROM sessions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec       Record
			id        string
			createdAt int64
			body      string
		)
		if err := rows.Scan(&id, &createdAt, &rec.Technique, &rec.InterviewType, &rec.ExperienceLevel,
			&rec.QuestionCount, &rec.Model, &rec.JobExcerpt, &rec.Success, &rec.Error, &body); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing session id %q: %w", id, err)
		}
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		if err := decodePayload([]byte(body), &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return out, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
