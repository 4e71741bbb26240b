// Package sqlite stores audit entries in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"ffaudio/internal/audit"
)

const schema = `
CREATE TABLE IF NOT EXISTS audio_jobs (
	id           TEXT PRIMARY KEY,
	request_id   TEXT,
	operation    TEXT NOT NULL,
	format       TEXT,
	inputs       INTEGER NOT NULL,
	input_bytes  INTEGER NOT NULL,
	output_bytes INTEGER NOT NULL,
	status       TEXT NOT NULL,
	error_code   TEXT,
	error        TEXT,
	duration_ms  INTEGER NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audio_jobs_created_at ON audio_jobs(created_at);
`

// createdAtLayout is fixed width so text order in created_at is time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Recorder writes entries to SQLite.
type Recorder struct {
	db   *sql.DB
	path string
}

var _ audit.Recorder = (*Recorder)(nil)

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Recorder{db: db, path: path}, nil
}

func (r *Recorder) Name() string { return "sqlite" }

func (r *Recorder) Record(ctx context.Context, e audit.Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO audio_jobs (
			id, request_id, operation, format, inputs, input_bytes, output_bytes,
			status, error_code, error, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.RequestID,
		e.Operation,
		e.Format,
		e.Inputs,
		e.InputBytes,
		e.OutputBytes,
		string(e.Status),
		e.ErrorCode,
		e.Error,
		e.Duration.Milliseconds(),
		e.Timestamp.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, operation, format, inputs, input_bytes, output_bytes,
			status, error_code, error, duration_ms, created_at
		FROM audio_jobs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var out []audit.Entry
	for rows.Next() {
		var (
			e          audit.Entry
			status     string
			durationMS int64
			createdAt  string
		)
		if err := rows.Scan(
			&e.ID, &e.RequestID, &e.Operation, &e.Format, &e.Inputs, &e.InputBytes, &e.OutputBytes,
			&status, &e.ErrorCode, &e.Error, &durationMS, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Status = audit.Status(status)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, err := time.Parse(createdAtLayout, createdAt); err == nil {
			e.Timestamp = ts
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Recorder) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
