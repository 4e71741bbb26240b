// Package postgres stores audit entries in a PostgreSQL table.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ffaudio/internal/audit"
)

const schema = `
CREATE TABLE IF NOT EXISTS audio_jobs (
	id           TEXT PRIMARY KEY,
	request_id   TEXT,
	operation    TEXT NOT NULL,
	format       TEXT,
	inputs       INTEGER NOT NULL,
	input_bytes  BIGINT NOT NULL,
	output_bytes BIGINT NOT NULL,
	status       TEXT NOT NULL,
	error_code   TEXT,
	error        TEXT,
	duration_ms  BIGINT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
)`

const insertEntry = `
INSERT INTO audio_jobs (
	id, request_id, operation, format, inputs, input_bytes, output_bytes,
	status, error_code, error, duration_ms, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

// Recorder writes entries through a pgx pool.
type Recorder struct {
	pool *pgxpool.Pool
}

var _ audit.Recorder = (*Recorder)(nil)

// Open connects, verifies the connection and ensures the table exists.
func Open(ctx context.Context, databaseURL string) (*Recorder, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create audio_jobs: %w", err)
	}
	return &Recorder{pool: pool}, nil
}

func (r *Recorder) Name() string { return "postgres" }

// Record inserts e. Replaying an entry with a known id is not an error.
func (r *Recorder) Record(ctx context.Context, e audit.Entry) error {
	_, err := r.pool.Exec(ctx, insertEntry,
		e.ID,
		nullIfEmpty(e.RequestID),
		e.Operation,
		nullIfEmpty(e.Format),
		e.Inputs,
		e.InputBytes,
		e.OutputBytes,
		string(e.Status),
		nullIfEmpty(e.ErrorCode),
		nullIfEmpty(e.Error),
		e.Duration.Milliseconds(),
		e.Timestamp,
	)
	if err != nil && !IsUniqueViolation(err) {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *Recorder) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Recorder) Close() error {
	r.pool.Close()
	return nil
}

// IsUniqueViolation returns true if the error is a PostgreSQL unique constraint violation.
// 23505 = unique_violation
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// nullIfEmpty maps "" to SQL NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
