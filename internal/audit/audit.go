// Package audit records the outcome of every engine job. Recording is best
// effort: nothing reads entries back to serve requests, and a failing sink
// never changes a response.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Entry is one job outcome.
type Entry struct {
	ID          string        `json:"id"`
	RequestID   string        `json:"request_id,omitempty"`
	Operation   string        `json:"operation"`
	Format      string        `json:"format,omitempty"`
	Inputs      int           `json:"inputs"`
	InputBytes  int64         `json:"input_bytes"`
	OutputBytes int64         `json:"output_bytes"`
	Status      Status        `json:"status"`
	ErrorCode   string        `json:"error_code,omitempty"`
	Error       string        `json:"error,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
	Timestamp   time.Time     `json:"timestamp"`
}

// NewEntry starts an entry for op at the current time. An empty id gets a
// fresh one; callers that already have a job id pass it.
func NewEntry(id, op, format string) Entry {
	if id == "" {
		id = uuid.NewString()
	}
	return Entry{
		ID:        id,
		Operation: op,
		Format:    format,
		Timestamp: time.Now().UTC(),
	}
}

// Recorder is an audit sink.
type Recorder interface {
	Name() string
	Record(ctx context.Context, e Entry) error
	Ping(ctx context.Context) error
	Close() error
}

// Nop discards entries.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) Name() string { return "none" }
func (Nop) Record(context.Context, Entry) error { return nil }
func (Nop) Ping(context.Context) error { return nil }
func (Nop) Close() error { return nil }
