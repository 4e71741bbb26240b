// Package redis keeps a capped list of recent audit entries and per-operation
// outcome counters.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ffaudio/internal/audit"
)

// DefaultMaxEntries caps the recent-entries list.
const DefaultMaxEntries = 1000

// Recorder writes entries to Redis.
type Recorder struct {
	rdb        redis.UniversalClient
	key        string
	maxEntries int64
}

var _ audit.Recorder = (*Recorder)(nil)

// Open connects to addr and verifies the connection.
func Open(ctx context.Context, addr, key string) (*Recorder, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(rdb, key, DefaultMaxEntries), nil
}

// New wraps an existing client.
func New(rdb redis.UniversalClient, key string, maxEntries int64) *Recorder {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Recorder{rdb: rdb, key: key, maxEntries: maxEntries}
}

func (r *Recorder) Name() string { return "redis" }

// CountersKey is the hash holding "<operation>:<status>" counters.
func (r *Recorder) CountersKey() string {
	return r.key + ":counts"
}

// Record pushes e onto the list, trims it and bumps the counter in one
// transaction.
func (r *Recorder) Record(ctx context.Context, e audit.Entry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, r.key, payload)
		pipe.LTrim(ctx, r.key, 0, r.maxEntries-1)
		pipe.HIncrBy(ctx, r.CountersKey(), counterField(e), 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

func (r *Recorder) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Recorder) Close() error {
	return r.rdb.Close()
}

func counterField(e audit.Entry) string {
	return e.Operation + ":" + string(e.Status)
}
