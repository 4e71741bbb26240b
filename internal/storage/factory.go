package storage

import (
	"context"
	"fmt"

	"ffaudio/internal/adapters/audit/postgres"
	"ffaudio/internal/adapters/audit/redis"
	"ffaudio/internal/adapters/audit/sqlite"
	"ffaudio/internal/adapters/storage/localfs"
	"ffaudio/internal/audit"
	"ffaudio/internal/config"
)

// NewScratch opens the scratch store and makes sure its directory exists.
func NewScratch(cfg *config.Config) (*localfs.LocalFS, error) {
	sc := localfs.New(cfg.ScratchDir)
	if err := sc.EnsureRoot(); err != nil {
		return nil, err
	}
	return sc, nil
}

// NewAuditRecorder opens the configured audit sink.
func NewAuditRecorder(ctx context.Context, cfg *config.Config) (audit.Recorder, error) {
	switch cfg.Audit.Sink {
	case "", config.SinkNone:
		return audit.Nop{}, nil

	case config.SinkPostgres:
		rec, err := postgres.Open(ctx, cfg.Audit.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return rec, nil

	case config.SinkRedis:
		rec, err := redis.Open(ctx, cfg.Audit.RedisAddr, cfg.Audit.RedisKey)
		if err != nil {
			return nil, err
		}
		return rec, nil

	case config.SinkSQLite:
		rec, err := sqlite.Open(cfg.Audit.SQLitePath)
		if err != nil {
			return nil, err
		}
		return rec, nil

	default:
		return nil, fmt.Errorf("unknown audit sink: %s", cfg.Audit.Sink)
	}
}
