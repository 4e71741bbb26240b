package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ffaudio/internal/config"
)

func TestNewScratchCreatesRoot(t *testing.T) {
	cfg := config.Default()
	cfg.ScratchDir = filepath.Join(t.TempDir(), "a", "b")

	sc, err := NewScratch(&cfg)
	if err != nil {
		t.Fatalf("NewScratch() error = %v", err)
	}
	if st, err := os.Stat(cfg.ScratchDir); err != nil || !st.IsDir() {
		t.Fatalf("scratch dir not created: %v", err)
	}

	var _ Scratch = sc
}

func TestNewAuditRecorder(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		cfg := config.Default()
		rec, err := NewAuditRecorder(ctx, &cfg)
		if err != nil {
			t.Fatalf("NewAuditRecorder() error = %v", err)
		}
		if rec.Name() != "none" {
			t.Errorf("Name() = %q", rec.Name())
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := config.Default()
		cfg.Audit.Sink = config.SinkSQLite
		cfg.Audit.SQLitePath = filepath.Join(t.TempDir(), "audit.db")

		rec, err := NewAuditRecorder(ctx, &cfg)
		if err != nil {
			t.Fatalf("NewAuditRecorder() error = %v", err)
		}
		defer rec.Close()
		if rec.Name() != "sqlite" {
			t.Errorf("Name() = %q", rec.Name())
		}
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.Default()
		cfg.Audit.Sink = "kafka"
		if _, err := NewAuditRecorder(ctx, &cfg); err == nil {
			t.Error("expected error")
		}
	})
}
