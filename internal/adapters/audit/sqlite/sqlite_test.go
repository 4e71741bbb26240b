package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ffaudio/internal/audit"
)

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	rec, err := Open(filepath.Join(t.TempDir(), "nested", "audit.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rec.Close()

	if err := rec.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	first := audit.NewEntry("", "normalize-transcode", "mp3")
	first.Inputs = 1
	first.InputBytes = 1024
	first.OutputBytes = 512
	first.Status = audit.StatusSucceeded
	first.Duration = 1500 * time.Millisecond
	first.Timestamp = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	second := audit.NewEntry("", "mix", "wav")
	second.Inputs = 2
	second.Status = audit.StatusFailed
	second.ErrorCode = "ENGINE_ERROR"
	second.Error = "Invalid data found when processing input"
	second.Timestamp = first.Timestamp.Add(time.Minute)

	for _, e := range []audit.Entry{first, second} {
		if err := rec.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if err := rec.Record(ctx, first); err != nil {
		t.Fatalf("replayed Record() error = %v", err)
	}

	got, err := rec.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ID != second.ID {
		t.Errorf("expected newest first, got %s", got[0].Operation)
	}
	if got[0].Error != second.Error || got[0].Status != audit.StatusFailed {
		t.Errorf("unexpected entry %+v", got[0])
	}
	if got[1].Duration != 1500*time.Millisecond || got[1].InputBytes != 1024 {
		t.Errorf("unexpected entry %+v", got[1])
	}
	if !got[1].Timestamp.Equal(first.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got[1].Timestamp, first.Timestamp)
	}
}

func TestRecentLimit(t *testing.T) {
	ctx := context.Background()
	rec, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rec.Close()

	for i := 0; i < 5; i++ {
		e := audit.NewEntry("", "gate", "wav")
		e.Status = audit.StatusSucceeded
		if err := rec.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := rec.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 entries, got %d", len(got))
	}
}

func TestRecentOrdersWithinOneSecond(t *testing.T) {
	ctx := context.Background()
	rec, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rec.Close()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	whole := audit.NewEntry("whole-second", "gate", "wav")
	whole.Timestamp = base
	later := audit.NewEntry("fractional", "gate", "wav")
	later.Timestamp = base.Add(100 * time.Millisecond)

	for _, e := range []audit.Entry{whole, later} {
		if err := rec.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := rec.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ID != "fractional" || got[1].ID != "whole-second" {
		t.Errorf("expected newest first, got %s then %s", got[0].ID, got[1].ID)
	}
	if !got[1].Timestamp.Equal(base) {
		t.Errorf("timestamp round trip = %v, want %v", got[1].Timestamp, base)
	}
}
