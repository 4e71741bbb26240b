package shutdown

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"ffaudio/internal/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return logger.Discard()
}

func TestNewManager(t *testing.T) {
	log := newTestLogger()

	t.Run("with default timeout", func(t *testing.T) {
		mgr := NewManager(log, 0)
		if mgr.timeout != 30*time.Second {
			t.Errorf("expected default timeout 30s, got %s", mgr.timeout)
		}
	})

	t.Run("with custom timeout", func(t *testing.T) {
		mgr := NewManager(log, 10*time.Second)
		if mgr.timeout != 10*time.Second {
			t.Errorf("expected timeout 10s, got %s", mgr.timeout)
		}
	})
}

func TestRegister(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)

	mgr.Register("http-server", func(ctx context.Context) error {
		return nil
	})

	if len(mgr.handlers) != 1 {
		t.Fatalf("expected 1 handler, got %d", len(mgr.handlers))
	}
	if mgr.handlers[0].Name != "http-server" {
		t.Errorf("expected handler name 'http-server', got %s", mgr.handlers[0].Name)
	}
}

func TestRegisterSimple(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)

	var called bool
	mgr.RegisterSimple("audit", func() {
		called = true
	})

	mgr.Shutdown()

	if !called {
		t.Error("expected simple handler to be called")
	}
}

func TestShutdownRunsHandlersLastRegisteredFirst(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)

	var order []string
	for _, name := range []string{"audit", "scratch", "http-server"} {
		name := name
		mgr.Register(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	mgr.Shutdown()

	want := []string{"http-server", "scratch", "audit"}
	if len(order) != len(want) {
		t.Fatalf("expected %d handlers called, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestShutdownContinuesAfterHandlerError(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)

	var ran atomic.Bool
	mgr.Register("first", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	mgr.Register("failing", func(ctx context.Context) error {
		return context.DeadlineExceeded
	})

	mgr.Shutdown()

	if !ran.Load() {
		t.Error("expected handler registered before the failing one to run")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)

	var calls atomic.Int32
	mgr.Register("counter", func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	mgr.Shutdown()
	mgr.Shutdown()

	if calls.Load() != 1 {
		t.Errorf("expected handler to run once, ran %d times", calls.Load())
	}
}

func TestDone(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)

	select {
	case <-mgr.Done():
		t.Fatal("expected done channel to not be closed initially")
	default:
	}

	mgr.Shutdown()

	select {
	case <-mgr.Done():
	case <-time.After(time.Second):
		t.Error("expected done channel to be closed after shutdown")
	}
}

func TestWaitReturnsAfterShutdown(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)

	returned := make(chan struct{})
	go func() {
		mgr.Wait()
		close(returned)
	}()

	mgr.Shutdown()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Error("expected Wait to return once shutdown completed")
	}
}

func TestShutdownTimeout(t *testing.T) {
	mgr := NewManager(newTestLogger(), 100*time.Millisecond)

	var skipped atomic.Bool
	skipped.Store(true)
	mgr.Register("after-slow", func(ctx context.Context) error {
		skipped.Store(false)
		return nil
	})
	mgr.Register("slow", func(ctx context.Context) error {
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
		}
		return ctx.Err()
	})

	start := time.Now()
	mgr.Shutdown()
	elapsed := time.Since(start)

	if elapsed > 500*time.Millisecond {
		t.Errorf("shutdown took too long: %v", elapsed)
	}
	if !skipped.Load() {
		t.Error("expected handlers after the deadline to be skipped")
	}
}
