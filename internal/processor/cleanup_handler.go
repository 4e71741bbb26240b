package processor

import (
	"context"
	"errors"
	"sync"
	"time"

	"ffaudio/internal/pkg/logger"
	"ffaudio/internal/storage"
)

// cleanupTimeout bounds deletion once the request context may already be gone.
const cleanupTimeout = 10 * time.Second

// Cleanup owns every scratch object a request creates and deletes all of
// them exactly once. Missing objects are skipped silently.
type Cleanup struct {
	sc  storage.Scratch
	log *logger.Logger

	mu   sync.Mutex
	keys []string
	once sync.Once
	err  error
}

func NewCleanup(sc storage.Scratch, log *logger.Logger) *Cleanup {
	if log == nil {
		log = logger.Discard()
	}
	return &Cleanup{sc: sc, log: log}
}

// Track registers key for deletion. It is safe for concurrent use and must be
// called before the object is written.
func (c *Cleanup) Track(key string) {
	c.mu.Lock()
	c.keys = append(c.keys, key)
	c.mu.Unlock()
}

// Keys returns the tracked keys in registration order.
func (c *Cleanup) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Run deletes every tracked object. Only the first call does any work; later
// calls return the first result.
func (c *Cleanup) Run(ctx context.Context) error {
	c.once.Do(func() {
		c.err = c.run(ctx)
	})
	return c.err
}

func (c *Cleanup) run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	var errs []error
	for _, key := range c.Keys() {
		if err := c.sc.DeleteObject(ctx, key); err != nil {
			c.log.FromContext(ctx).Error("scratch cleanup failed", "key", key, "error", err.Error())
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
