package main

import (
	"sync"

	"ffaudio/internal/config"
	"ffaudio/internal/engine"
	"ffaudio/internal/pkg/logger"
)

// commandContext loads configuration once per invocation, the same way the
// API server does.
type commandContext struct {
	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = config.Load()
	})
	return c.config, c.configErr
}

func (c *commandContext) engine() (*engine.FFmpeg, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Config{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
		Timeout:     cfg.EngineTimeout,
		Log:         logger.Discard(),
	}), nil
}
