package handlers

import (
	"context"

	"ffaudio/internal/audit"
	"ffaudio/internal/engine"
	"ffaudio/internal/pkg/logger"
	"ffaudio/internal/processor"
)

const (
	ServiceName = "FFmpeg Audio API"
	Version     = "2.0.0"
)

// EngineChecker reports engine binary availability for deep health checks.
type EngineChecker interface {
	Check(ctx context.Context) []engine.Status
}

type Deps struct {
	Processor      *processor.Processor
	Checker        EngineChecker
	Recorder       audit.Recorder
	MaxUploadBytes int64
	Log            *logger.Logger
}

type Handler struct {
	proc           *processor.Processor
	checker        EngineChecker
	recorder       audit.Recorder
	maxUploadBytes int64
	log            *logger.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	rec := d.Recorder
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Handler{
		proc:           d.Processor,
		checker:        d.Checker,
		recorder:       rec,
		maxUploadBytes: d.MaxUploadBytes,
		log:            log.WithComponent("http"),
	}
}

// Log returns the handler logger, shared with the error middleware.
func (h *Handler) Log() *logger.Logger {
	return h.log
}
