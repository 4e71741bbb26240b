package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"ffaudio/internal/config"
	"ffaudio/internal/engine"
	"ffaudio/internal/httpapi"
	"ffaudio/internal/httpapi/handlers"
	"ffaudio/internal/pkg/logger"
	"ffaudio/internal/pkg/shutdown"
	"ffaudio/internal/processor"
	"ffaudio/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		AddSource:   cfg.Log.Source,
		ServiceName: "ffaudio-api",
	})

	log.Info("starting FFmpeg Audio API",
		"version", handlers.Version,
	)

	ctx := context.Background()

	// Initialize shutdown manager
	shutdownMgr := shutdown.NewManager(log, cfg.ShutdownTimeout)

	// Audit sink
	log.Info("opening audit sink", "sink", cfg.Audit.Sink)
	recorder, err := storage.NewAuditRecorder(ctx, cfg)
	if err != nil {
		log.LogFatal("failed to open audit sink", err, "sink", cfg.Audit.Sink)
	}
	shutdownMgr.Register("audit", func(ctx context.Context) error {
		return recorder.Close()
	})

	// Scratch storage
	sc, err := storage.NewScratch(cfg)
	if err != nil {
		log.LogFatal("failed to initialize scratch storage", err, "dir", cfg.ScratchDir)
	}
	log.Info("scratch storage initialized", "provider", sc.Provider(), "dir", sc.Root())

	// Engine
	eng := engine.New(engine.Config{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
		Timeout:     cfg.EngineTimeout,
		Log:         log,
	})
	for _, st := range eng.Check(ctx) {
		if !st.Available {
			log.Warn("engine binary unavailable", "name", st.Name, "command", st.Command, "detail", st.Detail)
			continue
		}
		log.Info("engine binary found", "name", st.Name, "version", st.Version)
	}

	proc := processor.New(processor.Deps{
		Engine:       eng,
		Scratch:      sc,
		Recorder:     recorder,
		VerifyOutput: cfg.VerifyOutput,
		Log:          log,
	})

	// Create HTTP router
	router := httpapi.NewRouter(httpapi.Deps{
		Handlers: handlers.Deps{
			Processor:      proc,
			Checker:        eng,
			Recorder:       recorder,
			MaxUploadBytes: cfg.MaxUploadBytes,
		},
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Log:            log,
	})

	// Uploads and engine runs can be long; only headers are bounded.
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Registered last so it drains first.
	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening",
			"addr", server.Addr,
			"port", cfg.Port,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	// Wait for shutdown signal
	shutdownMgr.Wait()
}
