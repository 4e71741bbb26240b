package handlers

import (
	"context"
	"net/http"
	"time"

	"ffaudio/internal/engine"
	"ffaudio/internal/httpkit"
)

const healthCheckTimeout = 5 * time.Second

// Health performs a health check of the service.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	health := map[string]any{
		"status":  "ok",
		"service": ServiceName,
		"version": Version,
	}

	if r.URL.Query().Get("deep") == "true" {
		checks, ok := h.deepHealthCheck(ctx)
		health["checks"] = checks
		if !ok {
			health["status"] = "degraded"
			log.Warn("health check degraded", "checks", checks)
		}
	}

	httpkit.WriteJSON(w, http.StatusOK, health)
}

// deepHealthCheck checks the engine binaries and the audit sink.
func (h *Handler) deepHealthCheck(ctx context.Context) (map[string]any, bool) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	checks := make(map[string]any)
	ok := true

	if h.checker != nil {
		statuses := h.checker.Check(ctx)
		checks["engine"] = statuses
		if !engine.Healthy(statuses) {
			ok = false
		}
	}

	audit := h.checkAudit(ctx)
	checks["audit"] = audit
	if audit["status"] != "ok" {
		ok = false
	}

	return checks, ok
}

func (h *Handler) checkAudit(ctx context.Context) map[string]any {
	start := time.Now()
	result := map[string]any{
		"status": "ok",
		"sink":   h.recorder.Name(),
	}

	if err := h.recorder.Ping(ctx); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	}

	result["latency_ms"] = time.Since(start).Milliseconds()
	return result
}
