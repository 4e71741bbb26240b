package handlers

import (
	"net/http"

	"ffaudio/internal/filtergraph"
	"ffaudio/internal/httpkit"
)

type indexResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// Index lists the service capabilities.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	eps := filtergraph.Endpoints()
	lines := make([]string, 0, len(eps))
	for _, ep := range eps {
		lines = append(lines, ep.String())
	}
	httpkit.WriteJSON(w, http.StatusOK, indexResponse{
		Name:      ServiceName,
		Version:   Version,
		Endpoints: lines,
	})
}

// Catalogue returns the structured endpoint catalogue with parameter defaults.
func (h *Handler) Catalogue(w http.ResponseWriter, r *http.Request) {
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"endpoints": filtergraph.Endpoints(),
	})
}
