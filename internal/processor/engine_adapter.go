package processor

import (
	"context"

	"ffaudio/internal/engine"
	"ffaudio/internal/filtergraph"
)

type EngineAdapter struct {
	eng engine.Engine
}

func NewEngineAdapter(eng engine.Engine) *EngineAdapter {
	return &EngineAdapter{eng: eng}
}

type RenderRequest struct {
	JobID      string
	Spec       filtergraph.Spec
	InputPaths []string
	OutputPath string
}

// Render hands one job to the engine. It is never retried: a failed run may
// have consumed inputs that are about to be deleted.
func (ea *EngineAdapter) Render(ctx context.Context, req RenderRequest) error {
	return ea.eng.Run(ctx, engine.Job{
		ID:     req.JobID,
		Inputs: req.InputPaths,
		Spec:   req.Spec,
		Output: req.OutputPath,
	})
}
