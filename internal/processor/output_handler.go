package processor

import (
	"os"

	"ffaudio/internal/filtergraph"
	apierrors "ffaudio/internal/pkg/errors"
	"ffaudio/internal/verify"
)

type OutputHandler struct {
	verifyOutput bool
}

func NewOutputHandler(verifyOutput bool) *OutputHandler {
	return &OutputHandler{verifyOutput: verifyOutput}
}

// Check confirms the engine wrote a usable output at path and returns its
// size. With verification enabled the container header is decoded too.
func (oh *OutputHandler) Check(path string, spec filtergraph.Spec) (int64, error) {
	if oh.verifyOutput {
		res, err := verify.File(path, spec.OutputFormat(), spec.Encoding.SampleRate)
		if err != nil {
			return 0, err
		}
		return res.Size, nil
	}

	st, err := os.Stat(path)
	if err != nil {
		return 0, apierrors.Engine("processor.output", "engine produced no output", err)
	}
	if st.Size() == 0 {
		return 0, apierrors.Engine("processor.output", "engine produced an empty output", nil)
	}
	return st.Size(), nil
}
