package processor

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	apierrors "ffaudio/internal/pkg/errors"
	"ffaudio/internal/ports"
	"ffaudio/internal/storage"
)

type InputHandler struct {
	sc storage.Scratch
}

func NewInputHandler(sc storage.Scratch) *InputHandler {
	return &InputHandler{sc: sc}
}

// Materialize writes every upload to scratch concurrently and returns their
// local paths in upload order plus the total bytes written. Keys are tracked
// by cleanup before anything is written.
func (ih *InputHandler) Materialize(ctx context.Context, uploads []Upload, cleanup *Cleanup) ([]string, int64, error) {
	paths := make([]string, len(uploads))
	var total atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for i, up := range uploads {
		key := ih.sc.NewKey(inputExt(up.Filename))
		cleanup.Track(key)

		g.Go(func() error {
			n, err := ih.saveToScratch(gctx, key, up)
			if err != nil {
				return err
			}
			total.Add(n)

			p, err := ih.sc.Path(key)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return paths, total.Load(), nil
}

func (ih *InputHandler) saveToScratch(ctx context.Context, key string, up Upload) (int64, error) {
	rc, err := up.Open()
	if err != nil {
		return 0, apierrors.WrapWithCode(err, apierrors.CodeUpload, "processor.inputs", "cannot read uploaded file "+up.Field).
			WithField("field", up.Field)
	}
	defer rc.Close()

	out, err := ih.sc.PutObject(ctx, ports.PutObjectInput{
		ObjectKey: key,
		Reader:    rc,
		Size:      up.Size,
	})
	if err != nil {
		return 0, err
	}
	return out.Size, nil
}
