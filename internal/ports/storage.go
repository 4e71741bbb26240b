package ports

import (
	"context"
	"io"
)

type PutObjectInput struct {
	ObjectKey   string
	ContentType string
	Reader      io.Reader
	// Size is informational; the stored size is what Reader yields.
	Size int64
}

type PutObjectOutput struct {
	ObjectKey string
	Size      int64
}

// ScratchStore holds the temporary files of in-flight requests. Keys are flat
// names; Path exposes the local path the engine reads and writes.
type ScratchStore interface {
	Provider() string

	// NewKey returns a key no other request can collide with.
	NewKey(ext string) string
	Path(objectKey string) (string, error)

	PutObject(ctx context.Context, in PutObjectInput) (PutObjectOutput, error)
	GetObject(ctx context.Context, objectKey string) (rc io.ReadCloser, contentType string, size int64, err error)
	// DeleteObject removes the object. A missing object is not an error.
	DeleteObject(ctx context.Context, objectKey string) error
}
