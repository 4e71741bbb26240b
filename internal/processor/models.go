package processor

import (
	"io"

	"ffaudio/internal/filtergraph"
)

// Upload is one received file, not yet written to scratch.
type Upload struct {
	Field    string
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// Request is a parsed processing request.
type Request struct {
	Endpoint filtergraph.Endpoint
	Params   filtergraph.Params
	Uploads  []Upload
}

// Result is a verified engine output ready to be streamed.
type Result struct {
	JobID       string
	Key         string
	Path        string
	Filename    string
	ContentType string
	Format      filtergraph.Format
	Size        int64
}
