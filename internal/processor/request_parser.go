package processor

import (
	"io"
	"mime/multipart"
	"strings"

	"ffaudio/internal/filtergraph"
	apierrors "ffaudio/internal/pkg/errors"
)

// ParseRequest maps a parsed multipart form onto a Request for ep. Every file
// field ep declares must be present; only the params ep declares are read.
// It runs before any scratch write or engine call.
func ParseRequest(ep filtergraph.Endpoint, form *multipart.Form) (Request, error) {
	req := Request{
		Endpoint: ep,
		Params:   filtergraph.Params{},
	}

	if form == nil {
		form = &multipart.Form{}
	}

	for _, field := range ep.Fields {
		fhs := form.File[field]
		if len(fhs) == 0 || fhs[0] == nil {
			return Request{}, apierrors.UploadField(field, missingFieldMessage(ep, field))
		}
		fh := fhs[0]
		req.Uploads = append(req.Uploads, Upload{
			Field:    field,
			Filename: fh.Filename,
			Size:     fh.Size,
			Open:     openerFor(fh),
		})
	}

	for _, def := range ep.Params {
		if vals := form.Value[def.Name]; len(vals) > 0 {
			if v := strings.TrimSpace(vals[0]); v != "" {
				req.Params[def.Name] = v
			}
		}
	}

	return req, nil
}

func missingFieldMessage(ep filtergraph.Endpoint, field string) string {
	if len(ep.Fields) > 1 {
		return "two files are required in fields " + strings.Join(ep.Fields, " and ") + "; missing " + field
	}
	return "file field " + field + " is required"
}

func openerFor(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}
