package handlers

import (
	"context"
	"mime/multipart"
	"net/http"

	"ffaudio/internal/filtergraph"
	"ffaudio/internal/httpkit"
	"ffaudio/internal/processor"
)

// multipartMemory is how much of a form is held in memory before spilling
// file parts to disk.
const multipartMemory = 32 << 20

// Process returns the handler serving one processing endpoint.
func (h *Handler) Process(ep filtergraph.Endpoint) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		ctx := r.Context()

		form, err := h.parseForm(w, r)
		if err != nil {
			return err
		}
		defer removeForm(form)

		req, err := processor.ParseRequest(ep, form)
		if err != nil {
			return err
		}

		cleanup := h.proc.NewCleanup()
		defer h.runCleanup(ctx, cleanup)

		res, err := h.proc.Process(ctx, req, cleanup)
		if err != nil {
			return err
		}

		body, err := h.proc.OpenResult(ctx, res)
		if err != nil {
			return err
		}
		defer body.Close()

		if err := httpkit.WriteAttachment(w, httpkit.Attachment{
			Filename:    res.Filename,
			ContentType: res.ContentType,
			Size:        res.Size,
			Body:        body,
		}); err != nil {
			h.log.FromContext(ctx).Warn("response stream interrupted",
				"job_id", res.JobID,
				"error", err.Error(),
			)
		}
		return nil
	}
}

// Probe returns the engine metadata document for one upload, unchanged.
func (h *Handler) Probe(ep filtergraph.Endpoint) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		ctx := r.Context()

		form, err := h.parseForm(w, r)
		if err != nil {
			return err
		}
		defer removeForm(form)

		req, err := processor.ParseRequest(ep, form)
		if err != nil {
			return err
		}

		cleanup := h.proc.NewCleanup()
		defer h.runCleanup(ctx, cleanup)

		raw, err := h.proc.Probe(ctx, req.Uploads[0], cleanup)
		if err != nil {
			return err
		}
		httpkit.WriteRawJSON(w, http.StatusOK, raw)
		return nil
	}
}

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (*multipart.Form, error) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, httpkit.MultipartError(err, h.maxUploadBytes)
	}
	return r.MultipartForm, nil
}

func (h *Handler) runCleanup(ctx context.Context, c *processor.Cleanup) {
	if err := c.Run(ctx); err != nil {
		h.log.LogError(ctx, "request cleanup failed", err)
	}
}

func removeForm(form *multipart.Form) {
	if form != nil {
		_ = form.RemoveAll()
	}
}
