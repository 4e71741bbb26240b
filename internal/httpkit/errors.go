package httpkit

import (
	"errors"
	"net/http"

	apierrors "ffaudio/internal/pkg/errors"
)

// MultipartError maps a failure of (*http.Request).ParseMultipartForm onto the
// API taxonomy: an oversized body is 413, anything else is a bad upload.
func MultipartError(err error, limit int64) error {
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierrors.TooLarge(limit)
	}
	if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
		return apierrors.New(apierrors.CodeUpload, "request must be multipart/form-data")
	}
	return apierrors.WrapWithCode(err, apierrors.CodeUpload, "upload.parse", "invalid multipart form")
}
