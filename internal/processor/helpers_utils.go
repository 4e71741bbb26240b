package processor

import (
	"path/filepath"
	"strings"
)

// inputExt keeps a short alphanumeric extension of an uploaded filename so the
// engine can use it as a demuxer hint. Anything else becomes ".upload".
func inputExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	if len(ext) < 2 || len(ext) > 6 {
		return ".upload"
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ".upload"
		}
	}
	return ext
}

// truncate shortens s for log and audit fields.
func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
