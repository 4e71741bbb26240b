// Package filtergraph turns an operation and its caller parameters into the
// engine's filter-graph directives and output encoding options.
package filtergraph

import (
	"strings"

	apierrors "ffaudio/internal/pkg/errors"
)

// Format is an output container.
type Format string

const (
	MP3 Format = "mp3"
	WAV Format = "wav"
	OGG Format = "ogg"
)

// Formats lists every supported container.
var Formats = []Format{MP3, WAV, OGG}

// ParseFormat accepts a container name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case MP3, WAV, OGG:
		return f, nil
	}
	return "", apierrors.Validationf("unsupported format %q", s).WithField("format", s)
}

// Codec is the canonical audio codec forced for the container when an
// operation re-encodes. wav has none.
func (f Format) Codec() string {
	switch f {
	case MP3:
		return "libmp3lame"
	case OGG:
		return "libvorbis"
	default:
		return ""
	}
}

// ContentType is the MIME type served for the container.
func (f Format) ContentType() string {
	switch f {
	case MP3:
		return "audio/mpeg"
	case OGG:
		return "audio/ogg"
	case WAV:
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}

// Ext is the file extension, dot included.
func (f Format) Ext() string {
	if f == "" {
		return ""
	}
	return "." + string(f)
}
