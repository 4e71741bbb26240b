package filtergraph

import (
	"strconv"
	"strings"

	apierrors "ffaudio/internal/pkg/errors"
)

// baseArgs are prepended to every engine invocation. -loglevel error keeps
// stderr down to diagnostics so its last line explains a failure.
var baseArgs = []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-y"}

// JoinDirectives renders a directive chain in the engine's filter syntax.
func JoinDirectives(directives []string) string {
	return strings.Join(directives, ",")
}

// Args renders spec into the engine argument vector for the given input
// paths and output path.
func Args(spec Spec, inputs []string, output string) ([]string, error) {
	if len(inputs) != spec.Inputs {
		return nil, apierrors.Newf(apierrors.CodeInternal,
			"operation %s takes %d input(s), got %d", spec.Operation, spec.Inputs, len(inputs))
	}
	if output == "" {
		return nil, apierrors.Internal("output path is required")
	}

	args := make([]string, 0, len(baseArgs)+2*len(inputs)+12)
	args = append(args, baseArgs...)
	for _, in := range inputs {
		args = append(args, "-i", in)
	}

	if len(spec.Directives) > 0 {
		flag := "-af"
		if spec.Complex {
			flag = "-filter_complex"
		}
		args = append(args, flag, JoinDirectives(spec.Directives))
	}

	enc := spec.Encoding
	if enc.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(enc.SampleRate))
	}
	if enc.Bitrate != "" {
		args = append(args, "-b:a", enc.Bitrate)
	}
	if enc.Codec != "" {
		args = append(args, "-acodec", enc.Codec)
	}
	if enc.Container != "" {
		args = append(args, "-f", string(enc.Container))
	}

	return append(args, output), nil
}
