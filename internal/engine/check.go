package engine

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Status reports whether one engine binary can be used.
type Status struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// Check resolves both engine binaries and reads their version banner.
func (f *FFmpeg) Check(ctx context.Context) []Status {
	return []Status{
		f.checkBinary(ctx, "ffmpeg", f.ffmpegPath),
		f.checkBinary(ctx, "ffprobe", f.ffprobePath),
	}
}

// Healthy reports whether every status is available.
func Healthy(statuses []Status) bool {
	for _, s := range statuses {
		if !s.Available {
			return false
		}
	}
	return true
}

func (f *FFmpeg) checkBinary(ctx context.Context, name, cmd string) Status {
	status := Status{Name: name, Command: cmd}

	if _, err := exec.LookPath(cmd); err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", cmd)
		return status
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := f.runner.Run(checkCtx, cmd, "-hide_banner", "-version")
	if err != nil {
		status.Detail = ExtractLastError(res.Stderr)
		if status.Detail == "" {
			status.Detail = err.Error()
		}
		return status
	}

	status.Available = true
	status.Version = firstLine(string(res.Stdout))
	return status
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
