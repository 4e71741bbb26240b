package engine

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// MaxStderrSize bounds the stderr kept per subprocess. The tail is kept
// because the engine prints its fatal diagnostic last.
const MaxStderrSize = 64 * 1024

// commandResult is the captured outcome of one subprocess.
type commandResult struct {
	Stdout   []byte
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

// execRunner executes commands via os/exec.
type execRunner struct{}

// Run executes one command and captures stdout, the stderr tail and the exit code.
func (execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	stderr := &tailBuffer{max: MaxStderrSize}
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	result := commandResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.String(),
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}
	return result, nil
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= t.max {
		t.buf = append(t.buf[:0], p[len(p)-t.max:]...)
		return n, nil
	}
	if over := len(t.buf) + len(p) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	t.buf = append(t.buf, p...)
	return n, nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}

// ExtractLastError returns the last non-blank stderr line, truncated to 200
// characters, or "" when stderr carries nothing useful.
func ExtractLastError(stderr string) string {
	if stderr == "" {
		return ""
	}
	lines := bytes.Split([]byte(stderr), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := string(bytes.TrimSpace(lines[i]))
		if line != "" {
			if len(line) > 200 {
				return line[:200] + "..."
			}
			return line
		}
	}
	return ""
}
