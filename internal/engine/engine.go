// Package engine runs the external multimedia engine. Each call spawns
// exactly one subprocess and reports exactly one outcome; nothing is retried.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"ffaudio/internal/filtergraph"
	apierrors "ffaudio/internal/pkg/errors"
	"ffaudio/internal/pkg/logger"
)

// Job is one engine invocation. Inputs are local paths in the order the
// filter graph references them.
type Job struct {
	ID     string
	Inputs []string
	Spec   filtergraph.Spec
	Output string
}

// Engine processes jobs and inspects media.
type Engine interface {
	Run(ctx context.Context, job Job) error
	// Probe returns the engine's metadata document for path, unmodified.
	Probe(ctx context.Context, path string) (json.RawMessage, error)
}

// Config configures FFmpeg.
type Config struct {
	FFmpegPath  string
	FFprobePath string
	// Timeout bounds every subprocess on top of the caller's context.
	Timeout time.Duration
	Log     *logger.Logger
}

// FFmpeg implements Engine with the ffmpeg and ffprobe binaries.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
	runner      commandRunner
	log         *logger.Logger
}

var _ Engine = (*FFmpeg)(nil)

// New builds an FFmpeg engine with process execution through os/exec.
func New(cfg Config) *FFmpeg {
	return newWithRunner(cfg, execRunner{})
}

func newWithRunner(cfg Config, runner commandRunner) *FFmpeg {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}
	return &FFmpeg{
		ffmpegPath:  cfg.FFmpegPath,
		ffprobePath: cfg.FFprobePath,
		timeout:     cfg.Timeout,
		runner:      runner,
		log:         cfg.Log.WithComponent("engine"),
	}
}

// Run renders job.Spec from job.Inputs into job.Output.
func (f *FFmpeg) Run(ctx context.Context, job Job) error {
	args, err := filtergraph.Args(job.Spec, job.Inputs, job.Output)
	if err != nil {
		return err
	}

	log := f.log.FromContext(ctx)
	if job.ID != "" {
		log = log.WithJobID(job.ID)
	}
	log.Debug("engine run starting",
		"operation", string(job.Spec.Operation),
		"args", strings.Join(args, " "),
	)

	start := time.Now()
	_, err = f.exec(ctx, "engine.run", f.ffmpegPath, args)
	if err != nil {
		log.Warn("engine run failed",
			"operation", string(job.Spec.Operation),
			"error", apierrors.PublicMessage(err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}

	log.Debug("engine run completed",
		"operation", string(job.Spec.Operation),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Probe runs ffprobe in JSON mode and returns its stdout verbatim.
func (f *FFmpeg) Probe(ctx context.Context, path string) (json.RawMessage, error) {
	args := []string{
		"-v", "error",
		"-hide_banner",
		"-show_format",
		"-show_streams",
		"-of", "json",
		"--", path,
	}

	res, err := f.exec(ctx, "engine.probe", f.ffprobePath, args)
	if err != nil {
		return nil, err
	}
	if !json.Valid(res.Stdout) {
		return nil, apierrors.Engine("engine.probe", "probe returned invalid metadata", nil)
	}
	return json.RawMessage(res.Stdout), nil
}

// exec runs one subprocess bounded by the configured timeout and maps its
// failure onto the error taxonomy.
func (f *FFmpeg) exec(ctx context.Context, op, bin string, args []string) (commandResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	res, err := f.runner.Run(runCtx, bin, args...)
	if err == nil {
		return res, nil
	}

	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return res, apierrors.Unavailable(op, bin, err)
	case ctx.Err() != nil:
		return res, apierrors.Wrap(ctx.Err(), op, "request canceled before the engine finished")
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return res, apierrors.Timeout(op).WithField("timeout", f.timeout.String())
	}

	diagnostic := ExtractLastError(res.Stderr)
	if diagnostic == "" {
		diagnostic = err.Error()
	}
	return res, apierrors.Engine(op, diagnostic, err).WithField("exit_code", res.ExitCode)
}
