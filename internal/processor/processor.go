package processor

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"ffaudio/internal/audit"
	"ffaudio/internal/engine"
	"ffaudio/internal/filtergraph"
	apierrors "ffaudio/internal/pkg/errors"
	"ffaudio/internal/pkg/logger"
	"ffaudio/internal/storage"
)

// auditTimeout bounds one audit write so a slow sink cannot hold a response.
const auditTimeout = 2 * time.Second

type Deps struct {
	Engine       engine.Engine
	Scratch      storage.Scratch
	Recorder     audit.Recorder
	VerifyOutput bool
	Log          *logger.Logger
	// Now is overridable for deterministic filenames in tests.
	Now func() time.Time
}

type Processor struct {
	sc       storage.Scratch
	recorder audit.Recorder
	log      *logger.Logger
	now      func() time.Time

	inputHandler  *InputHandler
	outputHandler *OutputHandler
	engineAdapter *EngineAdapter
	eng           engine.Engine
}

func New(d Deps) *Processor {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	log = log.WithComponent("processor")

	rec := d.Recorder
	if rec == nil {
		rec = audit.Nop{}
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}

	return &Processor{
		sc:            d.Scratch,
		recorder:      rec,
		log:           log,
		now:           now,
		inputHandler:  NewInputHandler(d.Scratch),
		outputHandler: NewOutputHandler(d.VerifyOutput),
		engineAdapter: NewEngineAdapter(d.Engine),
		eng:           d.Engine,
	}
}

// NewCleanup returns the cleanup a handler defers for one request.
func (p *Processor) NewCleanup() *Cleanup {
	return NewCleanup(p.sc, p.log)
}

// Process saves the uploads, runs the engine and verifies the output. Every
// scratch object it creates is tracked by cleanup, which the caller runs after
// the result has been streamed or the request has failed.
func (p *Processor) Process(ctx context.Context, req Request, cleanup *Cleanup) (*Result, error) {
	jobID := uuid.NewString()
	ctx = logger.ContextWithJobID(ctx, jobID)
	log := p.log.FromContext(ctx)
	start := time.Now()

	ep := req.Endpoint
	entry := audit.NewEntry(jobID, string(ep.Operation), string(ep.Format))
	entry.RequestID = requestID(ctx)
	entry.Inputs = len(req.Uploads)

	res, err := p.process(ctx, jobID, req, cleanup, &entry)

	entry.Duration = time.Since(start)
	p.record(ctx, entry, err)

	if err != nil {
		log.Warn("job failed",
			"operation", string(ep.Operation),
			"code", string(apierrors.GetCode(err)),
			"error", truncate(apierrors.PublicMessage(err), 500),
			"duration_ms", entry.Duration.Milliseconds(),
		)
		return nil, err
	}

	log.Info("job completed",
		"operation", string(ep.Operation),
		"format", string(res.Format),
		"input_bytes", entry.InputBytes,
		"output_bytes", res.Size,
		"duration_ms", entry.Duration.Milliseconds(),
	)
	return res, nil
}

func (p *Processor) process(ctx context.Context, jobID string, req Request, cleanup *Cleanup, entry *audit.Entry) (*Result, error) {
	log := p.log.FromContext(ctx)
	ep := req.Endpoint

	spec, err := filtergraph.Build(ep.Operation, ep.Format, req.Params)
	if err != nil {
		return nil, err
	}
	entry.Format = string(spec.OutputFormat())

	if len(req.Uploads) != spec.Inputs {
		return nil, apierrors.Newf(apierrors.CodeUpload, "%s requires %d file(s), got %d",
			ep.Path, spec.Inputs, len(req.Uploads))
	}

	log.Debug("materializing inputs", "count", len(req.Uploads))
	inputPaths, inputBytes, err := p.inputHandler.Materialize(ctx, req.Uploads, cleanup)
	if err != nil {
		return nil, apierrors.Wrap(err, "processor.inputs", "failed to save uploads")
	}
	entry.InputBytes = inputBytes

	outKey := p.sc.NewKey(spec.OutputFormat().Ext())
	cleanup.Track(outKey)
	outPath, err := p.sc.Path(outKey)
	if err != nil {
		return nil, err
	}

	log.Debug("starting render", "operation", string(spec.Operation), "directives", len(spec.Directives))
	if err := p.engineAdapter.Render(ctx, RenderRequest{
		JobID:      jobID,
		Spec:       spec,
		InputPaths: inputPaths,
		OutputPath: outPath,
	}); err != nil {
		return nil, apierrors.Wrap(err, "processor.render", "render failed")
	}

	size, err := p.outputHandler.Check(outPath, spec)
	if err != nil {
		return nil, apierrors.Wrap(err, "processor.output", "output check failed")
	}
	entry.OutputBytes = size

	out := spec.OutputFormat()
	return &Result{
		JobID:       jobID,
		Key:         outKey,
		Path:        outPath,
		Filename:    ep.Filename(p.now().UnixMilli(), out),
		ContentType: out.ContentType(),
		Format:      out,
		Size:        size,
	}, nil
}

// OpenResult opens a verified output for streaming. The caller closes it
// before running cleanup.
func (p *Processor) OpenResult(ctx context.Context, res *Result) (io.ReadCloser, error) {
	rc, _, _, err := p.sc.GetObject(ctx, res.Key)
	if err != nil {
		return nil, apierrors.Wrap(err, "processor.open_result", "cannot open output")
	}
	return rc, nil
}

// Probe saves one upload and returns the engine's metadata for it verbatim.
func (p *Processor) Probe(ctx context.Context, up Upload, cleanup *Cleanup) (json.RawMessage, error) {
	jobID := uuid.NewString()
	ctx = logger.ContextWithJobID(ctx, jobID)
	start := time.Now()

	entry := audit.NewEntry(jobID, string(filtergraph.OpProbe), "")
	entry.RequestID = requestID(ctx)
	entry.Inputs = 1

	raw, err := p.probe(ctx, up, cleanup, &entry)

	entry.Duration = time.Since(start)
	p.record(ctx, entry, err)

	if err != nil {
		p.log.FromContext(ctx).Warn("probe failed",
			"code", string(apierrors.GetCode(err)),
			"error", truncate(apierrors.PublicMessage(err), 500),
		)
		return nil, err
	}
	return raw, nil
}

func (p *Processor) probe(ctx context.Context, up Upload, cleanup *Cleanup, entry *audit.Entry) (json.RawMessage, error) {
	paths, n, err := p.inputHandler.Materialize(ctx, []Upload{up}, cleanup)
	if err != nil {
		return nil, apierrors.Wrap(err, "processor.inputs", "failed to save upload")
	}
	entry.InputBytes = n

	raw, err := p.eng.Probe(ctx, paths[0])
	if err != nil {
		return nil, apierrors.Wrap(err, "processor.probe", "probe failed")
	}
	entry.OutputBytes = int64(len(raw))
	return raw, nil
}

// record writes the audit entry. Failures are logged and otherwise ignored.
func (p *Processor) record(ctx context.Context, entry audit.Entry, jobErr error) {
	entry.Status = audit.StatusSucceeded
	if jobErr != nil {
		entry.Status = audit.StatusFailed
		entry.ErrorCode = string(apierrors.GetCode(jobErr))
		entry.Error = truncate(apierrors.PublicMessage(jobErr), 2000)
	}

	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	if err := p.recorder.Record(actx, entry); err != nil {
		p.log.FromContext(ctx).Warn("audit record failed",
			"sink", p.recorder.Name(),
			"error", err.Error(),
		)
	}
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(logger.RequestIDKey).(string)
	return id
}
