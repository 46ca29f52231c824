package pv

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/askiada/go-pipeviewer/internal/config"
	"github.com/askiada/go-pipeviewer/pkg/pipeline"
	"github.com/askiada/go-pipeviewer/pkg/pipeline/drawer"
	"github.com/askiada/go-pipeviewer/pkg/pipeline/logger"
	"github.com/askiada/go-pipeviewer/pkg/pipeline/measure"
	"github.com/askiada/go-pipeviewer/pkg/pipeline/model"
)

const (
	readStageName  = "read"
	statsStageName = "stats"
	writeStageName = "write"
)

// Stats sums up a run.
type Stats struct {
	Chunks       int
	BytesRead    int64
	BytesMetered int64
	BytesWritten int64
	Elapsed      time.Duration
}

// Viewer wires the stages of a run together.
type Viewer struct {
	cfg    config.Config
	log    zerolog.Logger
	status io.Writer
	stdin  io.Reader
	stdout io.Writer
	now    func() time.Time
	opts   []model.PipelineOption
}

// Option configures a Viewer.
type Option func(v *Viewer)

// WithStatusWriter sets where the status line is rendered. Defaults to os.Stderr.
func WithStatusWriter(w io.Writer) Option {
	return func(v *Viewer) {
		v.status = w
	}
}

// WithStdio sets the input and output used when no path is configured.
// Defaults to os.Stdin and os.Stdout.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(v *Viewer) {
		v.stdin = in
		v.stdout = out
	}
}

// WithClock sets the clock used by the meter.
func WithClock(now func() time.Time) Option {
	return func(v *Viewer) {
		v.now = now
	}
}

// WithPipelineOptions adds options to the pipeline running the stages.
func WithPipelineOptions(opts ...model.PipelineOption) Option {
	return func(v *Viewer) {
		v.opts = append(v.opts, opts...)
	}
}

// New creates a viewer for cfg.
func New(cfg config.Config, log zerolog.Logger, opts ...Option) *Viewer {
	v := &Viewer{
		cfg:    cfg,
		log:    log,
		status: os.Stderr,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

func (v *Viewer) pipelineOptions() []model.PipelineOption {
	opts := []model.PipelineOption{logger.PipelineLogger(v.log)}

	if v.cfg.GraphFile != "" {
		msr := measure.NewDefaultMeasure()
		opts = append(opts,
			measure.PipelineMeasure(msr),
			drawer.PipelineDrawer(drawer.NewDOTDrawer(v.cfg.GraphFile), msr),
		)
	}

	return append(opts, v.opts...)
}

// Run relays the input to the output until the input is exhausted or a stage fails.
// It waits for the three stages and returns the first error. Stats are filled in
// either way.
func (v *Viewer) Run(ctx context.Context) (Stats, error) {
	err := v.cfg.Validate()
	if err != nil {
		return Stats{}, errors.Wrap(err, "invalid configuration")
	}

	start := time.Now()
	counts := newCountQueue()
	data := newChunkQueue(v.cfg.DataCapacity)

	source := newSource(func() (io.ReadCloser, error) {
		return openInput(v.cfg.InputPath, v.stdin)
	}, v.cfg.ChunkSize, counts, data)
	meter := newMeter(counts, v.cfg.Silent, v.status, v.cfg.RenderPeriod, v.now, v.log.With().Str("stage", statsStageName).Logger())
	sink := newSink(func() (io.WriteCloser, error) {
		return openOutput(v.cfg.OutputPath, v.stdout)
	}, data)

	pipe, err := pipeline.New(ctx, v.pipelineOptions()...)
	if err != nil {
		return Stats{}, errors.Wrap(err, "unable to create pipeline")
	}

	readStep, err := pipeline.AddStage(pipe, readStageName, model.SourceStepType, nil, source.Run)
	if err != nil {
		return Stats{}, errors.Wrapf(err, "unable to add %s stage", readStageName)
	}

	_, err = pipeline.AddStage(pipe, statsStageName, model.MeterStepType, []*model.StepInfo{readStep}, meter.Run)
	if err != nil {
		return Stats{}, errors.Wrapf(err, "unable to add %s stage", statsStageName)
	}

	_, err = pipeline.AddStage(pipe, writeStageName, model.SinkStepType, []*model.StepInfo{readStep}, sink.Run)
	if err != nil {
		return Stats{}, errors.Wrapf(err, "unable to add %s stage", writeStageName)
	}

	v.log.Debug().
		Str("input", v.cfg.InputPath).
		Str("output", v.cfg.OutputPath).
		Int("chunk_size", v.cfg.ChunkSize).
		Int("buffer", v.cfg.DataCapacity).
		Msg("pipeline starting")

	err = pipe.Run()

	stats := Stats{
		Chunks:       source.Chunks(),
		BytesRead:    source.Bytes(),
		BytesMetered: meter.Total(),
		BytesWritten: sink.Bytes(),
		Elapsed:      time.Since(start),
	}

	if err != nil {
		v.log.Error().Err(err).Int64("bytes_written", stats.BytesWritten).Msg("pipeline failed")

		return stats, err
	}

	v.log.Debug().
		Int("chunks", stats.Chunks).
		Int64("bytes_read", stats.BytesRead).
		Int64("bytes_written", stats.BytesWritten).
		Dur("elapsed", stats.Elapsed).
		Msg("pipeline finished")

	return stats, nil
}
