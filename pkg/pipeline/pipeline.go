package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-pipeviewer/pkg/pipeline/model"
)

// Pipeline is a set of stages running concurrently.
type Pipeline struct {
	ctx       context.Context
	opts      []model.PipelineOption
	startTime time.Time
	mu        sync.Mutex
	stages    []*stage
	started   bool
}

// New creates a new pipeline.
func New(ctx context.Context, opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		ctx:       ctx,
		startTime: time.Now(),
		opts:      opts,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// StartTime returns the time the pipeline was created.
func (p *Pipeline) StartTime() time.Time {
	return p.startTime
}

// Run starts every stage and waits for all of them to finish.
// It returns the first error returned by a stage, if any.
// A failing stage does not cancel the others: they are expected to drain their
// inputs and stop on their own.
func (p *Pipeline) Run() error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()

		return ErrPipelineAlreadyRun
	}
	p.started = true
	stages := p.stages
	p.mu.Unlock()

	var grp errgroup.Group

	for _, stg := range stages {
		grp.Go(func() error {
			return stg.run(p.ctx)
		})
	}

	// Wait for all stages to finish.
	err := grp.Wait()
	if err != nil {
		return err
	}

	return p.finishRun()
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
