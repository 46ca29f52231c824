package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeviewer/pkg/pipeline/model"
)

// ReportFn lets a stage report an item it has processed, with its size and the time
// spent on it.
type ReportFn func(size int, computationDuration time.Duration)

// StageFn is the body of a stage. It must return once its inputs are exhausted.
type StageFn func(ctx context.Context, report ReportFn) error

type stage struct {
	pipe    *Pipeline
	details *model.StepInfo
	fn      StageFn

	mu      sync.Mutex
	hookErr error
}

func (s *stage) report(size int, computationDuration time.Duration) {
	for _, opt := range s.pipe.opts {
		err := opt.OnStepOutput(s.details, size, computationDuration)
		if err != nil {
			s.mu.Lock()
			if s.hookErr == nil {
				s.hookErr = errors.Wrap(err, "unable to run on step output function")
			}
			s.mu.Unlock()
		}
	}
}

func (s *stage) call(ctx context.Context) (err error) {
	defer recoverStage(&err)

	return s.fn(ctx, s.report)
}

func (s *stage) run(ctx context.Context) error {
	start := time.Now()
	err := s.call(ctx)
	total := time.Since(start)

	for _, opt := range s.pipe.opts {
		optErr := opt.AfterStep(s.details, total, err)
		if optErr != nil && err == nil {
			err = errors.Wrap(optErr, "unable to run after step function")
		}
	}

	if err == nil {
		s.mu.Lock()
		err = s.hookErr
		s.mu.Unlock()
	}

	if err != nil {
		return errors.Wrap(err, s.details.Name)
	}

	return nil
}

func prepareStage(pipe *Pipeline, parents []*model.StepInfo, details *model.StepInfo) error {
	if len(parents) == 0 {
		parents = []*model.StepInfo{model.StartStep}
	}

	for _, opt := range pipe.opts {
		err := opt.PrepareStep(parents, details)
		if err != nil {
			return errors.Wrap(err, "unable to run before step function")
		}
	}

	return nil
}

// AddStage registers a stage. It starts when Run is called.
// parents are the stages feeding this one; a stage without parents is fed by model.StartStep.
func AddStage(pipe *Pipeline, name string, stepType model.StepType, parents []*model.StepInfo, stageFn StageFn) (*model.StepInfo, error) {
	if pipe == nil {
		return nil, ErrPipelineMustBeSet
	}

	if stageFn == nil {
		return nil, ErrStageFnMustBeSet
	}

	details := &model.StepInfo{
		Type:       stepType,
		Name:       name,
		Concurrent: 1,
	}

	err := prepareStage(pipe, parents, details)
	if err != nil {
		return nil, err
	}

	pipe.mu.Lock()
	defer pipe.mu.Unlock()

	if pipe.started {
		return nil, ErrPipelineAlreadyRun
	}

	pipe.stages = append(pipe.stages, &stage{
		pipe:    pipe,
		details: details,
		fn:      stageFn,
	})

	return details, nil
}
