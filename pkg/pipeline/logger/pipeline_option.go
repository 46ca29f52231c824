// Package logger provides a pipeline option logging the lifecycle of every stage.
package logger

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/askiada/go-pipeviewer/pkg/pipeline/model"
)

type pipelineLogger struct {
	log       zerolog.Logger
	startTime time.Time
}

func (pl *pipelineLogger) New() error {
	pl.startTime = time.Now()
	pl.log.Debug().Msg("pipeline created")

	return nil
}

func (pl *pipelineLogger) PrepareStep(parentSteps []*model.StepInfo, step *model.StepInfo) error {
	parents := make([]string, len(parentSteps))
	for i, parent := range parentSteps {
		parents[i] = parent.Name
	}

	pl.log.Debug().
		Str("step", step.Name).
		Str("type", string(step.Type)).
		Strs("parents", parents).
		Msg("step prepared")

	return nil
}

func (pl *pipelineLogger) OnStepOutput(step *model.StepInfo, size int, computationDuration time.Duration) error {
	pl.log.Trace().
		Str("step", step.Name).
		Int("size", size).
		Dur("computation", computationDuration).
		Msg("step output")

	return nil
}

func (pl *pipelineLogger) AfterStep(step *model.StepInfo, totalDuration time.Duration, stepErr error) error {
	if stepErr != nil {
		pl.log.Error().
			Err(stepErr).
			Str("step", step.Name).
			Dur("duration", totalDuration).
			Msg("step failed")

		return nil
	}

	pl.log.Debug().
		Str("step", step.Name).
		Dur("duration", totalDuration).
		Msg("step finished")

	return nil
}

func (pl *pipelineLogger) Finish() error {
	pl.log.Debug().Dur("duration", time.Since(pl.startTime)).Msg("pipeline finished")

	return nil
}

// PipelineLogger returns an option logging the pipeline steps with log.
func PipelineLogger(log zerolog.Logger) model.PipelineOption {
	return &pipelineLogger{log: log.With().Str("component", "pipeline").Logger()}
}
