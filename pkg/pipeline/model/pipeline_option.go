package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	pipelineStepOption

	// Finish runs after the pipeline is finished.
	Finish() error
}

// pipelineStepOption defines the interface for step options at the pipeline level.
type pipelineStepOption interface {
	// PrepareStep runs before the step is started.
	PrepareStep(parentSteps []*StepInfo, step *StepInfo) error
	// OnStepOutput runs everytime the step reports an item of the given size.
	// It can be called concurrently by different steps.
	OnStepOutput(step *StepInfo, size int, computationDuration time.Duration) error
	// AfterStep runs once the step has returned.
	AfterStep(step *StepInfo, totalDuration time.Duration, stepErr error) error
}
