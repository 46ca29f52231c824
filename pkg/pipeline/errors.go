package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet  = errors.New("p must be set")
	ErrStageFnMustBeSet   = errors.New("stage function must be set")
	ErrPipelineAlreadyRun = errors.New("pipeline has already been run")
	ErrStagePanic         = errors.New("stage panicked")
)

// recoverStage turns a panic raised by a stage into an error wrapping ErrStagePanic.
func recoverStage(errp *error) {
	r := recover()
	if r == nil {
		return
	}

	*errp = errors.Wrapf(ErrStagePanic, "%v", r)
}
