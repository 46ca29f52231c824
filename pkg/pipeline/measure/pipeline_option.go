package measure

import (
	"time"

	"github.com/askiada/go-pipeviewer/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
	startTime time.Time
}

func (pm *pipelineMeasure) New() error {
	pm.startTime = time.Now()
	pm.AddMetric(model.StartStep.Name, 1)
	pm.AddMetric(model.EndStep.Name, 1)

	return nil
}

func (pm *pipelineMeasure) PrepareStep(_ []*model.StepInfo, step *model.StepInfo) error {
	pm.AddMetric(step.Name, step.Concurrent)

	return nil
}

func (pm *pipelineMeasure) OnStepOutput(step *model.StepInfo, size int, computationDuration time.Duration) error {
	mt := pm.GetMetric(step.Name)
	if mt == nil {
		return nil
	}

	mt.AddItem(size, computationDuration)

	return nil
}

func (pm *pipelineMeasure) AfterStep(step *model.StepInfo, totalDuration time.Duration, _ error) error {
	mt := pm.GetMetric(step.Name)
	if mt == nil {
		return nil
	}

	mt.SetTotalDuration(totalDuration)

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	if mt := pm.GetMetric(model.EndStep.Name); mt != nil {
		mt.SetTotalDuration(time.Since(pm.startTime))
	}

	return nil
}

// PipelineMeasure returns an option recording a metric for every step of the pipeline into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{Measure: measure}
}
