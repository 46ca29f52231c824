package drawer

import (
	"time"

	"github.com/askiada/go-pipeviewer/pkg/pipeline/measure"
)

// Drawer renders the stage graph of a run once it is over.
type Drawer interface {
	// AddStep adds a node for a stage. Names are unique.
	AddStep(stepName string) error
	// AddLink adds an edge from a stage to a stage it feeds. Both must exist.
	AddLink(parentStepName, childStepName string) error
	// SetTotalTime labels a stage with the time elapsed since startTime.
	SetTotalTime(stepName string, startTime time.Time) error
	// AddMeasure labels the stages with their metrics.
	AddMeasure(msr measure.Measure) error
	// Draw writes the graph.
	Draw() error
}
