package drawer

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-pipeviewer/pkg/pipeline/measure"
)

// DOTDrawer is a drawer that creates a Graphviz DOT file with the pipeline graph.
type DOTDrawer struct {
	graph       graph.Graph[string, string]
	dotFileName string
}

// NewDOTDrawer creates a new DOT drawer writing to dotFileName.
func NewDOTDrawer(dotFileName string) *DOTDrawer {
	return &DOTDrawer{
		dotFileName: dotFileName,
		graph:       graph.New(graph.StringHash, graph.Directed()),
	}
}

// AddStep adds a step to the pipeline graph.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds an edge from parentName to childName.
func (d *DOTDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

// Draw writes the pipeline graph to the DOT file. Step metrics are rendered as external
// labels, so `dot -Tsvg` keeps the step names inside the nodes.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.dotFileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.dotFileName)
	}
	defer file.Close()

	err = draw.DOT(d.graph, file,
		draw.GraphAttribute("rankdir", "LR"),
		draw.GraphAttribute("forcelabels", "true"),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to render dot file %s", d.dotFileName)
	}

	return nil
}

// SetTotalTime sets the time elapsed since startTime as the label of the step.
func (d *DOTDrawer) SetTotalTime(stepName string, startTime time.Time) error {
	_, properties, err := d.graph.VertexWithProperties(stepName)
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", stepName)
	}

	properties.Attributes["xlabel"] = time.Since(startTime).Round(time.Millisecond).String()

	return nil
}

const maxRGB = 240

// AddMeasure labels every step with its metrics and colours the edges leading to it
// according to its throughput: blue for the fastest step, red for the slowest.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	throughputs := []float64{}

	for _, step := range msr.AllMetrics() {
		if step.Bytes() == 0 || step.Throughput() == 0 {
			continue
		}

		throughputs = append(throughputs, step.Throughput())
	}

	sort.Float64s(throughputs)

	colours := map[float64]string{}

	if len(throughputs) > 0 {
		minValue := throughputs[0]
		maxValue := throughputs[len(throughputs)-1]

		for _, curr := range throughputs {
			fraction := 1.0
			if maxValue > minValue {
				fraction = (maxValue - curr) / (maxValue - minValue)
			}

			red := maxRGB * fraction
			blue := maxRGB - red

			colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
			if err != nil {
				return errors.Wrap(err, "unable to get colour")
			}

			colours[curr] = colour.ToHEX().String()
		}
	}

	err := d.updateMetrics(msr, colours)
	if err != nil {
		return errors.Wrap(err, "unable to update metrics")
	}

	return nil
}

func (d *DOTDrawer) updateMetrics(msr measure.Measure, colours map[float64]string) error {
	predecessors, err := d.graph.PredecessorMap()
	if err != nil {
		return errors.Wrap(err, "unable to get predecessor map")
	}

	for name, step := range msr.AllMetrics() {
		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			// Metrics can be recorded for steps that were never drawn.
			continue
		}

		if step.Items() > 0 {
			properties.Attributes["xlabel"] = fmt.Sprintf("%d items, %d bytes, avg %s", step.Items(), step.Bytes(), step.AVGDuration())
		}

		if step.GetTotalDuration() > 0 {
			if properties.Attributes["xlabel"] != "" {
				properties.Attributes["xlabel"] += ", "
			}

			properties.Attributes["xlabel"] += "end: " + step.GetTotalDuration().Round(time.Millisecond).String()
		}

		colour, ok := colours[step.Throughput()]
		if !ok {
			continue
		}

		for parent := range predecessors[name] {
			err := d.graph.UpdateEdge(parent, name,
				graph.EdgeAttribute("label", fmt.Sprintf("%.0f B/s", step.Throughput())),
				graph.EdgeAttribute("fontcolor", "blue"),
				graph.EdgeAttribute("color", colour),
			)
			if err != nil {
				return errors.Wrap(err, "unable to update edge")
			}
		}
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
