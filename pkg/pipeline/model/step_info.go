package model

type StepType string

const (
	SourceStepType StepType = "source"
	MeterStepType  StepType = "meter"
	SinkStepType   StepType = "sink"
	NormalStepType StepType = "step"
	AnchorStepType StepType = "anchor"
)

// StepInfo describes a stage registered in a pipeline.
type StepInfo struct {
	Type       StepType
	Name       string
	Concurrent int
	BufferSize int
}

var (
	StartStep = &StepInfo{Type: AnchorStepType, Name: "start"}
	EndStep   = &StepInfo{Type: AnchorStepType, Name: "end"}
)
