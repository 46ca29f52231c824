package measure

import "time"

type Measure interface {
	AddMetric(name string, concurrent int) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

type Metric interface {
	AddItem(size int, elapsed time.Duration)
	AVGDuration() time.Duration
	Items() int64
	Bytes() int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
	Throughput() float64
}
