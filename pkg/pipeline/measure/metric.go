package measure

import (
	"sync"
	"time"
)

type DefaultMetric struct {
	mu          *sync.Mutex
	EndDuration time.Duration
	stepElapsed time.Duration
	total       int64
	bytes       int64
	concurrent  int
}

func (mt *DefaultMetric) AddItem(size int, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.bytes += int64(size)
	mt.stepElapsed += elapsed
}

func (mt *DefaultMetric) Items() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

func (mt *DefaultMetric) Bytes() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.bytes
}

func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.EndDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.EndDuration
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.total == 0 {
		return time.Duration(0)
	}

	concurrent := mt.concurrent
	if concurrent == 0 {
		concurrent = 1
	}

	return round(time.Duration(float64(mt.stepElapsed) / float64(mt.total) / float64(concurrent)))
}

// Throughput returns the bytes per second over the total duration of the step.
// It is zero until the total duration is set.
func (mt *DefaultMetric) Throughput() float64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.EndDuration <= 0 {
		return 0
	}

	return float64(mt.bytes) / mt.EndDuration.Seconds()
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Minute)
	case d > time.Minute:
		d = d.Round(time.Second)
	case d > time.Second:
		d = d.Round(time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Microsecond)
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)
