package pv

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/askiada/go-pipeviewer/pkg/pipeline"
)

// clearLine moves the cursor back to the first column and clears the line.
const clearLine = "\r\033[2K"

// ThroughputState is the view of the transfer kept by the meter.
type ThroughputState struct {
	// Total only grows.
	Total      int64
	Start      time.Time
	LastUpdate time.Time
	// Delta is the time between the last two updates.
	Delta time.Duration
	// Rate is the bytes per second of the last update that had a measurable delta.
	Rate float64
	// Countdown is the time left before the status is due again.
	Countdown time.Duration
	// Ready is set when the status is due.
	Ready  bool
	Period time.Duration
}

// NewThroughputState returns a state started at now. The first update with a measurable
// delta makes the status due.
func NewThroughputState(now time.Time, period time.Duration) *ThroughputState {
	return &ThroughputState{
		Start:      now,
		LastUpdate: now,
		Period:     period,
	}
}

// Update records n bytes received at now.
func (st *ThroughputState) Update(n int, now time.Time) {
	st.Total += int64(n)
	st.Delta = now.Sub(st.LastUpdate)
	st.LastUpdate = now

	if st.Delta <= 0 {
		return
	}

	st.Rate = float64(n) / st.Delta.Seconds()

	st.Countdown -= st.Delta
	if st.Countdown < 0 {
		st.Countdown = st.Period
		st.Ready = true
	}
}

// Elapsed returns the time between the start and the last update.
func (st *ThroughputState) Elapsed() time.Duration {
	return st.LastUpdate.Sub(st.Start)
}

// Meter consumes byte counts and renders the status line at most once per period.
type Meter struct {
	counts *countQueue
	silent bool
	out    io.Writer
	period time.Duration
	now    func() time.Time
	log    zerolog.Logger

	state *ThroughputState
}

func newMeter(counts *countQueue, silent bool, out io.Writer, period time.Duration, now func() time.Time, log zerolog.Logger) *Meter {
	return &Meter{
		counts: counts,
		silent: silent,
		out:    out,
		period: period,
		now:    now,
		log:    log,
		state:  &ThroughputState{Period: period},
	}
}

// Run consumes counts until the end of the stream. The status line is advisory: when it
// cannot be written, rendering stops but counting goes on.
func (m *Meter) Run(_ context.Context, report pipeline.ReportFn) error {
	m.state = NewThroughputState(m.now(), m.period)

	for {
		n, ok := m.counts.recv()
		if !ok {
			break
		}

		m.state.Update(n, m.now())
		report(n, 0)

		if !m.state.Ready {
			continue
		}

		m.state.Ready = false
		m.render("")
	}

	m.render("\n")

	return nil
}

func (m *Meter) render(end string) {
	if m.silent {
		return
	}

	_, err := io.WriteString(m.out, clearLine+FormatStatus(m.state.Total, m.state.Elapsed(), m.state.Rate)+end)
	if err != nil {
		m.log.Warn().Err(err).Msg("unable to render status, status line disabled")
		m.silent = true
	}
}

// Total returns the bytes counted so far.
func (m *Meter) Total() int64 {
	return m.state.Total
}
