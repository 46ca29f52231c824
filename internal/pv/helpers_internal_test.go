package pv

import (
	"bytes"
	"io"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"
)

func noReport(int, time.Duration) {}

func readerOpener(r io.Reader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(r), nil
	}
}

func failingOpener[T any](err error) func() (T, error) {
	return func() (T, error) {
		var zero T

		return zero, err
	}
}

// drainChunks collects the chunks of q until the end of the stream.
func drainChunks(t *testing.T, q *chunkQueue) []Chunk {
	t.Helper()

	res := []Chunk{}

	for {
		chunk, ok := q.recv()
		if !ok {
			return res
		}

		res = append(res, chunk)
	}
}

func drainCounts(t *testing.T, q *countQueue) []int {
	t.Helper()

	res := []int{}

	for {
		n, ok := q.recv()
		if !ok {
			return res
		}

		res = append(res, n)
	}
}

// erroringReader returns data, then err.
type erroringReader struct {
	data []byte
	err  error
}

func (r *erroringReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}

	n := copy(p, r.data)
	r.data = r.data[n:]

	return n, nil
}

// limitedWriter accepts limit bytes, then fails with err.
type limitedWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	limit  int
	err    error
	closed bool
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len()+len(p) > w.limit {
		return 0, w.err
	}

	return w.buf.Write(p)
}

func (w *limitedWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true

	return nil
}

func brokenPipeErr() error {
	return &os.PathError{Op: "write", Path: "|1", Err: syscall.EPIPE}
}

// fakeClock advances by step every time it is read.
type fakeClock struct {
	mu   sync.Mutex
	curr time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{curr: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: step}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.curr
	c.curr = c.curr.Add(c.step)

	return res
}
