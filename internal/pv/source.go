package pv

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeviewer/pkg/pipeline"
)

// Source reads the input chunk by chunk. It is the only sender on both queues.
type Source struct {
	open      func() (io.ReadCloser, error)
	chunkSize int
	counts    *countQueue
	data      *chunkQueue

	chunks int
	bytes  int64
}

func newSource(open func() (io.ReadCloser, error), chunkSize int, counts *countQueue, data *chunkQueue) *Source {
	return &Source{
		open:      open,
		chunkSize: chunkSize,
		counts:    counts,
		data:      data,
	}
}

// Run reads until the end of the input, a read error, or the chunk receiver going away.
// In every case both queues are closed when it returns; the sentinels are only sent when
// the input could be opened.
func (s *Source) Run(ctx context.Context, report pipeline.ReportFn) error {
	defer s.counts.close()
	defer s.data.close()

	input, err := s.open()
	if err != nil {
		return newIOError(ErrOpenInput, err)
	}
	defer input.Close()

	defer func() {
		s.counts.send(0)
		s.data.send(nil)
	}()

	// Every read is bounded by the chunk size, so chunk boundaries are read boundaries.
	buffer := make([]byte, s.chunkSize)

	for {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "reading interrupted")
		default:
		}

		start := time.Now()

		n, err := input.Read(buffer)
		if n > 0 {
			chunk := make(Chunk, n)
			copy(chunk, buffer[:n])

			s.counts.send(n)

			if !s.data.send(chunk) {
				// Nobody is writing anymore.
				return nil
			}

			s.chunks++
			s.bytes += int64(n)
			report(n, time.Since(start))
		}

		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return newIOError(ErrRead, err)
		case n == 0:
			return nil
		}
	}
}

// Chunks returns the number of chunks handed to the writer.
func (s *Source) Chunks() int {
	return s.chunks
}

// Bytes returns the number of bytes handed to the writer.
func (s *Source) Bytes() int64 {
	return s.bytes
}
