package pv

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/askiada/go-pipeviewer/pkg/pipeline"
)

// Sink writes the chunks, in the order they were read, to the output.
type Sink struct {
	open func() (io.WriteCloser, error)
	data *chunkQueue

	chunks int
	bytes  int64
}

func newSink(open func() (io.WriteCloser, error), data *chunkQueue) *Sink {
	return &Sink{
		open: open,
		data: data,
	}
}

// Run writes chunks until the end of the stream. A consumer going away is not an error.
// The chunk queue is released when it returns, whatever the reason.
func (s *Sink) Run(_ context.Context, report pipeline.ReportFn) (err error) {
	defer s.data.release()

	output, err := s.open()
	if err != nil {
		return newIOError(ErrOpenOutput, err)
	}

	defer func() {
		closeErr := output.Close()
		if err == nil && closeErr != nil && !isBrokenPipe(closeErr) {
			err = newIOError(ErrWrite, closeErr)
		}
	}()

	writer := bufio.NewWriter(output)

	for {
		chunk, ok := s.data.recv()
		if !ok {
			break
		}

		start := time.Now()

		_, err := writer.Write(chunk)
		if err != nil {
			if isBrokenPipe(err) {
				return nil
			}

			return newIOError(ErrWrite, err)
		}

		s.chunks++
		s.bytes += int64(len(chunk))
		report(len(chunk), time.Since(start))
	}

	err = writer.Flush()
	if err != nil && !isBrokenPipe(err) {
		return newIOError(ErrWrite, err)
	}

	return nil
}

// Chunks returns the number of chunks written.
func (s *Sink) Chunks() int {
	return s.chunks
}

// Bytes returns the number of bytes written.
func (s *Sink) Bytes() int64 {
	return s.bytes
}
