package pv

import (
	"io"
	"os"
	"syscall"

	"github.com/pkg/errors"
)

var (
	ErrOpenInput  = errors.New("unable to open input")
	ErrOpenOutput = errors.New("unable to open output")
	ErrRead       = errors.New("unable to read input")
	ErrWrite      = errors.New("unable to write output")
)

// ioError ties an I/O failure to the step of the run it happened in, so that both can be
// matched with errors.Is.
type ioError struct {
	kind error
	err  error
}

func newIOError(kind, err error) error {
	return &ioError{kind: kind, err: err}
}

func (e *ioError) Error() string {
	return e.kind.Error() + ": " + e.err.Error()
}

func (e *ioError) Unwrap() []error {
	return []error{e.kind, e.err}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// openInput opens path for reading, or returns stdin when path is empty.
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return file, nil
}

// openOutput creates or truncates path, or returns stdout when path is empty.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{stdout}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return file, nil
}

// isBrokenPipe reports whether err comes from writing to a consumer that has gone away.
func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE)
}
