package pv

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceChunks(t *testing.T) {
	t.Parallel()

	input := bytes.Repeat([]byte("a"), 2500)
	path := filepath.Join(t.TempDir(), "input")
	require.NoError(t, os.WriteFile(path, input, 0o600))

	counts := newCountQueue()
	data := newChunkQueue(10)
	src := newSource(func() (io.ReadCloser, error) { return openInput(path, nil) }, 1000, counts, data)

	require.NoError(t, src.Run(context.Background(), noReport))

	assert.Equal(t, []int{1000, 1000, 500}, drainCounts(t, counts))

	chunks := drainChunks(t, data)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 500)
	assert.Equal(t, 3, src.Chunks())
	assert.Equal(t, int64(2500), src.Bytes())
}

func TestSourceSentinelsBeforeClose(t *testing.T) {
	t.Parallel()

	counts := newCountQueue()
	data := newChunkQueue(10)
	src := newSource(readerOpener(bytes.NewReader([]byte("abc"))), 16, counts, data)

	require.NoError(t, src.Run(context.Background(), noReport))

	chunk := <-data.c
	assert.Equal(t, Chunk("abc"), chunk)
	chunk, ok := <-data.c
	require.True(t, ok)
	assert.True(t, chunk.IsEndOfStream())
	_, ok = <-data.c
	assert.False(t, ok)

	assert.Equal(t, 3, <-counts.ch.Out())
	assert.Equal(t, 0, <-counts.ch.Out())
	_, ok = <-counts.ch.Out()
	assert.False(t, ok)
}

func TestSourceEmptyInput(t *testing.T) {
	t.Parallel()

	counts := newCountQueue()
	data := newChunkQueue(10)
	src := newSource(readerOpener(bytes.NewReader(nil)), 16, counts, data)

	require.NoError(t, src.Run(context.Background(), noReport))
	assert.Empty(t, drainCounts(t, counts))
	assert.Empty(t, drainChunks(t, data))
	assert.Zero(t, src.Bytes())
}

func TestSourceOpenError(t *testing.T) {
	t.Parallel()

	counts := newCountQueue()
	data := newChunkQueue(10)
	src := newSource(failingOpener[io.ReadCloser](os.ErrNotExist), 16, counts, data)

	err := src.Run(context.Background(), noReport)
	require.ErrorIs(t, err, ErrOpenInput)
	require.ErrorIs(t, err, os.ErrNotExist)

	// Nothing was sent, the queues are only closed.
	_, ok := <-data.c
	assert.False(t, ok)
	_, ok = <-counts.ch.Out()
	assert.False(t, ok)
}

func TestSourceReadError(t *testing.T) {
	t.Parallel()

	counts := newCountQueue()
	data := newChunkQueue(10)
	src := newSource(readerOpener(&erroringReader{data: []byte("abcdef"), err: assert.AnError}), 4, counts, data)

	err := src.Run(context.Background(), noReport)
	require.ErrorIs(t, err, ErrRead)
	require.ErrorIs(t, err, assert.AnError)

	// What was read before the error is still delivered, then the stream ends.
	assert.Equal(t, []int{4, 2}, drainCounts(t, counts))
	assert.Equal(t, []Chunk{Chunk("abcd"), Chunk("ef")}, drainChunks(t, data))
}

func TestSourceReceiverGone(t *testing.T) {
	t.Parallel()

	counts := newCountQueue()
	data := newChunkQueue(1)
	data.release()

	src := newSource(readerOpener(bytes.NewReader(bytes.Repeat([]byte("a"), 100))), 10, counts, data)

	done := make(chan error, 1)
	go func() {
		done <- src.Run(context.Background(), noReport)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("source blocked on a released queue")
	}

	assert.Zero(t, src.Chunks())
}

func TestSourceCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	counts := newCountQueue()
	data := newChunkQueue(1)
	src := newSource(readerOpener(bytes.NewReader([]byte("abc"))), 10, counts, data)

	err := src.Run(ctx, noReport)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, drainChunks(t, data))
}

func TestSourceReportsChunks(t *testing.T) {
	t.Parallel()

	counts := newCountQueue()
	data := newChunkQueue(10)
	src := newSource(readerOpener(bytes.NewReader(make([]byte, 25))), 10, counts, data)

	var (
		mu    sync.Mutex
		sizes []int
	)

	require.NoError(t, src.Run(context.Background(), func(size int, _ time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		sizes = append(sizes, size)
	}))

	assert.Equal(t, []int{10, 10, 5}, sizes)
}

func TestSourceSmallChunks(t *testing.T) {
	t.Parallel()

	counts := newCountQueue()
	data := newChunkQueue(16)
	src := newSource(readerOpener(bytes.NewReader(make([]byte, 11))), 3, counts, data)

	var (
		mu    sync.Mutex
		sizes []int
	)

	require.NoError(t, src.Run(context.Background(), func(size int, _ time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		sizes = append(sizes, size)
	}))

	assert.Equal(t, []int{3, 3, 3, 2}, sizes)
	assert.Equal(t, 4, src.Chunks())
	assert.Equal(t, int64(11), src.Bytes())
}
