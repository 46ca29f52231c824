package pv

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkQueueFIFO(t *testing.T) {
	t.Parallel()

	q := newChunkQueue(4)

	go func() {
		defer q.close()

		for i := range 10 {
			q.send(Chunk{byte(i)})
		}
	}()

	got := drainChunks(t, q)
	require.Len(t, got, 10)

	for i, chunk := range got {
		assert.Equal(t, Chunk{byte(i)}, chunk)
	}
}

func TestChunkQueueSentinel(t *testing.T) {
	t.Parallel()

	q := newChunkQueue(4)
	require.True(t, q.send(nil))

	_, ok := q.recv()
	assert.False(t, ok)
}

func TestChunkQueueBoundedLag(t *testing.T) {
	t.Parallel()

	const capacity = 3

	q := newChunkQueue(capacity)

	var sent atomic.Int32

	done := make(chan struct{})

	go func() {
		defer close(done)

		for range 10 {
			if !q.send(Chunk{1}) {
				return
			}

			sent.Add(1)
		}
	}()

	// The sender can only fill the queue.
	assert.Eventually(t, func() bool { return sent.Load() == capacity }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(capacity), sent.Load())
	assert.Equal(t, capacity, q.len())

	// Every chunk received lets exactly one more in.
	_, ok := q.recv()
	require.True(t, ok)
	assert.Eventually(t, func() bool { return sent.Load() == capacity+1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(capacity+1), sent.Load())

	// Releasing the queue unblocks the sender.
	q.release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sender still blocked after release")
	}

	assert.False(t, q.send(Chunk{1}))
}

func TestCountQueueUnbounded(t *testing.T) {
	t.Parallel()

	q := newCountQueue()

	// Nobody receives while sending: send must never block.
	for i := 1; i <= 10000; i++ {
		q.send(i)
	}
	q.send(0)
	q.close()

	got := drainCounts(t, q)
	require.Len(t, got, 10000)
	assert.Equal(t, 1, got[0])
	assert.Equal(t, 10000, got[len(got)-1])
}

func TestCountQueueClosed(t *testing.T) {
	t.Parallel()

	q := newCountQueue()
	q.send(5)
	q.close()
	q.close()

	assert.Equal(t, []int{5}, drainCounts(t, q))
}
