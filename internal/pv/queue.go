package pv

import (
	"sync"

	"gopkg.in/eapache/channels.v1"
)

// chunkQueue is a bounded FIFO queue of chunks with a single sender and a single receiver.
type chunkQueue struct {
	c         chan Chunk
	gone      chan struct{}
	closeOnce sync.Once
	goneOnce  sync.Once
}

func newChunkQueue(capacity int) *chunkQueue {
	return &chunkQueue{
		c:    make(chan Chunk, capacity),
		gone: make(chan struct{}),
	}
}

// send blocks until chunk is queued. It returns false, without queueing, once the receiver
// has released the queue.
func (q *chunkQueue) send(chunk Chunk) bool {
	select {
	case <-q.gone:
		return false
	default:
	}

	select {
	case q.c <- chunk:
		return true
	case <-q.gone:
		return false
	}
}

// close is called by the sender once it is done.
func (q *chunkQueue) close() {
	q.closeOnce.Do(func() {
		close(q.c)
	})
}

// recv blocks until a chunk is available. It returns false on the sentinel or once the
// queue is closed.
func (q *chunkQueue) recv() (Chunk, bool) {
	chunk, ok := <-q.c
	if !ok || chunk.IsEndOfStream() {
		return nil, false
	}

	return chunk, true
}

// release is called by the receiver when it stops receiving.
func (q *chunkQueue) release() {
	q.goneOnce.Do(func() {
		close(q.gone)
	})
}

func (q *chunkQueue) len() int {
	return len(q.c)
}

// countQueue is an unbounded FIFO queue of byte counts. Sending never waits for the receiver.
type countQueue struct {
	ch        *channels.InfiniteChannel
	closeOnce sync.Once
}

func newCountQueue() *countQueue {
	return &countQueue{
		ch: channels.NewInfiniteChannel(),
	}
}

// send queues n. It must not be called after close.
func (q *countQueue) send(n int) {
	q.ch.In() <- n
}

func (q *countQueue) close() {
	q.closeOnce.Do(q.ch.Close)
}

// recv blocks until a count is available. It returns false on the zero sentinel or once
// the queue is closed and drained.
func (q *countQueue) recv() (int, bool) {
	v, ok := <-q.ch.Out()
	if !ok {
		return 0, false
	}

	n, _ := v.(int)
	if n == 0 {
		return 0, false
	}

	return n, true
}
