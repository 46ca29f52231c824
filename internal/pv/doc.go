// Package pv relays bytes from an input to an output while reporting the throughput.
//
// A run is made of three stages connected by two queues:
//
//	read  --counts (unbounded)-->  stats
//	read  --chunks (bounded)---->  write
//
// read slices the input into chunks, sends the size of every chunk to stats and the chunk
// itself to write. The chunk queue is bounded: when write falls behind, read blocks on it.
// The count queue is not: stats can never slow the transfer down.
//
// End of stream is signalled on both queues with a sentinel (a zero count, an empty chunk)
// followed by closing the queue. A receiver treats both the same way. When write stops
// early it releases its queue so that a read blocked on a full queue returns instead of
// hanging.
package pv
