package pv

// Chunk is a slice of the input. The sender gives up the chunk when it is queued.
// The empty chunk marks the end of the stream.
type Chunk []byte

// IsEndOfStream reports whether c is the end of stream sentinel.
func (c Chunk) IsEndOfStream() bool {
	return len(c) == 0
}
