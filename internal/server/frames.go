package server

import "sync"

// FrameBuffer holds the most recent annotated frame as JPEG bytes. The
// application loop updates it and the stream handler reads from it, so
// stream clients never touch the camera directly.
type FrameBuffer struct {
	mu   sync.RWMutex
	data []byte
	seq  uint64
}

// NewFrameBuffer creates an empty FrameBuffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Update replaces the buffered frame. The buffer takes ownership of the
// slice.
func (b *FrameBuffer) Update(jpeg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = jpeg
	b.seq++
}

// Latest returns the buffered frame and its sequence number. The frame is
// nil until the first Update.
func (b *FrameBuffer) Latest() ([]byte, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.data, b.seq
}
