package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// ErrNoMoreFrames is returned by MockCamera once a non-looping sequence is
// exhausted, standing in for a camera whose stream ended.
var ErrNoMoreFrames = errors.New("no more frames")

// MockCamera plays back a prepared frame sequence. Each read returns a
// clone, so the prepared Mats stay untouched and the caller can Close what
// it gets, same as with the real camera.
type MockCamera struct {
	mu     sync.Mutex
	frames []*gocv.Mat
	next   int
	loop   bool
	open   bool

	// Reads counts successful ReadFrame calls.
	Reads int
}

// NewMockCamera builds a camera that serves the given frames in order.
// With loop set, the sequence repeats forever; otherwise reads fail with
// ErrNoMoreFrames once it runs out.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{frames: frames, loop: loop}
}

func (m *MockCamera) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	m.next = 0
	return nil
}

func (m *MockCamera) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	return nil
}

func (m *MockCamera) ReadFrame() (*gocv.Mat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return nil, ErrCameraNotOpen
	}
	if m.next >= len(m.frames) {
		if !m.loop || len(m.frames) == 0 {
			return nil, ErrNoMoreFrames
		}
		m.next = 0
	}

	frame := m.frames[m.next].Clone()
	m.next++
	m.Reads++
	return &frame, nil
}

func (m *MockCamera) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}
