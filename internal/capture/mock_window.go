package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockWindow feeds a scripted key sequence to the loop under test.
// Each PollKey call consumes the next key; once the script is exhausted
// it reports KeyNone.
type MockWindow struct {
	mu     sync.Mutex
	keys   []int
	next   int
	shown  int
	closed bool
}

func NewMockWindow(keys ...int) *MockWindow {
	return &MockWindow{keys: keys}
}

func (w *MockWindow) Show(frame *gocv.Mat) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shown++
}

func (w *MockWindow) PollKey() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.next >= len(w.keys) {
		return KeyNone
	}
	key := w.keys[w.next]
	w.next++
	return key
}

func (w *MockWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// Shown returns how many frames were displayed.
func (w *MockWindow) Shown() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shown
}

// Closed reports whether Close was called.
func (w *MockWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
