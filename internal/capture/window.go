package capture

import (
	"gocv.io/x/gocv"
)

// KeyNone is returned by PollKey when no key was pressed during the poll.
const KeyNone = -1

// KeyEscape is the keyboard code for the Escape key.
const KeyEscape = 27

// Window displays annotated frames and reports key presses.
type Window interface {
	Show(frame *gocv.Mat)
	// PollKey waits briefly for a key press and returns its code, or KeyNone.
	PollKey() int
	Close() error
}

type windowImpl struct {
	win *gocv.Window
}

// NewWindow creates an on-screen preview window with the given title.
// It must be used from the main goroutine; HighGUI is not thread safe.
func NewWindow(title string) Window {
	return &windowImpl{win: gocv.NewWindow(title)}
}

func (w *windowImpl) Show(frame *gocv.Mat) {
	w.win.IMShow(*frame)
}

func (w *windowImpl) PollKey() int {
	key := w.win.WaitKey(1)
	if key < 0 {
		return KeyNone
	}
	// High bits carry modifier state on some platforms.
	return key & 0xff
}

func (w *windowImpl) Close() error {
	return w.win.Close()
}
