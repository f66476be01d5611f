// Package capture provides webcam access and the preview window using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// ErrCameraNotOpen is returned when reading from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera is a source of video frames. ReadFrame hands ownership of the
// returned Mat to the caller, who must Close it.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// webcam reads frames from a V4L/AVFoundation device through GoCV. The
// device keeps whatever resolution and format it negotiates; the detector
// scales frames itself, so nothing is forced here.
type webcam struct {
	id  int
	mu  sync.Mutex
	cap *gocv.VideoCapture
}

// NewCamera returns a Camera for the given device index (0 is the default
// webcam).
func NewCamera(id int) Camera {
	return &webcam{id: id}
}

// Open acquires the device. Calling Open on an already open camera is a
// no-op.
func (w *webcam) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cap != nil {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(w.id)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", w.id, err)
	}
	w.cap = vc
	return nil
}

// Close releases the device. Safe to call on a camera that was never
// opened.
func (w *webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cap == nil {
		return nil
	}
	err := w.cap.Close()
	w.cap = nil
	return err
}

// ReadFrame grabs the next frame. A read failure usually means the device
// was unplugged or the stream ended.
func (w *webcam) ReadFrame() (*gocv.Mat, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cap == nil {
		return nil, ErrCameraNotOpen
	}

	frame := gocv.NewMat()
	if ok := w.cap.Read(&frame); !ok {
		frame.Close()
		return nil, fmt.Errorf("camera %d: stream ended", w.id)
	}
	if frame.Empty() {
		frame.Close()
		return nil, fmt.Errorf("camera %d: empty frame", w.id)
	}
	return &frame, nil
}

// IsOpen reports whether the device is currently held.
func (w *webcam) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cap != nil
}
