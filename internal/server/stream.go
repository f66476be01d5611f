package server

import (
	"fmt"
	"net/http"
	"time"
)

// pollInterval caps the stream at roughly 30 FPS; the loop rarely
// produces frames faster than that anyway.
const pollInterval = 33 * time.Millisecond

// StreamHandler serves the annotated preview as an MJPEG stream.
type StreamHandler struct {
	frames *FrameBuffer
}

// NewStreamHandler creates a new StreamHandler reading from the given
// frame buffer.
func NewStreamHandler(frames *FrameBuffer) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var last uint64
	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		frame, seq := h.frames.Latest()
		if frame == nil || seq == last {
			// Nothing new yet
			time.Sleep(pollInterval)
			continue
		}
		last = seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame))
		w.Write(frame)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(pollInterval)
	}
}
