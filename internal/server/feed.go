package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/moodplay/internal/detector"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveFeed broadcasts the current detections to WebSocket clients. The
// application loop pushes into it via Publish.
type LiveFeed struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewLiveFeed creates a LiveFeed with no clients.
func NewLiveFeed() *LiveFeed {
	return &LiveFeed{clients: make(map[*websocket.Conn]bool)}
}

// ServeHTTP handles WebSocket upgrade requests.
func (f *LiveFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	f.mu.Lock()
	f.clients[conn] = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		delete(f.clients, conn)
		f.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (f *LiveFeed) Clients() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// feedDetection is the wire shape for one detection.
type feedDetection struct {
	Label      string  `json:"label"`
	Confidence float32 `json:"confidence"`
	Box        feedBox `json:"box"`
}

type feedBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Publish sends the detections to every connected client. It is called
// from the application loop, one frame at a time.
func (f *LiveFeed) Publish(detections []detector.Detection) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.clients) == 0 {
		return
	}

	wire := make([]feedDetection, 0, len(detections))
	for _, d := range detections {
		wire = append(wire, feedDetection{
			Label:      d.Label,
			Confidence: d.Confidence,
			Box: feedBox{
				X:      d.Box.Min.X,
				Y:      d.Box.Min.Y,
				Width:  d.Box.Dx(),
				Height: d.Box.Dy(),
			},
		})
	}

	msg, _ := json.Marshal(map[string]interface{}{
		"detections": wire,
		"timestamp":  time.Now().UnixMilli(),
	})

	for conn := range f.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}
