// Package api provides HTTP API handlers for the Moodplay status server.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ayusman/moodplay/internal/store"
)

// CapturesHandler handles HTTP requests for the capture history.
type CapturesHandler struct {
	store *store.Store
}

// NewCapturesHandler creates a new CapturesHandler with the given store.
func NewCapturesHandler(s *store.Store) *CapturesHandler {
	return &CapturesHandler{store: s}
}

// Response types

type captureResponse struct {
	ID          string  `json:"id"`
	Emotion     string  `json:"emotion"`
	Confidence  float64 `json:"confidence"`
	PlaylistURI string  `json:"playlist_uri"`
	Outcome     string  `json:"outcome"`
	Detail      string  `json:"detail,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type listCapturesResponse struct {
	Captures []captureResponse `json:"captures"`
}

type statsResponse struct {
	Total     int            `json:"total"`
	ByEmotion map[string]int `json:"by_emotion"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Capture to a captureResponse.
func toResponse(c *store.Capture) captureResponse {
	return captureResponse{
		ID:          c.ID,
		Emotion:     c.Emotion,
		Confidence:  c.Confidence,
		PlaylistURI: c.PlaylistURI,
		Outcome:     string(c.Outcome),
		Detail:      c.Detail,
		CreatedAt:   c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// List handles GET /api/captures and returns recent captures, newest
// first. The optional limit query parameter caps the result.
func (h *CapturesHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	captures, err := h.store.Captures().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list captures")
		return
	}

	response := listCapturesResponse{
		Captures: make([]captureResponse, 0, len(captures)),
	}
	for _, c := range captures {
		response.Captures = append(response.Captures, toResponse(c))
	}

	writeJSON(w, http.StatusOK, response)
}

// Stats handles GET /api/captures/stats and returns per-emotion counts.
func (h *CapturesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.Captures().CountByEmotion()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count captures")
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	writeJSON(w, http.StatusOK, statsResponse{Total: total, ByEmotion: counts})
}
