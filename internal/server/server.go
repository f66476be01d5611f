// Package server provides the HTTP status server for the Moodplay
// emotion-driven playlist player.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ayusman/moodplay/internal/server/api"
	"github.com/ayusman/moodplay/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Store  *store.Store
	Frames *FrameBuffer
	Live   *LiveFeed
}

// Server represents the HTTP status server for the Moodplay application.
type Server struct {
	config Config
	router *chi.Mux
	start  time.Time

	mu   sync.Mutex
	http *http.Server
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: chi.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures middleware and all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/api/health", s.handleHealth)

	// Register capture history endpoints if Store is configured
	if s.config.Store != nil {
		captures := api.NewCapturesHandler(s.config.Store)
		s.router.Get("/api/captures", captures.List)
		s.router.Get("/api/captures/stats", captures.Stats)
	}

	// Register the MJPEG preview endpoint if a frame buffer is configured
	if s.config.Frames != nil {
		s.router.Get("/api/stream", NewStreamHandler(s.config.Frames).ServeHTTP)
	}

	// Register the detections WebSocket endpoint if a live feed is configured
	if s.config.Live != nil {
		s.router.Get("/api/live", s.config.Live.ServeHTTP)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// handleHealth reports process status and uptime.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{
		Status: "ok",
		Uptime: time.Since(s.start).Round(time.Second).String(),
	})
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.mu.Lock()
	s.http = srv
	s.mu.Unlock()

	return srv.ListenAndServe()
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
