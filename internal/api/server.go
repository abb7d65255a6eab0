package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wraps the HTTP server for the web frontend.
type Server struct {
	httpServer *http.Server
	watcher    *FileWatcher
	wsHub      *WebSocketHub
}

// NewServer creates a new server with the given handler and port.
// If dataDir is empty, file watching is disabled; changes made through the
// API are still broadcast.
func NewServer(handler *Handler, port int, dataDir string) *Server {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	wsHub := NewWebSocketHub()
	mux.HandleFunc("GET /api/v1/ws", wsHub.ServeWS)

	handler.palettes.Subscribe(wsHub.OnPaletteChange)
	handler.palettes.Subscribe(recordChange)

	var watcher *FileWatcher
	if dataDir != "" {
		var err error
		watcher, err = NewFileWatcher(dataDir)
		if err != nil {
			log.Printf("Warning: failed to create file watcher: %v", err)
		} else {
			watcher.Subscribe(FileWatcherFunc(handler.onExternalChange))
			watcher.Subscribe(wsHub)
		}
	}

	wrapped := Logging(Cors(mux))

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      wrapped,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		watcher: watcher,
		wsHub:   wsHub,
	}
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			log.Printf("Warning: failed to start file watcher: %v", err)
		}
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.watcher != nil {
		s.watcher.Stop()
	}

	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// onExternalChange brings memory back in line with files edited outside the
// server. Our own atomic saves also land here; reloading them is harmless.
func (h *Handler) onExternalChange(change FileChange) {
	if change.Type == FileChangeDeleted {
		return
	}

	switch change.Kind {
	case FileChangeKindPalettes:
		if err := h.palettes.Reload(); err != nil {
			log.Printf("Warning: failed to reload palettes: %v", err)
		}
	case FileChangeKindSettings:
		if err := h.settings.Sync(); err != nil {
			log.Printf("Warning: failed to reload settings: %v", err)
			return
		}
		h.palettes.SetPolicy(h.settings.NamePolicy())
	}
}
