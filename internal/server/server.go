// Package server provides the local HTTP server for the settings page and
// the overlay page.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/promptgen/promptgen-tray/internal/shortcut"
	"github.com/promptgen/promptgen-tray/internal/web"
)

// Shortcuts is the shortcut workflow the server exposes.
type Shortcuts interface {
	Get() shortcut.Bindings
	Update(shortcut.Bindings) error
}

// Overlay is the overlay hub: it accepts the page's websocket and reports
// its state.
type Overlay interface {
	http.Handler
	Attached() bool
	Visible() bool
}

// Server serves the settings UI and the overlay on localhost.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	shortcuts  Shortcuts
	overlay    Overlay
	version    string

	// AutoStart is consulted by /status and /autostart; nil disables both.
	AutoStart AutoStart
}

// AutoStart toggles start-on-login.
type AutoStart interface {
	IsEnabled() bool
	Enable() error
	Disable() error
}

// New creates a settings server.
func New(shortcuts Shortcuts, overlay Overlay, version string) *Server {
	return &Server{
		shortcuts: shortcuts,
		overlay:   overlay,
		version:   version,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()

	staticFS, err := fs.Sub(web.StaticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("static fs: %w", err)
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Pages
	mux.HandleFunc("/", s.handlePage("index.html"))
	mux.HandleFunc("/overlay", s.handlePage("overlay.html"))

	// API endpoints
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/shortcuts", guardPost(s.handleShortcuts))
	mux.HandleFunc("/shortcuts/capture", guardPost(s.handleCapture))
	mux.HandleFunc("/autostart", guardPost(s.handleAutoStart))
	mux.Handle("/ws", s.overlay)

	return mux, nil
}

// Start begins serving on addr ("127.0.0.1:0" picks a random port).
// Returns the base URL.
func (s *Server) Start(addr string) (string, error) {
	handler, err := s.Handler()
	if err != nil {
		return "", err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen: %w", err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:     handler,
		ReadTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[server] error: %v", err)
		}
	}()

	url := s.URL()
	log.Printf("[server] settings available at %s", url)
	return url, nil
}

// Stop shuts down the HTTP server.
func (s *Server) Stop() {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// URL returns the server's URL, or empty string if not started.
func (s *Server) URL() string {
	if s.listener == nil {
		return ""
	}
	return fmt.Sprintf("http://%s", s.listener.Addr().String())
}

// OverlayURL returns the overlay page URL, or empty string if not started.
func (s *Server) OverlayURL() string {
	if s.listener == nil {
		return ""
	}
	return s.URL() + "/overlay"
}
