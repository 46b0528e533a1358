package server

import (
	"encoding/json"
	"io"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/promptgen/promptgen-tray/internal/shortcut"
	"github.com/promptgen/promptgen-tray/internal/web"
)

// handlePage serves one embedded HTML page.
func (s *Server) handlePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if name == "index.html" && r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		staticFS, _ := fs.Sub(web.StaticFiles, "static")
		f, err := staticFS.Open(name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.Copy(w, f)
	}
}

// statusResponse is the JSON response for GET /status.
type statusResponse struct {
	Version         string `json:"version"`
	ToggleOverlay   string `json:"toggle_overlay"`
	PasteAsset      string `json:"paste_asset"`
	OverlayAttached bool   `json:"overlay_attached"`
	OverlayVisible  bool   `json:"overlay_visible"`
	AutoStart       bool   `json:"auto_start"`
}

// handleStatus returns the version, live bindings and overlay state.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	b := s.shortcuts.Get()
	resp := statusResponse{
		Version:         s.version,
		ToggleOverlay:   b.ToggleOverlay,
		PasteAsset:      b.PasteAsset,
		OverlayAttached: s.overlay.Attached(),
		OverlayVisible:  s.overlay.Visible(),
	}
	if s.AutoStart != nil {
		resp.AutoStart = s.AutoStart.IsEnabled()
	}
	writeJSON(w, http.StatusOK, resp)
}

// shortcutsResponse is the JSON response for /shortcuts.
type shortcutsResponse struct {
	ToggleOverlay string `json:"toggle_overlay,omitempty"`
	PasteAsset    string `json:"paste_asset,omitempty"`
	Error         string `json:"error,omitempty"`
}

// handleShortcuts returns (GET) or replaces (POST) the bindings.
func (s *Server) handleShortcuts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		b := s.shortcuts.Get()
		writeJSON(w, http.StatusOK, shortcutsResponse{ToggleOverlay: b.ToggleOverlay, PasteAsset: b.PasteAsset})
	case http.MethodPost:
		s.updateShortcuts(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) updateShortcuts(w http.ResponseWriter, r *http.Request) {
	var req shortcut.Bindings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, shortcutsResponse{Error: "invalid JSON"})
		return
	}

	if err := s.shortcuts.Update(req); err != nil {
		log.Printf("[server] shortcut update rejected: %v", err)
		writeJSON(w, http.StatusUnprocessableEntity, shortcutsResponse{Error: err.Error()})
		return
	}

	b := s.shortcuts.Get()
	log.Printf("[server] shortcuts updated to: %s", b)
	writeJSON(w, http.StatusOK, shortcutsResponse{ToggleOverlay: b.ToggleOverlay, PasteAsset: b.PasteAsset})
}

// captureRequest is the JSON body for POST /shortcuts/capture.
type captureRequest struct {
	Modifiers []string `json:"modifiers"`
	Code      string   `json:"code"`
}

// captureResponse is the JSON response for POST /shortcuts/capture.
type captureResponse struct {
	Shortcut string `json:"shortcut,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleCapture converts a key event recorded by the settings page into
// shortcut text. Nothing is saved.
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, captureResponse{Error: "invalid JSON"})
		return
	}

	text, err := shortcut.FromKeyEvent(req.Modifiers, req.Code)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, captureResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, captureResponse{Shortcut: text})
}

// autoStartRequest is the JSON body for POST /autostart.
type autoStartRequest struct {
	Enabled bool `json:"enabled"`
}

// autoStartResponse is the JSON response for POST /autostart.
type autoStartResponse struct {
	AutoStart bool   `json:"auto_start"`
	Error     string `json:"error,omitempty"`
}

// handleAutoStart toggles the auto-start on login setting.
func (s *Server) handleAutoStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.AutoStart == nil {
		http.Error(w, "not available", http.StatusNotFound)
		return
	}

	var req autoStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, autoStartResponse{Error: "invalid JSON"})
		return
	}

	var err error
	if req.Enabled {
		err = s.AutoStart.Enable()
	} else {
		err = s.AutoStart.Disable()
	}
	if err != nil {
		log.Printf("[server] autostart: %v", err)
		writeJSON(w, http.StatusInternalServerError, autoStartResponse{
			AutoStart: s.AutoStart.IsEnabled(),
			Error:     "failed to change auto-start: " + err.Error(),
		})
		return
	}

	log.Printf("[server] auto-start: %v", req.Enabled)
	writeJSON(w, http.StatusOK, autoStartResponse{AutoStart: req.Enabled})
}

// errorResponse is the JSON body for requests rejected before their handler.
type errorResponse struct {
	Error string `json:"error"`
}

// guardPost rejects POSTs from other origins and POSTs whose body is not
// JSON. Browsers send such simple requests cross-origin without a preflight.
func guardPost(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if !sameOrigin(r) {
				log.Printf("[server] rejected %s from origin %q", r.URL.Path, r.Header.Get("Origin"))
				writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden origin"})
				return
			}
			mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mt != "application/json" {
				writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: "content type must be application/json"})
				return
			}
		}
		next(w, r)
	}
}

// sameOrigin accepts a missing Origin or one naming this server.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Scheme == "http" && strings.EqualFold(u.Host, r.Host)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
