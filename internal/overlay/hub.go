// Package overlay drives the overlay page over a websocket. The page is the
// app's floating window: it is shown and hidden, never recreated.
package overlay

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeDeadline      = 5 * time.Second
	readDeadline       = 90 * time.Second
	pingInterval       = 30 * time.Second
	maxReadMessageSize = 4 * 1024
)

// Message types exchanged with the overlay page.
const (
	TypeShow       = "PG_SHOW"
	TypeHide       = "PG_HIDE"
	TypeSetField   = "PG_SET_FIELD"
	TypeNavigate   = "PG_NAVIGATE"
	TypeVisibility = "PG_VISIBILITY" // page -> hub
)

// Message is the JSON frame sent to and received from the page.
type Message struct {
	Type    string `json:"type"`
	FieldID string `json:"fieldId,omitempty"`
	Value   string `json:"value,omitempty"`
	Path    string `json:"path,omitempty"`
	Visible *bool  `json:"visible,omitempty"`
}

// openRetry is how long Show waits for the opened page to connect before it
// asks the opener again.
const openRetry = 10 * time.Second

// upgrader uses gorilla's default origin check: only pages served by this
// server, or clients sending no Origin, may attach.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
}

// Hub holds the single attached overlay page. A new connection replaces the
// old one so page reloads work.
//
// Lock ordering: writeMu -> mu.
type Hub struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	visible bool
	pending map[string]string // fieldId -> value, delivered on next attach
	url     string
	open    func(url string)
	opened  time.Time // last open request without an attached page

	// writeMu serialises writes; gorilla/websocket allows one writer.
	writeMu sync.Mutex
}

// NewHub creates a hub. open is called with the overlay URL when the overlay
// must be shown but no page is attached; it may be nil.
func NewHub(open func(url string)) *Hub {
	return &Hub{
		open:    open,
		pending: make(map[string]string),
	}
}

// SetURL records where the overlay page is served.
func (h *Hub) SetURL(url string) {
	h.mu.Lock()
	h.url = url
	h.mu.Unlock()
}

// Attached reports whether an overlay page is connected.
func (h *Hub) Attached() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn != nil
}

// Visible reports the overlay visibility last set by the hub or the page.
func (h *Hub) Visible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visible
}

// Toggle hides a visible overlay and shows (and focuses) a hidden one.
func (h *Hub) Toggle() {
	if h.Visible() {
		h.Hide()
	} else {
		h.Show()
	}
}

// Show makes the overlay visible and focused. Without an attached page the
// opener is asked to load one.
func (h *Hub) Show() {
	h.mu.Lock()
	h.visible = true
	attached := h.conn != nil
	url, open := h.url, h.open
	launch := !attached && open != nil && url != "" &&
		(h.opened.IsZero() || time.Since(h.opened) >= openRetry)
	if launch {
		h.opened = time.Now()
	}
	h.mu.Unlock()

	if !attached {
		if launch {
			log.Printf("[overlay] no page attached, opening %s", url)
			open(url)
		}
		return
	}
	h.send(Message{Type: TypeShow})
}

// Hide hides the overlay.
func (h *Hub) Hide() {
	h.mu.Lock()
	h.visible = false
	h.mu.Unlock()
	h.send(Message{Type: TypeHide})
}

// SetField fills a field of the overlay form. With no page attached the
// value is kept and delivered when one connects.
func (h *Hub) SetField(fieldID, value string) {
	h.mu.Lock()
	if h.conn == nil {
		h.pending[fieldID] = value
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()
	h.send(Message{Type: TypeSetField, FieldID: fieldID, Value: value})
}

// Navigate shows the overlay and points it at path.
func (h *Hub) Navigate(path string) {
	h.Show()
	h.send(Message{Type: TypeNavigate, Path: path})
}

// Close drops the attached page.
func (h *Hub) Close() {
	h.mu.Lock()
	conn := h.conn
	h.conn = nil
	h.mu.Unlock()
	if conn != nil {
		closeConn(conn)
	}
}

// ServeHTTP upgrades the request and attaches the page.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[overlay] upgrade: %v", err)
		return
	}
	conn.SetReadLimit(maxReadMessageSize)

	h.mu.Lock()
	old := h.conn
	h.conn = conn
	h.opened = time.Time{}
	visible := h.visible
	pending := h.pending
	h.pending = make(map[string]string)
	h.mu.Unlock()

	if old != nil {
		closeConn(old)
	}
	log.Printf("[overlay] page attached")

	if visible {
		h.send(Message{Type: TypeShow})
	} else {
		h.send(Message{Type: TypeHide})
	}
	for id, v := range pending {
		h.send(Message{Type: TypeSetField, FieldID: id, Value: v})
	}

	done := make(chan struct{})
	go h.pingLoop(conn, done)
	defer func() {
		close(done)
		h.clearIfCurrent(conn)
		closeConn(conn)
		log.Printf("[overlay] page detached")
	}()

	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[overlay] read: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		if msgType != websocket.TextMessage {
			continue
		}
		h.handleMessage(conn, data)
	}
}

func (h *Hub) handleMessage(conn *websocket.Conn, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("[overlay] invalid message: %v", err)
		return
	}
	switch msg.Type {
	case TypeVisibility:
		if msg.Visible == nil {
			return
		}
		h.mu.Lock()
		if h.conn == conn {
			h.visible = *msg.Visible
		}
		h.mu.Unlock()
	default:
		log.Printf("[overlay] unknown message type %q", msg.Type)
	}
}

// send writes msg to the attached page. A failed write detaches it.
func (h *Hub) send(msg Message) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	h.mu.Lock()
	conn := h.conn
	h.mu.Unlock()
	if conn == nil {
		return
	}

	if err := write(conn, msg); err != nil {
		log.Printf("[overlay] write %s: %v", msg.Type, err)
		h.clearIfCurrent(conn)
		closeConn(conn)
	}
}

func write(conn *websocket.Conn, msg Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	return conn.WriteJSON(msg)
}

func (h *Hub) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			h.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline))
			h.writeMu.Unlock()
			if err != nil {
				h.clearIfCurrent(conn)
				closeConn(conn)
				return
			}
		}
	}
}

func (h *Hub) clearIfCurrent(conn *websocket.Conn) {
	h.mu.Lock()
	if h.conn == conn {
		h.conn = nil
	}
	h.mu.Unlock()
}

func closeConn(conn *websocket.Conn) {
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	conn.Close()
}
