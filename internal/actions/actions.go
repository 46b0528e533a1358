// Package actions implements what the two global shortcuts do: toggle the
// overlay, and paste the clipboard text into the overlay's asset field.
package actions

import (
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/promptgen/promptgen-tray/internal/clipboard"
)

// AssetField is the overlay form field the clipboard text is written to.
const AssetField = "asset"

var (
	// ErrBusy is reported when the paste queue is full.
	ErrBusy = errors.New("paste queue full")
	// ErrClosed is reported for tasks submitted after Close.
	ErrClosed = errors.New("actions closed")
)

// Overlay is the part of the overlay window the actions drive.
type Overlay interface {
	Toggle()
	Show()
	SetField(fieldID, value string)
}

// Result is the outcome of one paste task.
type Result struct {
	ID    string
	Value string // trimmed clipboard text; empty if nothing was injected
	Err   error
}

type task struct {
	id     string
	result chan Result
}

// Runner owns the paste worker. Clipboard reads can block, so they run on
// the worker rather than on the hotkey thread.
type Runner struct {
	overlay   Overlay
	clipboard clipboard.Reader

	queue     chan task
	mu        sync.Mutex
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
}

// New starts a runner with a queue of the given depth.
func New(overlay Overlay, cb clipboard.Reader, depth int) *Runner {
	if depth < 1 {
		depth = 1
	}
	r := &Runner{
		overlay:   overlay,
		clipboard: cb,
		queue:     make(chan task, depth),
		done:      make(chan struct{}),
	}
	go r.work()
	return r
}

// ToggleOverlay shows a hidden overlay or hides a visible one.
func (r *Runner) ToggleOverlay() {
	r.overlay.Toggle()
}

// PasteAsset queues a paste task and returns immediately. The channel
// receives exactly one Result.
func (r *Runner) PasteAsset() <-chan Result {
	t := task{id: uuid.NewString(), result: make(chan Result, 1)}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		t.result <- Result{ID: t.id, Err: ErrClosed}
		return t.result
	}
	select {
	case r.queue <- t:
	default:
		log.Printf("[actions] paste %s dropped: %v", t.id, ErrBusy)
		t.result <- Result{ID: t.id, Err: ErrBusy}
	}
	return t.result
}

// Close stops the worker after the queued tasks finish.
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.queue)
		r.mu.Unlock()
		<-r.done
	})
}

func (r *Runner) work() {
	defer close(r.done)
	for t := range r.queue {
		t.result <- r.paste(t.id)
	}
}

func (r *Runner) paste(id string) Result {
	text, err := r.clipboard.ReadText()
	if err != nil {
		log.Printf("[actions] paste %s: %v", id, err)
		return Result{ID: id, Err: err}
	}

	value := strings.TrimSpace(text)
	r.overlay.Show()
	if value == "" {
		return Result{ID: id}
	}
	r.overlay.SetField(AssetField, value)
	log.Printf("[actions] paste %s: %d bytes into %s", id, len(value), AssetField)
	return Result{ID: id, Value: value}
}

// Drain logs the result of a paste started by a hotkey or menu item.
func Drain(results <-chan Result) {
	go func() {
		if res := <-results; res.Err != nil {
			log.Printf("[actions] paste %s failed: %v", res.ID, res.Err)
		}
	}()
}
