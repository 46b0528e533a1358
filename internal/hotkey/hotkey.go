// Package hotkey installs system-wide hotkeys through golang.design/x/hotkey.
// It is the OS side of shortcut.Backend.
package hotkey

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"golang.design/x/hotkey"

	"github.com/promptgen/promptgen-tray/internal/shortcut"
)

// repeatWindow is how soon after a keyup a keydown counts as X11 auto-repeat.
const repeatWindow = 50 * time.Millisecond

type registration struct {
	combo  shortcut.Combo
	hk     *hotkey.Hotkey
	cancel context.CancelFunc
	done   chan struct{}
}

// Backend keeps every hotkey it installed so RemoveAll can tear them down.
type Backend struct {
	mu   sync.Mutex
	regs []*registration
}

// NewBackend creates an empty backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Install registers c globally and calls onPress on each key press.
func (b *Backend) Install(c shortcut.Combo, onPress func()) error {
	mods, key, err := convert(c)
	if err != nil {
		return err
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register %s: %w", c, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	reg := &registration{combo: c, hk: hk, cancel: cancel, done: make(chan struct{})}

	b.mu.Lock()
	b.regs = append(b.regs, reg)
	b.mu.Unlock()

	go listen(ctx, reg, onPress)

	log.Printf("[hotkey] registered: %s", c)
	return nil
}

// listen forwards key presses to onPress. Releases are dropped, and on Linux
// a press arriving right after a release is treated as auto-repeat.
func listen(ctx context.Context, reg *registration, onPress func()) {
	defer close(reg.done)

	isLinux := runtime.GOOS == "linux"
	var lastUp time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-reg.hk.Keydown():
			if !ok {
				return
			}
			if isLinux && !lastUp.IsZero() && time.Since(lastUp) < repeatWindow {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			onPress()
		case _, ok := <-reg.hk.Keyup():
			if !ok {
				return
			}
			lastUp = time.Now()
		}
	}
}

// RemoveAll unregisters every installed hotkey. Errors are logged.
func (b *Backend) RemoveAll() {
	b.mu.Lock()
	regs := b.regs
	b.regs = nil
	b.mu.Unlock()

	for _, reg := range regs {
		reg.cancel()
		if err := reg.hk.Unregister(); err != nil {
			log.Printf("[hotkey] unregister %s: %v", reg.combo, err)
		}
		<-reg.done
	}
	if len(regs) > 0 {
		log.Printf("[hotkey] unregistered %d hotkey(s)", len(regs))
	}
}

var _ shortcut.Backend = (*Backend)(nil)
