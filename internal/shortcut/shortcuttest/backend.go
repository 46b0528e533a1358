// Package shortcuttest provides an in-memory shortcut.Backend for tests.
package shortcuttest

import (
	"fmt"
	"sync"

	"github.com/promptgen/promptgen-tray/internal/shortcut"
)

// Backend records installed hotkeys and lets tests simulate presses.
type Backend struct {
	mu        sync.Mutex
	installed map[shortcut.Combo]func()
	fail      map[shortcut.Combo]error
	removals  int
}

// NewBackend returns an empty fake backend.
func NewBackend() *Backend {
	return &Backend{
		installed: make(map[shortcut.Combo]func()),
		fail:      make(map[shortcut.Combo]error),
	}
}

// FailOn makes Install of text return err.
func (b *Backend) FailOn(text string, err error) {
	c, perr := shortcut.Parse(text)
	if perr != nil {
		panic(perr)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[c] = err
}

// Install implements shortcut.Backend. Installing a combo twice fails, as
// the OS refuses a second grab of the same keys.
func (b *Backend) Install(c shortcut.Combo, onPress func()) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail[c]; err != nil {
		return err
	}
	if _, ok := b.installed[c]; ok {
		return fmt.Errorf("%s already registered", c)
	}
	b.installed[c] = onPress
	return nil
}

// RemoveAll implements shortcut.Backend.
func (b *Backend) RemoveAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.installed = make(map[shortcut.Combo]func())
	b.removals++
}

// Press simulates the user pressing text. It reports whether a callback ran.
func (b *Backend) Press(text string) bool {
	c, err := shortcut.Parse(text)
	if err != nil {
		return false
	}
	b.mu.Lock()
	fn := b.installed[c]
	b.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Installed returns the number of live hotkeys.
func (b *Backend) Installed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.installed)
}

// Removals returns how many times RemoveAll ran.
func (b *Backend) Removals() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removals
}
