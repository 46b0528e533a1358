package settings

import (
	"sync"

	"github.com/promptgen/promptgen-tray/internal/shortcut"
)

// Cell holds the live bindings. The lock covers only the copy in and out;
// callers do disk and hotkey work outside it.
type Cell struct {
	mu sync.Mutex
	b  shortcut.Bindings
}

// NewCell returns a cell holding b.
func NewCell(b shortcut.Bindings) *Cell {
	return &Cell{b: b}
}

// Get returns a copy of the current bindings.
func (c *Cell) Get() shortcut.Bindings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.b
}

// Set replaces the bindings.
func (c *Cell) Set(b shortcut.Bindings) {
	c.mu.Lock()
	c.b = b
	c.mu.Unlock()
}
