// Package settings persists the shortcut bindings to settings.json and
// holds the live copy shared by the request handlers and the hotkey callbacks.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/promptgen/promptgen-tray/internal/shortcut"
)

// ErrEmpty is returned by Read for a zero-length settings file.
var ErrEmpty = errors.New("settings file is empty")

// Store reads and writes the bindings file.
type Store struct {
	path string
}

// NewStore returns a store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

// Load returns the persisted bindings. Any failure (missing, unreadable,
// malformed or invalid file) yields the default pair; the whole pair is
// replaced, fields are never merged.
func (s *Store) Load() shortcut.Bindings {
	b, err := s.Read()
	if err != nil {
		return s.fallback(err)
	}
	return b
}

// fallback is the degrade-to-defaults path of Load.
func (s *Store) fallback(err error) shortcut.Bindings {
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("[settings] %s not found, using defaults", s.path)
	} else {
		log.Printf("[settings] %v, using defaults", err)
	}
	return shortcut.DefaultBindings()
}

// Read is the strict variant of Load: it returns an error instead of the
// defaults when the file cannot be used.
func (s *Store) Read() (shortcut.Bindings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return shortcut.Bindings{}, fmt.Errorf("read settings: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return shortcut.Bindings{}, ErrEmpty
	}

	var b shortcut.Bindings
	if err := json.Unmarshal(data, &b); err != nil {
		return shortcut.Bindings{}, fmt.Errorf("parse settings: %w", err)
	}
	if _, err := b.Validate(); err != nil {
		return shortcut.Bindings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return b, nil
}

// Save writes b to disk atomically (write temp, rename).
func (s *Store) Save(b shortcut.Bindings) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename settings: %w", err)
	}
	return nil
}
