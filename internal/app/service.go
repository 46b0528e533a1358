// Package app runs the shortcut update workflow: validate, persist, commit,
// re-register.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/promptgen/promptgen-tray/internal/settings"
	"github.com/promptgen/promptgen-tray/internal/shortcut"
)

// ValidationError rejects an update whose bindings do not parse.
type ValidationError struct {
	Field string // "toggle_overlay" or "paste_asset"
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PersistError rejects an update that could not be written to disk.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("save settings: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Service ties the settings store, the live cell and the registrar together.
type Service struct {
	// mu serialises whole workflows so the file and the cell converge on the
	// last committed pair. The hotkey callbacks never take it.
	mu        sync.Mutex
	store     *settings.Store
	cell      *settings.Cell
	registrar *shortcut.Registrar

	// OnChange, if set, runs after a new pair is committed and registered.
	OnChange func(shortcut.Bindings, shortcut.Report)
}

// NewService creates a service. cell is shared with whoever else reads the
// live bindings.
func NewService(store *settings.Store, cell *settings.Cell, registrar *shortcut.Registrar) *Service {
	return &Service{store: store, cell: cell, registrar: registrar}
}

// Start loads the persisted bindings (or defaults), commits them and
// registers the hotkeys.
func (s *Service) Start() shortcut.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.store.Load()
	s.cell.Set(b)
	rep := s.registrar.Replace(b)
	log.Printf("[app] shortcuts: %s", rep)
	return rep
}

// Get returns the live bindings.
func (s *Service) Get() shortcut.Bindings {
	return s.cell.Get()
}

// Update validates, persists and commits b, then re-registers the hotkeys.
// A validation or write failure leaves both the file and the live state
// unchanged. Registration failures are logged and do not fail the update.
func (s *Service) Update(b shortcut.Bindings) error {
	valid, err := b.Validate()
	if err != nil {
		var fe *shortcut.FieldError
		if errors.As(err, &fe) {
			return &ValidationError{Field: fe.Action.String(), Err: fe.Err}
		}
		return &ValidationError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(valid); err != nil {
		log.Printf("[app] %v", err)
		return &PersistError{Err: err}
	}
	s.commitLocked(valid)
	return nil
}

// Reload applies the settings file after it was edited outside the app.
// An unusable file is ignored and the current bindings stay live. changed
// is false when nothing was applied.
func (s *Service) Reload() (rep shortcut.Report, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Read under the lock so a concurrent Update cannot be overwritten by
	// the older file contents.
	b, err := s.store.Read()
	if err != nil {
		log.Printf("[app] ignoring settings change: %v", err)
		return shortcut.Report{}, false
	}
	if b == s.cell.Get() {
		return shortcut.Report{}, false
	}
	log.Printf("[app] settings changed on disk")
	return s.commitLocked(b), true
}

// Shutdown removes every hotkey.
func (s *Service) Shutdown() {
	s.registrar.UnregisterAll()
}

func (s *Service) commitLocked(b shortcut.Bindings) shortcut.Report {
	s.cell.Set(b)
	rep := s.registrar.Replace(s.cell.Get())
	if rep.OK() {
		log.Printf("[app] shortcuts updated: %s", b)
	} else {
		log.Printf("[app] shortcuts updated with errors: %s", rep)
	}
	if s.OnChange != nil {
		s.OnChange(b, rep)
	}
	return rep
}
