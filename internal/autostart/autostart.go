// Package autostart registers the app to start on login. Each platform has
// its own implementation file providing IsEnabled, Enable and Disable.
package autostart

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "Prompt Generator"

// executable returns the absolute, symlink-resolved path of the running binary.
func executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("get executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}

// removeFile deletes path; a missing file is not an error.
func removeFile(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Login exposes the platform functions as a value for the settings server.
type Login struct{}

// IsEnabled reports whether the app starts on login.
func (Login) IsEnabled() bool { return IsEnabled() }

// Enable makes the app start on login.
func (Login) Enable() error { return Enable() }

// Disable stops the app from starting on login.
func (Login) Disable() error { return Disable() }
