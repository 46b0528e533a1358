//go:build windows

package autostart

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const (
	runKeyPath   = `Software\Microsoft\Windows\CurrentVersion\Run`
	runValueName = "PromptGen"
)

func openRunKey(access uint32) (registry.Key, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, access)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", runKeyPath, err)
	}
	return k, nil
}

// IsEnabled reports whether the Run value exists.
func IsEnabled() bool {
	k, err := openRunKey(registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer k.Close()

	_, _, err = k.GetStringValue(runValueName)
	return err == nil
}

// Enable adds a Run value launching the running executable.
func Enable() error {
	exe, err := executable()
	if err != nil {
		return err
	}
	k, err := openRunKey(registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	// Quoted so paths under "Program Files" survive.
	if err := k.SetStringValue(runValueName, `"`+exe+`"`); err != nil {
		return fmt.Errorf("set %s: %w", runValueName, err)
	}
	return nil
}

// Disable deletes the Run value.
func Disable() error {
	k, err := openRunKey(registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	if err := k.DeleteValue(runValueName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", runValueName, err)
	}
	return nil
}
