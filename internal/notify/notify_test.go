package notify

import (
	"errors"
	"strings"
	"testing"

	"github.com/promptgen/promptgen-tray/internal/shortcut"
)

func TestRegistrationFailures(t *testing.T) {
	var calls int
	var got string
	send := func(title, message string) error {
		calls++
		got = message
		return nil
	}

	RegistrationFailures(send, shortcut.Report{Outcomes: []shortcut.Outcome{
		{Action: shortcut.ToggleOverlay, Text: "Ctrl+Shift+O"},
		{Action: shortcut.PasteAssetInject, Text: "Ctrl+Shift+V"},
	}})
	if calls != 0 {
		t.Fatalf("notified %d times for a clean report", calls)
	}

	RegistrationFailures(send, shortcut.Report{Outcomes: []shortcut.Outcome{
		{Action: shortcut.ToggleOverlay, Text: "Ctrl+Shift+O"},
		{Action: shortcut.PasteAssetInject, Text: "Ctrl+Shift+V", Err: errors.New("taken")},
	}})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if !strings.Contains(got, "Ctrl+Shift+V") || strings.Contains(got, "Ctrl+Shift+O") {
		t.Errorf("message = %q", got)
	}
}
