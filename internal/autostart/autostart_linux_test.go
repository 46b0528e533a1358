//go:build linux

package autostart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnableDisable(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if IsEnabled() {
		t.Fatal("enabled before Enable")
	}
	if err := Enable(); err != nil {
		t.Fatal(err)
	}
	if !(Login{}).IsEnabled() {
		t.Fatal("not enabled after Enable")
	}

	data, err := os.ReadFile(filepath.Join(dir, "autostart", desktopFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Name=Prompt Generator") || !strings.Contains(string(data), "Exec=") {
		t.Errorf("desktop entry:\n%s", data)
	}

	if err := Disable(); err != nil {
		t.Fatal(err)
	}
	if IsEnabled() {
		t.Error("still enabled after Disable")
	}
	if err := Disable(); err != nil {
		t.Errorf("second Disable: %v", err)
	}
}

func TestQuoteExec(t *testing.T) {
	tests := map[string]string{
		"/usr/bin/promptgen":        "/usr/bin/promptgen",
		"/opt/prompt gen/promptgen": `"/opt/prompt gen/promptgen"`,
		`/opt/a"b/promptgen`:        `"/opt/a\"b/promptgen"`,
	}
	for in, want := range tests {
		if got := quoteExec(in); got != want {
			t.Errorf("quoteExec(%q) = %q, want %q", in, got, want)
		}
	}
}
