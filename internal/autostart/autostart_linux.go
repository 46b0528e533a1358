//go:build linux

package autostart

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const desktopFileName = "promptgen.desktop"

var desktopEntry = template.Must(template.New("desktop").Parse(`[Desktop Entry]
Type=Application
Name={{ .Name }}
Comment=Overlay and global shortcuts for the prompt generator
Exec={{ .Exec }}
Icon=promptgen
Categories=Utility;
Terminal=false
X-GNOME-Autostart-enabled=true
`))

// desktopFilePath follows the XDG autostart spec ($XDG_CONFIG_HOME/autostart).
func desktopFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "autostart", desktopFileName), nil
}

// quoteExec escapes a path for the Exec key of a desktop entry.
func quoteExec(path string) string {
	if !strings.ContainsAny(path, " \t\"'\\$`") {
		return path
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(path) + `"`
}

// IsEnabled reports whether an autostart entry exists.
func IsEnabled() bool {
	p, err := desktopFilePath()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Enable writes an autostart entry pointing at the running executable.
func Enable() error {
	exe, err := executable()
	if err != nil {
		return err
	}
	p, err := desktopFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}

	var buf bytes.Buffer
	if err := desktopEntry.Execute(&buf, struct{ Name, Exec string }{appName, quoteExec(exe)}); err != nil {
		return fmt.Errorf("render desktop entry: %w", err)
	}
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write desktop file: %w", err)
	}
	return nil
}

// Disable removes the autostart entry.
func Disable() error {
	p, err := desktopFilePath()
	if err != nil {
		return err
	}
	return removeFile(p)
}
