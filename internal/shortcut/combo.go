// Package shortcut parses shortcut text such as "Ctrl+Shift+O" and keeps the
// two global shortcuts of the app registered against a hotkey backend.
package shortcut

import (
	"fmt"
	"strings"
)

// Modifier is a bit set of modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModSuper
)

// modifierOrder is the canonical rendering order.
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModSuper, "Super"},
}

var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"shift":   ModShift,
	"super":   ModSuper,
	"win":     ModSuper,
	"cmd":     ModSuper,
	"command": ModSuper,
	"meta":    ModSuper,
}

// Has reports whether all bits of o are set in m.
func (m Modifier) Has(o Modifier) bool {
	return m&o == o
}

// Combo is a parsed key combination: a modifier set plus one terminal key.
// Key holds the canonical key name ("O", "F5", "Space").
type Combo struct {
	Mods Modifier
	Key  string
}

// String renders the canonical form, e.g. "Ctrl+Shift+O".
func (c Combo) String() string {
	var b strings.Builder
	for _, m := range modifierOrder {
		if c.Mods.Has(m.mod) {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(c.Key)
	return b.String()
}

// ParseError reports shortcut text that does not describe a valid combination.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid shortcut %q: %s", e.Text, e.Reason)
}

// Parse converts text like "Ctrl+Shift+O" into a Combo. Tokens are
// case-insensitive; every token but the last must be a distinct modifier and
// the last must be a key the hotkey layer can register.
func Parse(text string) (Combo, error) {
	if strings.TrimSpace(text) == "" {
		return Combo{}, &ParseError{Text: text, Reason: "empty"}
	}

	parts := strings.Split(text, "+")
	var c Combo
	for i, part := range parts {
		tok := strings.ToLower(strings.TrimSpace(part))
		if tok == "" {
			return Combo{}, &ParseError{Text: text, Reason: "empty token"}
		}

		last := i == len(parts)-1
		if mod, ok := modifierNames[tok]; ok {
			if last {
				return Combo{}, &ParseError{Text: text, Reason: "missing key after modifiers"}
			}
			if c.Mods.Has(mod) {
				return Combo{}, &ParseError{Text: text, Reason: fmt.Sprintf("duplicate modifier %q", strings.TrimSpace(part))}
			}
			c.Mods |= mod
			continue
		}

		key, ok := keyNames[tok]
		if !ok {
			return Combo{}, &ParseError{Text: text, Reason: fmt.Sprintf("unknown key %q", strings.TrimSpace(part))}
		}
		if !last {
			return Combo{}, &ParseError{Text: text, Reason: fmt.Sprintf("key %q must be last", strings.TrimSpace(part))}
		}
		c.Key = key
	}
	return c, nil
}

// Canonical parses text and returns its canonical rendering.
func Canonical(text string) (string, error) {
	c, err := Parse(text)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}
