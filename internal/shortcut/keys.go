package shortcut

import (
	"fmt"
	"strings"
)

// keyNames maps lower-cased key tokens to their canonical names. Only keys
// that golang.design/x/hotkey can register on every platform are listed.
var keyNames = func() map[string]string {
	m := map[string]string{
		"space":      "Space",
		"enter":      "Enter",
		"return":     "Enter",
		"escape":     "Escape",
		"esc":        "Escape",
		"delete":     "Delete",
		"backspace":  "Delete",
		"tab":        "Tab",
		"up":         "Up",
		"down":       "Down",
		"left":       "Left",
		"right":      "Right",
		"arrowup":    "Up",
		"arrowdown":  "Down",
		"arrowleft":  "Left",
		"arrowright": "Right",
	}
	for c := 'a'; c <= 'z'; c++ {
		m[string(c)] = strings.ToUpper(string(c))
	}
	for c := '0'; c <= '9'; c++ {
		m[string(c)] = string(c)
	}
	for i := 1; i <= 20; i++ {
		m[fmt.Sprintf("f%d", i)] = fmt.Sprintf("F%d", i)
	}
	return m
}()

// FromKeyEvent converts a browser KeyboardEvent (modifier names plus
// event.code) into canonical shortcut text. e.g. ["ctrl","shift"], "KeyO"
// gives "Ctrl+Shift+O". At least one modifier is required.
func FromKeyEvent(mods []string, code string) (string, error) {
	if len(mods) == 0 {
		return "", fmt.Errorf("at least one modifier required")
	}

	var c Combo
	for _, name := range mods {
		m, ok := modifierNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return "", fmt.Errorf("unknown modifier: %q (available: ctrl, alt, shift, super)", name)
		}
		c.Mods |= m
	}

	key, ok := keyFromCode(code)
	if !ok {
		return "", fmt.Errorf("unsupported key code: %q", code)
	}
	c.Key = key
	return c.String(), nil
}

// keyFromCode maps event.code values: "KeyR" → "R", "Digit5" → "5",
// "F5" → "F5", "ArrowUp" → "Up".
func keyFromCode(code string) (string, bool) {
	switch {
	case strings.HasPrefix(code, "Key") && len(code) == 4:
		k, ok := keyNames[strings.ToLower(code[3:])]
		return k, ok
	case strings.HasPrefix(code, "Digit") && len(code) == 6:
		k, ok := keyNames[code[5:]]
		return k, ok
	case strings.HasPrefix(code, "Numpad"):
		return "", false
	}
	k, ok := keyNames[strings.ToLower(code)]
	return k, ok
}
