//go:build linux

package hotkey

import (
	"golang.design/x/hotkey"

	"github.com/promptgen/promptgen-tray/internal/shortcut"
)

// X11: Alt is Mod1, Super is Mod4.
var modMap = map[shortcut.Modifier]hotkey.Modifier{
	shortcut.ModCtrl:  hotkey.ModCtrl,
	shortcut.ModShift: hotkey.ModShift,
	shortcut.ModAlt:   hotkey.Mod1,
	shortcut.ModSuper: hotkey.Mod4,
}
