//go:build windows

package hotkey

import (
	"golang.design/x/hotkey"

	"github.com/promptgen/promptgen-tray/internal/shortcut"
)

var modMap = map[shortcut.Modifier]hotkey.Modifier{
	shortcut.ModCtrl:  hotkey.ModCtrl,
	shortcut.ModShift: hotkey.ModShift,
	shortcut.ModAlt:   hotkey.ModAlt,
	shortcut.ModSuper: hotkey.ModWin,
}
