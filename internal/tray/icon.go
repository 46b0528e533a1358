package tray

import (
	_ "embed"
	"runtime"
)

var (
	//go:embed icon.png
	iconPNG []byte
	//go:embed icon.ico
	iconICO []byte
	//go:embed icon_warn.png
	iconWarnPNG []byte
	//go:embed icon_warn.ico
	iconWarnICO []byte
)

// Windows wants ICO data, the other platforms PNG.
var (
	IconNormal  = pick(iconICO, iconPNG)
	IconWarning = pick(iconWarnICO, iconWarnPNG)
)

func pick(ico, png []byte) []byte {
	if runtime.GOOS == "windows" {
		return ico
	}
	return png
}
