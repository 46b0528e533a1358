// Package web embeds the settings and overlay pages.
package web

import "embed"

// StaticFiles holds static/index.html (shortcut settings), static/overlay.html
// and their shared stylesheet.
//
//go:embed static
var StaticFiles embed.FS
