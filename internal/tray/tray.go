// Package tray manages the system tray icon and menu.
package tray

import (
	"strings"
	"sync"

	"fyne.io/systray"

	"github.com/promptgen/promptgen-tray/internal/shortcut"
)

const tooltip = "Prompt Generator"

// RunOpts configures the system tray.
type RunOpts struct {
	Version          string            // app version string (e.g., "1.0.0")
	AutoStartEnabled bool              // initial state of "Start on Login"
	Bindings         shortcut.Bindings // shown in the menu until SetBindings is called
	OnReady          func()
	OnToggleOverlay  func()
	OnPasteAsset     func()
	OnTemplates      func()             // "Manage Templates..."
	OnSettings       func()             // "Shortcut Settings..."
	OnAutoStart      func(enabled bool) // returns after the change was attempted
	OnQuit           func()
}

var (
	mu          sync.Mutex
	toggleLabel *systray.MenuItem
	pasteLabel  *systray.MenuItem
)

// Run starts the system tray. It blocks on the main thread.
func Run(opts RunOpts) {
	systray.Run(func() {
		systray.SetIcon(IconNormal)
		systray.SetTitle("")
		systray.SetTooltip(tooltip)

		versionLabel := "Prompt Generator"
		if opts.Version != "" && opts.Version != "dev" {
			versionLabel += " v" + strings.TrimPrefix(opts.Version, "v")
		}
		mVersion := systray.AddMenuItem(versionLabel, "")
		mVersion.Disable()

		systray.AddSeparator()

		mToggle := systray.AddMenuItem("Toggle Overlay", "Show or hide the overlay")
		mPaste := systray.AddMenuItem("Clipboard → ASSET", "Paste the clipboard into the ASSET field")

		systray.AddSeparator()

		mTemplates := systray.AddMenuItem("Manage Templates...", "Open the template editor")
		mSettings := systray.AddMenuItem("Shortcut Settings...", "Change the global shortcuts")
		mAutoStart := systray.AddMenuItemCheckbox("Start on Login", "Launch automatically on login", opts.AutoStartEnabled)

		systray.AddSeparator()

		mu.Lock()
		toggleLabel = systray.AddMenuItem("", "")
		toggleLabel.Disable()
		pasteLabel = systray.AddMenuItem("", "")
		pasteLabel.Disable()
		mu.Unlock()
		SetBindings(opts.Bindings, nil)

		systray.AddSeparator()

		mQuit := systray.AddMenuItem("Quit", "Exit Prompt Generator")

		if opts.OnReady != nil {
			opts.OnReady()
		}

		go func() {
			for {
				select {
				case <-mToggle.ClickedCh:
					call(opts.OnToggleOverlay)
				case <-mPaste.ClickedCh:
					call(opts.OnPasteAsset)
				case <-mTemplates.ClickedCh:
					call(opts.OnTemplates)
				case <-mSettings.ClickedCh:
					call(opts.OnSettings)
				case <-mAutoStart.ClickedCh:
					enable := !mAutoStart.Checked()
					if enable {
						mAutoStart.Check()
					} else {
						mAutoStart.Uncheck()
					}
					if opts.OnAutoStart != nil {
						opts.OnAutoStart(enable)
					}
				case <-mQuit.ClickedCh:
					call(opts.OnQuit)
					systray.Quit()
					return
				}
			}
		}()
	}, func() {
		// cleanup on systray exit
	})
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

// SetBindings shows the live bindings in the menu. Actions listed in failed
// are marked inactive and the icon switches to the warning variant.
func SetBindings(b shortcut.Bindings, failed []shortcut.Outcome) {
	mu.Lock()
	defer mu.Unlock()
	if toggleLabel == nil {
		return
	}

	inactive := make(map[shortcut.Action]bool, len(failed))
	for _, o := range failed {
		inactive[o.Action] = true
	}

	toggleLabel.SetTitle(menuLabel("Toggle", b.ToggleOverlay, inactive[shortcut.ToggleOverlay]))
	pasteLabel.SetTitle(menuLabel("Paste", b.PasteAsset, inactive[shortcut.PasteAssetInject]))

	if len(inactive) > 0 {
		systray.SetIcon(IconWarning)
		systray.SetTooltip(tooltip + " (shortcut unavailable)")
	} else {
		systray.SetIcon(IconNormal)
		systray.SetTooltip(tooltip)
	}
}

func menuLabel(name, text string, inactive bool) string {
	s := name + ": " + text
	if inactive {
		s += " (inactive)"
	}
	return s
}

// Quit stops the system tray.
func Quit() {
	systray.Quit()
}
