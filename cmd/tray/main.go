// Prompt Generator: system tray companion for the prompt overlay.
//
// Two global shortcuts, both configurable from the settings page:
//   - Toggle overlay (default: Ctrl+Shift+O): show or hide the overlay page
//   - Paste asset (default: Ctrl+Shift+V): put the clipboard text into the
//     overlay's ASSET field
//
// Shortcuts live in settings.json under the user config directory and are
// re-applied when that file changes on disk.
package main

import (
	"context"
	"log"
	"os"
	"os/exec"
	"runtime"

	"github.com/promptgen/promptgen-tray/internal/actions"
	"github.com/promptgen/promptgen-tray/internal/app"
	"github.com/promptgen/promptgen-tray/internal/autostart"
	"github.com/promptgen/promptgen-tray/internal/clipboard"
	"github.com/promptgen/promptgen-tray/internal/config"
	"github.com/promptgen/promptgen-tray/internal/hotkey"
	"github.com/promptgen/promptgen-tray/internal/notify"
	"github.com/promptgen/promptgen-tray/internal/overlay"
	"github.com/promptgen/promptgen-tray/internal/server"
	"github.com/promptgen/promptgen-tray/internal/settings"
	"github.com/promptgen/promptgen-tray/internal/shortcut"
	"github.com/promptgen/promptgen-tray/internal/tray"
)

var version = "dev"

const (
	pasteQueueDepth = 4
	templatesPath   = "/static/templates.html"
)

func main() {
	opts, err := config.Load()
	if err != nil {
		log.Fatalf("[promptgen] config: %v", err)
	}
	if opts.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Overlay page, opened in the browser the first time it is needed
	hub := overlay.NewHub(openBrowser)
	runner := actions.New(hub, clipboard.NewSystem(), pasteQueueDepth)

	pasteAsset := func() {
		actions.Drain(runner.PasteAsset())
	}

	// Hotkeys: the callbacks only hand work off, they never block
	registrar := shortcut.NewRegistrar(hotkey.NewBackend(), map[shortcut.Action]func(){
		shortcut.ToggleOverlay:    runner.ToggleOverlay,
		shortcut.PasteAssetInject: pasteAsset,
	})

	store := settings.NewStore(opts.SettingsPath())
	cell := settings.NewCell(shortcut.DefaultBindings())
	svc := app.NewService(store, cell, registrar)
	svc.OnChange = func(b shortcut.Bindings, rep shortcut.Report) {
		tray.SetBindings(b, rep.Failed())
	}

	// Settings HTTP server
	srv := server.New(svc, hub, version)
	srv.AutoStart = autostart.Login{}

	// System tray: blocks on main thread
	tray.Run(tray.RunOpts{
		Version:          version,
		AutoStartEnabled: autostart.IsEnabled(),
		Bindings:         cell.Get(),

		// onReady: start background services after tray is initialized
		OnReady: func() {
			if _, err := srv.Start(opts.Addr); err != nil {
				log.Printf("[promptgen] settings server: %v", err)
			} else {
				hub.SetURL(srv.OverlayURL())
			}

			rep := svc.Start()
			tray.SetBindings(svc.Get(), rep.Failed())
			if !rep.OK() {
				log.Printf("[promptgen] you can change the shortcuts via Shortcut Settings")
			}
			notify.RegistrationFailures(notify.Desktop, rep)

			if opts.Watch {
				go watchSettings(ctx, opts, svc)
			}

			log.Printf("[promptgen] ready (version %s)", version)
		},

		OnToggleOverlay: runner.ToggleOverlay,
		OnPasteAsset:    pasteAsset,

		OnTemplates: func() {
			hub.Navigate(templatesPath)
		},

		// onSettings: open browser to settings page
		OnSettings: func() {
			url := srv.URL()
			if url == "" {
				log.Println("[promptgen] settings server not running")
				return
			}
			openBrowser(url)
		},

		// onAutoStart: toggle auto-start on login
		OnAutoStart: func(enabled bool) {
			if enabled {
				if err := autostart.Enable(); err != nil {
					log.Printf("[promptgen] enable autostart: %v", err)
					return
				}
			} else {
				if err := autostart.Disable(); err != nil {
					log.Printf("[promptgen] disable autostart: %v", err)
					return
				}
			}
			log.Printf("[promptgen] auto-start: %v", enabled)
		},

		// onQuit: clean shutdown
		OnQuit: func() {
			cancel()
			svc.Shutdown()
			runner.Close()
			hub.Close()
			srv.Stop()
		},
	})
}

// watchSettings re-applies settings.json whenever it changes on disk and
// tells the user when a reloaded shortcut could not be registered.
func watchSettings(ctx context.Context, opts config.Options, svc *app.Service) {
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		log.Printf("[promptgen] settings watcher: %v", err)
		return
	}

	err := settings.Watch(ctx, opts.SettingsPath(), func() {
		if rep, changed := svc.Reload(); changed {
			notify.RegistrationFailures(notify.Desktop, rep)
		}
	})
	if err != nil {
		log.Printf("[promptgen] settings watcher: %v", err)
	}
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default: // linux, bsd
		cmd = "xdg-open"
		args = []string{url}
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		log.Printf("[promptgen] open browser: %v", err)
	}
}
