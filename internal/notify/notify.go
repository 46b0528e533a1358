// Package notify shows desktop notifications.
package notify

import (
	"fmt"
	"log"
	"strings"

	"github.com/gen2brain/beeep"

	"github.com/promptgen/promptgen-tray/internal/shortcut"
)

func init() {
	beeep.AppName = "Prompt Generator"
}

// Sender delivers a notification.
type Sender func(title, message string) error

// Desktop sends through the OS notification service.
func Desktop(title, message string) error {
	return beeep.Notify(title, message, "")
}

// RegistrationFailures tells the user which shortcuts are not active. It
// does nothing when every action registered.
func RegistrationFailures(send Sender, rep shortcut.Report) {
	failed := rep.Failed()
	if len(failed) == 0 {
		return
	}
	if err := send("Shortcut unavailable", registrationMessage(failed)); err != nil {
		log.Printf("[notify] %v", err)
	}
}

func registrationMessage(failed []shortcut.Outcome) string {
	lines := make([]string, 0, len(failed)+1)
	for _, o := range failed {
		lines = append(lines, fmt.Sprintf("%s (%s) could not be registered.", o.Text, label(o.Action)))
	}
	lines = append(lines, "Change it in Shortcut Settings.")
	return strings.Join(lines, "\n")
}

func label(a shortcut.Action) string {
	switch a {
	case shortcut.ToggleOverlay:
		return "toggle overlay"
	case shortcut.PasteAssetInject:
		return "clipboard to asset"
	default:
		return a.String()
	}
}
