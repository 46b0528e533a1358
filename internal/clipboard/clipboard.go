// Package clipboard provides read access to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Reader reads text from a clipboard.
type Reader interface {
	ReadText() (string, error)
}

// System implements Reader using github.com/atotto/clipboard.
type System struct{}

// NewSystem constructs the system clipboard reader.
func NewSystem() *System {
	return &System{}
}

// ReadText returns the clipboard's text content.
func (s *System) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("clipboard not supported on this system")
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

var _ Reader = (*System)(nil)
