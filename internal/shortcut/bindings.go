package shortcut

import "fmt"

// Action is one of the two behaviours a shortcut can trigger.
type Action int

const (
	ToggleOverlay Action = iota
	PasteAssetInject
)

// Actions lists every action in registration order.
var Actions = []Action{ToggleOverlay, PasteAssetInject}

func (a Action) String() string {
	switch a {
	case ToggleOverlay:
		return "toggle_overlay"
	case PasteAssetInject:
		return "paste_asset"
	default:
		return "unknown"
	}
}

// Default bindings used on first run and whenever the settings file is unusable.
const (
	DefaultToggleOverlay = "Ctrl+Shift+O"
	DefaultPasteAsset    = "Ctrl+Shift+V"
)

// Bindings is the pair of shortcut texts, one per action. It is always
// replaced as a whole.
type Bindings struct {
	ToggleOverlay string `json:"toggle_overlay"`
	PasteAsset    string `json:"paste_asset"`
}

// DefaultBindings returns the compiled-in pair.
func DefaultBindings() Bindings {
	return Bindings{
		ToggleOverlay: DefaultToggleOverlay,
		PasteAsset:    DefaultPasteAsset,
	}
}

// For returns the shortcut text bound to a.
func (b Bindings) For(a Action) string {
	switch a {
	case ToggleOverlay:
		return b.ToggleOverlay
	case PasteAssetInject:
		return b.PasteAsset
	default:
		return ""
	}
}

// FieldError ties a parse failure to the action whose field held the text.
type FieldError struct {
	Action Action
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Action, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Validate parses both fields and returns the pair in canonical form. The
// two actions must not share a combination.
func (b Bindings) Validate() (Bindings, error) {
	var out Bindings
	combos := make(map[Action]Combo, len(Actions))
	for _, a := range Actions {
		c, err := Parse(b.For(a))
		if err != nil {
			return Bindings{}, &FieldError{Action: a, Err: err}
		}
		combos[a] = c
	}
	if combos[ToggleOverlay] == combos[PasteAssetInject] {
		return Bindings{}, &FieldError{
			Action: PasteAssetInject,
			Err:    fmt.Errorf("%q is already bound to %s", b.PasteAsset, ToggleOverlay),
		}
	}
	out.ToggleOverlay = combos[ToggleOverlay].String()
	out.PasteAsset = combos[PasteAssetInject].String()
	return out, nil
}

// String renders the pair for logs.
func (b Bindings) String() string {
	return fmt.Sprintf("%s=%s %s=%s", ToggleOverlay, b.ToggleOverlay, PasteAssetInject, b.PasteAsset)
}
