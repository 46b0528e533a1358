package shortcut

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// Backend installs global hotkeys. onPress must be invoked on the pressed
// transition only; key repeats and releases are dropped by the backend.
type Backend interface {
	Install(c Combo, onPress func()) error
	RemoveAll()
}

// Outcome is the registration result for one action.
type Outcome struct {
	Action Action
	Text   string
	Err    error
}

// OK reports whether the action has a live hotkey.
func (o Outcome) OK() bool { return o.Err == nil }

// Report aggregates the per-action outcomes of one Register call.
type Report struct {
	Outcomes []Outcome
}

// Failed returns the outcomes that did not register.
func (r Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// OK reports whether every action registered.
func (r Report) OK() bool { return len(r.Failed()) == 0 }

// Outcome returns the result recorded for a.
func (r Report) Outcome(a Action) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Action == a {
			return o, true
		}
	}
	return Outcome{}, false
}

func (r Report) String() string {
	parts := make([]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.OK() {
			parts = append(parts, fmt.Sprintf("%s=%s ok", o.Action, o.Text))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s failed: %v", o.Action, o.Text, o.Err))
		}
	}
	return strings.Join(parts, ", ")
}

// Registrar owns the live registrations of the two actions.
type Registrar struct {
	mu       sync.Mutex
	backend  Backend
	handlers map[Action]func()
}

// NewRegistrar creates a registrar that calls handlers[a] when the combo
// bound to a is pressed.
func NewRegistrar(backend Backend, handlers map[Action]func()) *Registrar {
	hs := make(map[Action]func(), len(handlers))
	for a, fn := range handlers {
		hs[a] = fn
	}
	return &Registrar{backend: backend, handlers: hs}
}

// UnregisterAll removes every installed hotkey. Safe to call repeatedly.
func (r *Registrar) UnregisterAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.RemoveAll()
}

// Register installs one hotkey per action. A failing action is skipped and
// recorded in the report; the other action is still registered.
// Callers replacing live bindings must UnregisterAll first, or use Replace.
func (r *Registrar) Register(b Bindings) Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(b)
}

// Replace swaps the live hotkeys for b in one step.
func (r *Registrar) Replace(b Bindings) Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.RemoveAll()
	return r.registerLocked(b)
}

func (r *Registrar) registerLocked(b Bindings) Report {
	var rep Report
	for _, a := range Actions {
		o := Outcome{Action: a, Text: b.For(a)}
		o.Err = r.install(a, o.Text)
		if o.Err != nil {
			log.Printf("[shortcut] %s: %v", a, o.Err)
		} else {
			log.Printf("[shortcut] registered %s: %s", a, o.Text)
		}
		rep.Outcomes = append(rep.Outcomes, o)
	}
	return rep
}

func (r *Registrar) install(a Action, text string) error {
	c, err := Parse(text)
	if err != nil {
		return err
	}
	fn := r.handlers[a]
	if fn == nil {
		return fmt.Errorf("no handler for %s", a)
	}
	if err := r.backend.Install(c, fn); err != nil {
		return fmt.Errorf("register hotkey %s: %w", c, err)
	}
	return nil
}
