package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/promptgen/promptgen-tray/internal/settings"
	"github.com/promptgen/promptgen-tray/internal/shortcut"
	"github.com/promptgen/promptgen-tray/internal/shortcut/shortcuttest"
)

type harness struct {
	svc     *Service
	store   *settings.Store
	backend *shortcuttest.Backend
	toggles atomic.Int32
	pastes  atomic.Int32
}

func newHarness(t *testing.T, path string) *harness {
	t.Helper()
	h := &harness{
		store:   settings.NewStore(path),
		backend: shortcuttest.NewBackend(),
	}
	reg := shortcut.NewRegistrar(h.backend, map[shortcut.Action]func(){
		shortcut.ToggleOverlay:    func() { h.toggles.Add(1) },
		shortcut.PasteAssetInject: func() { h.pastes.Add(1) },
	})
	h.svc = NewService(h.store, settings.NewCell(shortcut.DefaultBindings()), reg)
	return h
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Fatal(err)
	}
	return string(data)
}

func TestStartUsesDefaults(t *testing.T) {
	h := newHarness(t, filepath.Join(t.TempDir(), "settings.json"))
	rep := h.svc.Start()
	if !rep.OK() {
		t.Fatalf("report: %s", rep)
	}
	if got := h.svc.Get(); got != shortcut.DefaultBindings() {
		t.Errorf("Get = %+v", got)
	}
	if !h.backend.Press("Ctrl+Shift+O") || !h.backend.Press("Ctrl+Shift+V") {
		t.Error("default hotkeys not live")
	}
}

func TestStartUsesPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	want := shortcut.Bindings{ToggleOverlay: "Alt+F1", PasteAsset: "Alt+F2"}
	if err := settings.NewStore(path).Save(want); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, path)
	h.svc.Start()
	if got := h.svc.Get(); got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
	if h.backend.Press("Ctrl+Shift+O") {
		t.Error("default toggle registered despite persisted bindings")
	}
}

func TestUpdateRebindsToggle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	h := newHarness(t, path)
	h.svc.Start()

	err := h.svc.Update(shortcut.Bindings{ToggleOverlay: "Ctrl+Alt+O", PasteAsset: "Ctrl+Shift+V"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := shortcut.Bindings{ToggleOverlay: "Ctrl+Alt+O", PasteAsset: "Ctrl+Shift+V"}
	if got := h.svc.Get(); got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
	if got := settings.NewStore(path).Load(); got != want {
		t.Errorf("persisted = %+v, want %+v", got, want)
	}

	if !h.backend.Press("Ctrl+Alt+O") {
		t.Error("new toggle binding not live")
	}
	if h.backend.Press("Ctrl+Shift+O") {
		t.Error("old toggle binding still live")
	}
	if h.toggles.Load() != 1 {
		t.Errorf("toggles = %d, want 1", h.toggles.Load())
	}
}

func TestUpdateRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	h := newHarness(t, path)
	h.svc.Start()
	before := readFile(t, path)

	err := h.svc.Update(shortcut.Bindings{ToggleOverlay: "NotAKey", PasteAsset: "Ctrl+Shift+V"})
	if err == nil {
		t.Fatal("Update accepted NotAKey")
	}
	if !strings.Contains(err.Error(), "NotAKey") {
		t.Errorf("error %q does not mention NotAKey", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "toggle_overlay" {
		t.Errorf("err = %v, want ValidationError(toggle_overlay)", err)
	}

	if got := h.svc.Get(); got != shortcut.DefaultBindings() {
		t.Errorf("Get = %+v, want defaults", got)
	}
	if after := readFile(t, path); after != before {
		t.Errorf("settings file changed: %q -> %q", before, after)
	}
	if !h.backend.Press("Ctrl+Shift+O") {
		t.Error("live hotkeys disturbed by rejected update")
	}
}

func TestUpdateOneValidOneInvalidIsAllOrNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	h := newHarness(t, path)
	h.svc.Start()
	if err := h.svc.Update(shortcut.Bindings{ToggleOverlay: "Alt+1", PasteAsset: "Alt+2"}); err != nil {
		t.Fatal(err)
	}
	before := readFile(t, path)

	err := h.svc.Update(shortcut.Bindings{ToggleOverlay: "Alt+3", PasteAsset: "Alt+"})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "paste_asset" {
		t.Fatalf("err = %v, want ValidationError(paste_asset)", err)
	}
	if got := h.svc.Get(); got.ToggleOverlay != "Alt+1" || got.PasteAsset != "Alt+2" {
		t.Errorf("Get = %+v, want unchanged", got)
	}
	if after := readFile(t, path); after != before {
		t.Errorf("settings file changed")
	}
}

func TestUpdateCanonicalises(t *testing.T) {
	h := newHarness(t, filepath.Join(t.TempDir(), "settings.json"))
	h.svc.Start()
	if err := h.svc.Update(shortcut.Bindings{ToggleOverlay: "alt+ctrl+o", PasteAsset: "shift+CTRL+v"}); err != nil {
		t.Fatal(err)
	}
	want := shortcut.Bindings{ToggleOverlay: "Ctrl+Alt+O", PasteAsset: "Ctrl+Shift+V"}
	if got := h.svc.Get(); got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestUpdatePersistFailureLeavesState(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, filepath.Join(blocker, "settings.json"))
	h.svc.Start()

	err := h.svc.Update(shortcut.Bindings{ToggleOverlay: "Ctrl+Alt+O", PasteAsset: "Ctrl+Alt+V"})
	var pe *PersistError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PersistError", err)
	}
	if got := h.svc.Get(); got != shortcut.DefaultBindings() {
		t.Errorf("Get = %+v, want defaults", got)
	}
	if h.backend.Press("Ctrl+Alt+O") {
		t.Error("hotkey registered despite failed save")
	}
}

func TestUpdateSucceedsWhenRegistrationFails(t *testing.T) {
	h := newHarness(t, filepath.Join(t.TempDir(), "settings.json"))
	h.svc.Start()
	h.backend.FailOn("Ctrl+Alt+V", errors.New("grabbed by another app"))

	var gotReport shortcut.Report
	h.svc.OnChange = func(_ shortcut.Bindings, rep shortcut.Report) { gotReport = rep }

	want := shortcut.Bindings{ToggleOverlay: "Ctrl+Alt+O", PasteAsset: "Ctrl+Alt+V"}
	if err := h.svc.Update(want); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := h.svc.Get(); got != want {
		t.Errorf("Get = %+v", got)
	}
	failed := gotReport.Failed()
	if len(failed) != 1 || failed[0].Action != shortcut.PasteAssetInject {
		t.Errorf("report failures = %+v, want paste_asset only", failed)
	}
	if !h.backend.Press("Ctrl+Alt+O") {
		t.Error("toggle not registered")
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	h := newHarness(t, path)
	h.svc.Start()
	removals := h.backend.Removals()

	// Unchanged file: no re-registration.
	if err := h.store.Save(shortcut.DefaultBindings()); err != nil {
		t.Fatal(err)
	}
	if _, changed := h.svc.Reload(); changed {
		t.Error("identical bindings reported as changed")
	}
	if h.backend.Removals() != removals {
		t.Error("reload of identical bindings re-registered")
	}

	// Broken file: keep current.
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, changed := h.svc.Reload(); changed {
		t.Error("broken file reported as changed")
	}
	if got := h.svc.Get(); got != shortcut.DefaultBindings() {
		t.Errorf("Get after broken reload = %+v", got)
	}

	// Valid edit: applied.
	want := shortcut.Bindings{ToggleOverlay: "Super+O", PasteAsset: "Super+V"}
	if err := h.store.Save(want); err != nil {
		t.Fatal(err)
	}
	rep, changed := h.svc.Reload()
	if !changed || !rep.OK() {
		t.Errorf("Reload = %v, %v", rep, changed)
	}
	if got := h.svc.Get(); got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
	if !h.backend.Press("Super+O") || h.backend.Press("Ctrl+Shift+O") {
		t.Error("hotkeys not swapped on reload")
	}
}

func TestConcurrentUpdatesConverge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	h := newHarness(t, path)
	h.svc.Start()

	pairs := []shortcut.Bindings{
		{ToggleOverlay: "Alt+1", PasteAsset: "Alt+2"},
		{ToggleOverlay: "Alt+3", PasteAsset: "Alt+4"},
		{ToggleOverlay: "Alt+5", PasteAsset: "Alt+6"},
	}
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(b shortcut.Bindings) {
			defer wg.Done()
			if err := h.svc.Update(b); err != nil {
				t.Errorf("Update: %v", err)
			}
		}(pairs[i%len(pairs)])
		go h.backend.Press("Alt+1")
	}
	wg.Wait()

	live := h.svc.Get()
	if disk := settings.NewStore(path).Load(); disk != live {
		t.Errorf("disk %+v != live %+v", disk, live)
	}
	if h.backend.Installed() != 2 {
		t.Errorf("installed = %d, want 2", h.backend.Installed())
	}
}

func TestReloadDoesNotUndoConcurrentUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	h := newHarness(t, path)
	h.svc.Start()

	pairs := []shortcut.Bindings{
		{ToggleOverlay: "Alt+1", PasteAsset: "Alt+2"},
		{ToggleOverlay: "Alt+3", PasteAsset: "Alt+4"},
	}
	for i := 0; i < 50; i++ {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.svc.Reload()
		}()
		go func(b shortcut.Bindings) {
			defer wg.Done()
			if err := h.svc.Update(b); err != nil {
				t.Errorf("Update: %v", err)
			}
		}(pairs[i%len(pairs)])
		wg.Wait()

		disk, err := h.store.Read()
		if err != nil {
			t.Fatal(err)
		}
		if live := h.svc.Get(); live != disk {
			t.Fatalf("round %d: live %+v, disk %+v", i, live, disk)
		}
	}
}
