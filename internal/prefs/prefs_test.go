package prefs

import (
	"errors"
	"testing"

	"github.com/five82/docket/internal/kv"
)

func TestLoad_MissingSlotUsesLightTheme(t *testing.T) {
	p := Load(kv.NewMemory())
	if p.Dark {
		t.Fatal("Dark = true, want false when slot is missing")
	}
}

func TestLoad_ReadsLiteralTrue(t *testing.T) {
	store := kv.NewMemory()
	if err := store.Set(kv.SlotDarkMode, "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if p := Load(store); !p.Dark {
		t.Fatal("Dark = false, want true")
	}
}

func TestLoad_UnrecognizedValueFallsBackToLight(t *testing.T) {
	for _, raw := range []string{"false", "TRUE", "yes", "1", ""} {
		store := kv.NewMemory()
		if err := store.Set(kv.SlotDarkMode, raw); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if p := Load(store); p.Dark {
			t.Fatalf("Load(%q).Dark = true, want false", raw)
		}
	}
}

func TestLoad_NilStore(t *testing.T) {
	if p := Load(nil); p.Dark {
		t.Fatal("Load(nil).Dark = true, want false")
	}
}

func TestSave_WritesLiteral(t *testing.T) {
	store := kv.NewMemory()
	if err := Save(store, Prefs{Dark: true}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	raw, ok, err := store.Get(kv.SlotDarkMode)
	if err != nil || !ok || raw != "true" {
		t.Fatalf("slot = %q, %v, %v; want true", raw, ok, err)
	}

	if err := Save(store, Prefs{}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if raw, _, _ := store.Get(kv.SlotDarkMode); raw != "false" {
		t.Fatalf("slot = %q, want false", raw)
	}
	if loaded := Load(store); loaded.Dark {
		t.Fatal("round trip Dark = true, want false")
	}
}

type failingStore struct{ kv.Store }

func (failingStore) Set(string, string) error { return errors.New("disk full") }

func TestSave_PropagatesWriteError(t *testing.T) {
	err := Save(failingStore{kv.NewMemory()}, Prefs{Dark: true})
	if err == nil {
		t.Fatal("Save returned nil error, want write failure")
	}
}

func TestSave_NilStore(t *testing.T) {
	if err := Save(nil, Prefs{}); err == nil {
		t.Fatal("Save(nil) returned nil error")
	}
}
