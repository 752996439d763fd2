// Package prefs handles docket user preference persistence.
// The theme preference lives in the darkMode slot as the literal text
// "true" or "false".
package prefs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/docket/internal/kv"
)

// Prefs holds user preferences for docket.
type Prefs struct {
	Dark bool
}

// Load reads preferences from the slot store. A missing slot, a read
// error, or an unrecognized value all fall back to the light theme.
func Load(store kv.Store) Prefs {
	if store == nil {
		return Prefs{}
	}
	raw, ok, err := store.Get(kv.SlotDarkMode)
	if err != nil || !ok {
		return Prefs{} // Graceful degradation
	}
	return Prefs{Dark: parseBool(raw)}
}

// Save writes preferences to the slot store.
func Save(store kv.Store, p Prefs) error {
	if store == nil {
		return fmt.Errorf("prefs store is nil")
	}
	if err := store.Set(kv.SlotDarkMode, FormatDark(p.Dark)); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// FormatDark returns the persisted form of the theme flag.
func FormatDark(dark bool) string {
	return strconv.FormatBool(dark)
}

// Only the exact literal "true" selects the dark theme.
func parseBool(raw string) bool {
	return strings.TrimSpace(raw) == "true"
}
