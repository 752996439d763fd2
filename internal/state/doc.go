// Package state holds docket's task list store.
//
// # Overview
//
// Store owns the canonical task collection and the derived state around it:
// filter, search text, sort mode, edit target, drag target, the one-slot
// undo buffer and the theme flag. The UI reads immutable Snapshots and calls
// Store methods in response to key presses.
//
//	key press → Store method → persist slot → Snapshot → render
//
// # Canonical order vs view order
//
// The collection keeps one canonical order, the one written to the todos
// slot. What the user sees is Project(tasks, View): filter, then
// case-insensitive substring search, then a stable sort. Reorders happen on
// the visible list; Splice maps them back so the reordered visible tasks come
// first and every hidden task follows in its original relative order.
//
// # Undo
//
// Delete moves the removed task into a single undo slot and arms an expiry
// timer on the injected clock. Each arm bumps a generation counter and the
// callback carries the generation it was armed with, so a timer that fires
// after a newer Delete or an UndoDelete finds a different generation and
// does nothing.
//
// # Concurrency Model
//
// Every method takes the store mutex. Expiry callbacks run on the clock's
// goroutine, and Changes() delivers a coalesced signal so the UI can redraw
// when state moves without a key press.
//
// # Failures
//
// Operations never return errors. Unknown ids and blank input are no-ops.
// Slot write failures are logged at warn level and the in-memory state stays
// authoritative.
package state
