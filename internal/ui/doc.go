// Package ui is the Bubble Tea front end for docket.
//
// Model renders snapshots from state.Store and turns key presses into store
// operations. It never holds task data of its own beyond the last snapshot,
// so the store stays the single source of truth.
//
// Two views share one frame (header, command bar, content box, footer):
//
//   - Tasks: the projected list with its filter, search and sort applied
//   - Logs: a tail of the JSON log file, colorized by level
//
// Warnings logged anywhere in the process reach the footer through
// TUILogHandler, which forwards records to the running program. Changes made
// outside a key press, such as an undo buffer expiring, arrive as SnapshotMsg.
package ui
