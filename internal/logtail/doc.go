// Package logtail reads the end of docket's log file for the in-app log view.
//
// Read keeps a ring buffer of the last N lines so large files never sit in
// memory whole. Parse turns a line written by slog's JSON handler into an
// Entry with the well-known keys (time, level, msg, component) split out and
// every other attribute kept in key order. Non-JSON lines survive as raw
// messages so a hand-edited or truncated file still renders.
package logtail
