// Package app is the composition root for docket.
//
// Run loads the config, opens the slot store the config selects (a
// directory of files or a SQLite database), sets up logging and starts the
// Bubble Tea program. Logging fans out to two handlers: a JSON file the log
// view tails, and ui.TUILogHandler, which shows warnings in the footer.
//
// StartForwarder bridges state.Store change signals into the program as
// ui.SnapshotMsg values, so timer-driven changes reach the screen without a
// key press.
//
// Fatal errors (returned from Run): an unreadable or invalid config, a data
// directory or slot store that cannot be opened, and an unwritable log file.
// Slot read and write failures after startup are logged and the session
// continues in memory.
package app
