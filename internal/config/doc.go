// Package config loads docket's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/docket/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are empty, use defaults for those fields
//
// # Format
//
//	backend     = "file"                   # or "sqlite"
//	data_dir    = "~/.local/share/docket"
//	undo_window = "6s"
//	log_level   = "info"
//	theme       = "Nightfox"
//
// All fields are optional. Tilde expansion is performed on data_dir.
// Derived paths (slot directory, database, log file) all live under data_dir.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors, an unknown backend, and a non-positive
// or unparseable undo_window. A missing file is not an error.
package config
