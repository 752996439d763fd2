package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Backend != BackendFile {
		t.Fatalf("Backend = %q, want %q", cfg.Backend, BackendFile)
	}
	if cfg.UndoWindow != DefaultUndoWindow {
		t.Fatalf("UndoWindow = %v, want %v", cfg.UndoWindow, DefaultUndoWindow)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}

	wantDataDir, err := expandPath(defaultDataDir)
	if err != nil {
		t.Fatalf("expandPath(defaultDataDir) returned error: %v", err)
	}
	if cfg.DataDir != wantDataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, wantDataDir)
	}
	if cfg.SlotDir() != filepath.Join(wantDataDir, "slots") {
		t.Fatalf("SlotDir = %q, want %q", cfg.SlotDir(), filepath.Join(wantDataDir, "slots"))
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
backend = "  SQLite  "
data_dir = "  ~/.docket  "
undo_window = "10s"
log_level = " DEBUG "
theme = " Kanagawa "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Backend != BackendSQLite {
		t.Fatalf("Backend = %q, want %q", cfg.Backend, BackendSQLite)
	}
	if !strings.HasPrefix(cfg.DataDir, home) {
		t.Fatalf("DataDir = %q, want it under HOME %q", cfg.DataDir, home)
	}
	if cfg.UndoWindow != 10*time.Second {
		t.Fatalf("UndoWindow = %v, want 10s", cfg.UndoWindow)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want Kanagawa", cfg.Theme)
	}
	if cfg.DatabasePath() != filepath.Join(cfg.DataDir, "docket.db") {
		t.Fatalf("DatabasePath = %q, want %q", cfg.DatabasePath(), filepath.Join(cfg.DataDir, "docket.db"))
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
backend = "   "
data_dir = ""
undo_window = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Backend != BackendFile {
		t.Fatalf("Backend = %q, want %q", cfg.Backend, BackendFile)
	}
	if cfg.UndoWindow != DefaultUndoWindow {
		t.Fatalf("UndoWindow = %v, want %v", cfg.UndoWindow, DefaultUndoWindow)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`backend = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"unknown backend":   `backend = "redis"`,
		"bad duration":      `undo_window = "soon"`,
		"negative duration": `undo_window = "-1s"`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("Load returned nil error for %s", body)
			}
		})
	}
}

func TestWithOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	base := Config{Backend: BackendFile, DataDir: "/var/lib/docket"}
	got, err := base.WithOverrides("sqlite", "~/elsewhere")
	if err != nil {
		t.Fatalf("WithOverrides returned error: %v", err)
	}
	if got.Backend != BackendSQLite {
		t.Fatalf("Backend = %q, want sqlite", got.Backend)
	}
	if got.DataDir != filepath.Join(home, "elsewhere") {
		t.Fatalf("DataDir = %q, want %q", got.DataDir, filepath.Join(home, "elsewhere"))
	}

	same, err := base.WithOverrides("", "  ")
	if err != nil {
		t.Fatalf("WithOverrides returned error: %v", err)
	}
	if same != base {
		t.Fatalf("empty overrides changed config: %#v", same)
	}

	if _, err := base.WithOverrides("bolt", ""); err == nil {
		t.Fatal("WithOverrides accepted unknown backend")
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenDataDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/docket.log")) {
		t.Fatalf("LogPath = %q, want it to end with /docket.log", got)
	}
}
