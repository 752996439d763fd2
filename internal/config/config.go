package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config captures docket's runtime settings.
type Config struct {
	Backend    string
	DataDir    string
	UndoWindow time.Duration
	LogLevel   string
	// Theme names the dark palette; empty means the UI default.
	Theme string
}

const (
	defaultConfigPath = "~/.config/docket/config.toml"
	defaultDataDir    = "~/.local/share/docket"
	defaultBackend    = BackendFile
	defaultLogLevel   = "info"

	// DefaultUndoWindow is how long a deleted task stays recoverable.
	DefaultUndoWindow = 6 * time.Second
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the docket config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Backend:    defaultBackend,
		DataDir:    mustExpand(defaultDataDir),
		UndoWindow: DefaultUndoWindow,
		LogLevel:   defaultLogLevel,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Backend    string `toml:"backend"`
		DataDir    string `toml:"data_dir"`
		UndoWindow string `toml:"undo_window"`
		LogLevel   string `toml:"log_level"`
		Theme      string `toml:"theme"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if backend := strings.ToLower(strings.TrimSpace(raw.Backend)); backend != "" {
		cfg.Backend = backend
	}
	if err := validateBackend(cfg.Backend); err != nil {
		return Config{}, err
	}

	if dir := strings.TrimSpace(raw.DataDir); dir != "" {
		cfg.DataDir = mustExpand(dir)
	}

	if window := strings.TrimSpace(raw.UndoWindow); window != "" {
		d, err := time.ParseDuration(window)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: undo_window: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("parse config: undo_window must be positive, got %s", window)
		}
		cfg.UndoWindow = d
	}

	if level := strings.ToLower(strings.TrimSpace(raw.LogLevel)); level != "" {
		cfg.LogLevel = level
	}
	cfg.Theme = strings.TrimSpace(raw.Theme)

	return cfg, nil
}

// WithOverrides returns a copy of c with non-empty command-line values applied.
func (c Config) WithOverrides(backend, dataDir string) (Config, error) {
	if b := strings.ToLower(strings.TrimSpace(backend)); b != "" {
		if err := validateBackend(b); err != nil {
			return Config{}, err
		}
		c.Backend = b
	}
	if dir := strings.TrimSpace(dataDir); dir != "" {
		expanded, err := expandPath(dir)
		if err != nil {
			return Config{}, fmt.Errorf("data dir: %w", err)
		}
		c.DataDir = expanded
	}
	return c, nil
}

// SlotDir returns the directory used by the file backend.
func (c Config) SlotDir() string {
	return filepath.Join(c.dataDir(), "slots")
}

// DatabasePath returns the SQLite database used by the sqlite backend.
func (c Config) DatabasePath() string {
	return filepath.Join(c.dataDir(), "docket.db")
}

// LogPath returns the path of docket's own log file.
func (c Config) LogPath() string {
	return filepath.Join(c.dataDir(), "docket.log")
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

func validateBackend(backend string) error {
	switch backend {
	case BackendFile, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", backend, BackendFile, BackendSQLite)
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
