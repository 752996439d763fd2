package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/docket/internal/clock"
	"github.com/five82/docket/internal/config"
	"github.com/five82/docket/internal/kv"
	"github.com/five82/docket/internal/state"
	"github.com/five82/docket/internal/ui"
)

// Options configure the docket application. Empty fields fall back to the
// config file.
type Options struct {
	ConfigPath string
	Backend    string
	DataDir    string
}

// Run boots the docket TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) (err error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg, err = cfg.WithOverrides(opts.Backend, opts.DataDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	slots, err := OpenSlots(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := slots.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close %s store: %w", cfg.Backend, closeErr))
		}
	}()

	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	fileHandler, closeLog, err := openFileLogHandler(cfg.LogPath(), level)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	tuiHandler := ui.NewTUILogHandler(slog.LevelWarn)
	logger := slog.New(fanoutHandler{tuiHandler, fileHandler})
	logger.Info("docket starting", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	store, err := state.Open(state.Options{
		Slots:      slots,
		Clock:      clock.Real(),
		Logger:     logger,
		UndoWindow: cfg.UndoWindow,
	})
	if err != nil {
		return fmt.Errorf("open task store: %w", err)
	}
	defer store.Close()

	program := ui.NewProgram(ui.Options{
		Store:     store,
		ThemeName: cfg.Theme,
		LogPath:   cfg.LogPath(),
	}, tea.WithContext(ctx))
	tuiHandler.SetProgram(program)

	fwdCtx, stopForwarder := context.WithCancel(ctx)
	defer stopForwarder()
	StartForwarder(fwdCtx, store, program)

	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		// Interrupted by signal; treat as a clean exit.
		err = nil
	}
	logger.Info("docket stopped")
	return err
}

// OpenSlots opens the slot store the config selects.
func OpenSlots(cfg config.Config) (kv.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := kv.OpenSQLite(cfg.DatabasePath())
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	default:
		store, err := kv.OpenDir(cfg.SlotDir())
		if err != nil {
			return nil, fmt.Errorf("open slot dir: %w", err)
		}
		return store, nil
	}
}
