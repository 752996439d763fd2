package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 80

	// LayoutAgeWidth is the minimum width to show the created-at column.
	LayoutAgeWidth = 60
)

// Log display limits.
const (
	// LogTailLines is how many lines of the log file the log view reads.
	LogTailLines = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is the refresh interval for the undo countdown and
	// the followed log view.
	DefaultUIInterval = time.Second

	// flashFadeDelay is how long a log record stays in the footer.
	flashFadeDelay = 5 * time.Second
)
