package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg delivers a slog record to the model for display in the
// footer. Only records at or above the handler's level are delivered.
type logRecordMsg struct {
	// Summary is the one-line message for the footer.
	Summary string

	// Level picks the footer style (warn vs error).
	Level slog.Level
}

// logRecordFadeMsg clears the footer message it was scheduled for. A newer
// message bumps the sequence, so older fades are ignored.
type logRecordFadeMsg struct {
	seq int
}

// Sender is the part of *tea.Program the handler needs.
type Sender interface {
	Send(msg tea.Msg)
}

// senderSlot is shared by a handler and everything derived from it.
type senderSlot struct {
	mu     sync.RWMutex
	sender Sender
}

// TUILogHandler is a slog.Handler that routes records into a running
// Bubble Tea program. Records below the level are dropped, as is anything
// logged before SetProgram.
//
// Handlers derived via WithAttrs/WithGroup share the program slot, so one
// SetProgram call reaches every derived handler.
type TUILogHandler struct {
	level  slog.Level
	slot   *senderSlot
	attrs  []slog.Attr
	groups []string
}

// NewTUILogHandler creates a handler that delivers records at or above level.
func NewTUILogHandler(level slog.Level) *TUILogHandler {
	return &TUILogHandler{
		level: level,
		slot:  &senderSlot{},
	}
}

// SetProgram sets the program that receives log messages. Safe to call from
// any goroutine.
func (handler *TUILogHandler) SetProgram(program Sender) {
	handler.slot.mu.Lock()
	handler.slot.sender = program
	handler.slot.mu.Unlock()
}

// Enabled reports whether the handler is interested in records at level.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle formats the record as "[component] message (key=value, ...)" and
// hands it to the program without waiting for delivery.
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	handler.slot.mu.RLock()
	sender := handler.slot.sender
	handler.slot.mu.RUnlock()
	if sender == nil {
		return nil
	}

	var component string
	var attrParts []string
	add := func(attr slog.Attr) {
		if attr.Key == "component" {
			component = attr.Value.String()
			return
		}
		attrParts = append(attrParts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	for _, attr := range handler.attrs {
		add(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		add(handler.qualify(attr))
		return true
	})

	summary := record.Message
	if component != "" {
		summary = "[" + component + "] " + summary
	}
	if len(attrParts) > 0 {
		summary += " (" + strings.Join(attrParts, ", ") + ")"
	}

	// Send blocks until the event loop takes the message, and records are
	// often logged from inside Update.
	go sender.Send(logRecordMsg{Summary: summary, Level: record.Level})
	return nil
}

// WithAttrs returns a new handler with attrs appended.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TUILogHandler{
		level:  handler.level,
		slot:   handler.slot,
		attrs:  append(sliceClone(handler.attrs), handler.qualifyAll(attrs)...),
		groups: sliceClone(handler.groups),
	}
}

// WithGroup returns a new handler with name appended to the group path.
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	return &TUILogHandler{
		level:  handler.level,
		slot:   handler.slot,
		attrs:  sliceClone(handler.attrs),
		groups: append(sliceClone(handler.groups), name),
	}
}

// qualify prefixes the key with the open groups. Attrs bound before a group
// was opened keep their bare keys.
func (handler *TUILogHandler) qualify(attr slog.Attr) slog.Attr {
	if len(handler.groups) == 0 {
		return attr
	}
	attr.Key = strings.Join(handler.groups, ".") + "." + attr.Key
	return attr
}

func (handler *TUILogHandler) qualifyAll(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		out[i] = handler.qualify(attr)
	}
	return out
}

// sliceClone returns a shallow copy so derived handlers never alias.
func sliceClone[T any](source []T) []T {
	if source == nil {
		return nil
	}
	result := make([]T, len(source))
	copy(result, source)
	return result
}

func levelOf(msg logRecordMsg) flashLevel {
	switch {
	case msg.Level >= slog.LevelError:
		return flashError
	case msg.Level >= slog.LevelWarn:
		return flashWarn
	default:
		return flashInfo
	}
}

func fadeFlashCmd(seq int) tea.Cmd {
	return tea.Tick(flashFadeDelay, func(time.Time) tea.Msg {
		return logRecordFadeMsg{seq: seq}
	})
}
