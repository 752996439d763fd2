package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/docket/internal/logtail"
)

// logState holds all log-view state.
type logState struct {
	entries []logtail.Entry
	follow  bool
	err     error
	loaded  bool
}

type logLinesMsg struct {
	lines []string
	err   error
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(m.width-4, 1), max(m.height-5, 1))
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport updates the log viewport with current content.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	// Box inner = content height - 2 borders
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(m.contentHeight()-2, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	m.logViewport.SetContent(m.renderLogContent())

	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// loadLogsCmd reads the tail of the log file off the event loop.
func (m Model) loadLogsCmd() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.loaded = true
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.entries = logtail.ParseAll(msg.lines)
	}
	m.updateLogViewport()
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	title := "Log"
	if m.logPath != "" {
		title = "Log · " + m.logPath
	}
	return m.renderTitledBox(title, m.logViewport.View(), m.width, m.contentHeight(), true)
}

// renderLogContent renders the colorized log lines.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	switch {
	case m.logState.err != nil:
		return bg.FillLine(bg.Render("Cannot read log: "+m.logState.err.Error(), styles.DangerText), width)
	case !m.logState.loaded:
		return bg.FillLine(bg.Render("Loading log…", styles.MutedText), width)
	case len(m.logState.entries) == 0:
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	compact := m.width < LayoutCompactWidth
	var b strings.Builder
	for i, entry := range m.logState.entries {
		if compact {
			// No gutter; one plain line per entry colored by level.
			line := truncate(formatLogEntry(entry), width)
			b.WriteString(bg.FillLine(bg.Render(line, m.getLevelStyle(logEntryParts(entry).level, styles)), width))
		} else {
			lineNum := bg.Render(fmt.Sprintf("%4d │ ", i+1), styles.FaintText)
			b.WriteString(bg.FillLine(lineNum+m.colorizeEntry(entry, styles, bg), width))
		}
		if i < len(m.logState.entries)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// colorizeEntry renders one entry with level and component colors.
func (m *Model) colorizeEntry(entry logtail.Entry, styles Styles, bg BgStyle) string {
	if entry.Level == "" && entry.Time.IsZero() {
		return bg.Render(entry.Message, styles.Text)
	}
	parts := logEntryParts(entry)

	out := bg.Render(parts.timestamp, styles.FaintText)
	if parts.level != "" {
		out += bg.Space() + bg.Render(parts.level, m.getLevelStyle(parts.level, styles).Bold(true))
	}
	if parts.component != "" {
		out += bg.Space() + bg.Render(parts.component, styles.AccentText)
	}
	if parts.message != "" {
		out += bg.Space() + bg.Render(parts.message, styles.Text)
	}
	if parts.attrs != "" {
		out += bg.Spaces(2) + bg.Render(parts.attrs, styles.MutedText)
	}
	return out
}

// getLevelStyle returns the style for a log level.
func (m *Model) getLevelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "ERROR":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.InfoText
	case "":
		return styles.Text
	default:
		return styles.SuccessText
	}
}

// handleLogsKey processes keyboard input for logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewTasks
		return m, nil

	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, m.loadLogsCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false

	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true

	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logState.follow = false

	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = false

	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.HalfPageDown()
		m.logState.follow = false

	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = false
	}

	return m, nil
}
