package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/docket/internal/state"
)

// renderHeader renders the status bar: logo, counts and the active view.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	counts := m.snapshot.Counts
	parts := []string{bg.Render("docket", styles.Logo)}

	if compact {
		parts = append(parts, bg.Render(fmt.Sprintf("%d/%d", counts.Active, counts.Total), styles.Text))
	} else {
		parts = append(parts,
			bg.Pair(fmt.Sprint(counts.Active), styles.AccentText, "active", styles.MutedText),
			bg.Pair(fmt.Sprint(counts.Completed), styles.SuccessText, "done", styles.MutedText),
			bg.Pair(fmt.Sprint(counts.Total), styles.Text, "total", styles.MutedText),
		)
	}

	view := m.snapshot.View
	parts = append(parts,
		bg.Pair("filter", styles.FaintText, filterLabel(view.Filter), styles.Text),
		bg.Pair("sort", styles.FaintText, sortLabel(view.SortBy), styles.Text),
	)
	if search := strings.TrimSpace(view.Search); search != "" {
		parts = append(parts, bg.Render("/"+truncate(search, 18), styles.AccentText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderCommandBar renders the command hints bar for the current mode.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.input == inputAdd:
		commands = []cmd{{"enter", "Add"}, {"esc", "Cancel"}}
	case m.input == inputEdit:
		commands = []cmd{{"enter", "Done"}, {"esc", "Done"}}
	case m.input == inputSearch:
		commands = []cmd{{"enter", "Keep"}, {"esc", "Clear"}}
	case m.snapshot.DraggingID != "":
		commands = []cmd{{"j/k", "Target"}, {"enter", "Drop"}, {"esc", "Cancel"}}
	case m.currentView == ViewLogs:
		followLabel := ternary(m.logState.follow, "Pause", "Follow")
		commands = []cmd{
			{"Space", followLabel},
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"L", "Tasks"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"a", "Add"},
			{"e", "Edit"},
			{"space", "Done"},
			{"d", "Delete"},
			{"p", "Priority"},
			{"m", "Move"},
			{"f", filterLabel(m.snapshot.View.Filter)},
			{"s", sortLabel(m.snapshot.View.SortBy)},
			{"/", "Search"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	mode := ternary(m.snapshot.Dark, m.theme.Name, "Light")
	segments = append(segments,
		bg.Render("t", styles.AccentText)+colon+bg.Render(mode, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderFooter renders the single line under the content: the active text
// field, a log flash, the undo banner, or a hint, in that order.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	line := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface)).Width(m.width)

	switch {
	case m.input != inputNone:
		label := map[inputMode]string{inputAdd: "add", inputEdit: "edit", inputSearch: "search"}[m.input]
		return line.Render(bg.Render(label, styles.AccentText) + bg.Space() + m.textInput.View())

	case m.flash.text != "":
		style := styles.InfoText
		switch m.flash.level {
		case flashWarn:
			style = styles.WarningText
		case flashError:
			style = styles.DangerText
		}
		return line.Render(bg.Render(truncate(m.flash.text, max(m.width-2, 1)), style))

	case m.snapshot.HasUndo:
		text := truncate(singleLine(m.snapshot.Undo.Text), 40)
		seconds := int(math.Ceil(m.snapshot.UndoRemaining.Seconds()))
		banner := bg.Render(fmt.Sprintf("Deleted %q", text), styles.Text) +
			bg.Render(" · ", styles.FaintText) +
			bg.Render("u", styles.AccentText) + bg.Space() + bg.Render("undo", styles.MutedText)
		if seconds > 0 {
			banner += bg.Space() + bg.Render(fmt.Sprintf("(%ds)", seconds), styles.FaintText)
		}
		return line.Render(banner)
	}

	return line.Render(bg.Render("? help", styles.FaintText))
}

func filterLabel(f state.Filter) string {
	switch f {
	case state.FilterActive:
		return "Active"
	case state.FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

func sortLabel(s state.SortMode) string {
	switch s {
	case state.SortPriority:
		return "Priority"
	case state.SortManual:
		return "Manual"
	default:
		return "Newest"
	}
}
