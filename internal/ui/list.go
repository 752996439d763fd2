package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/five82/docket/internal/task"
)

// contentHeight is the height of the main box: everything but the header,
// command bar and footer.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

// listHeight is the number of task rows that fit inside the box.
func (m Model) listHeight() int {
	return max(m.contentHeight()-2, 1)
}

// renderTasks renders the task list box.
func (m Model) renderTasks() string {
	styles := m.theme.Styles()
	height := m.contentHeight()
	innerWidth := max(m.width-2, 1)
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)

	var content string
	switch {
	case m.snapshot.Counts.Total == 0:
		content = bg.Render("No tasks yet. Press a to add one.", styles.MutedText)
	case len(m.snapshot.Visible) == 0:
		content = bg.Render("No tasks match the current filter or search.", styles.MutedText)
	default:
		content = m.renderTaskRows(innerWidth, bgColor)
	}

	return m.renderTitledBox(m.listTitle(), content, m.width, height, true)
}

func (m Model) listTitle() string {
	visible := len(m.snapshot.Visible)
	total := m.snapshot.Counts.Total
	if visible == total {
		return fmt.Sprintf("Tasks (%d)", total)
	}
	return fmt.Sprintf("Tasks (%d of %d)", visible, total)
}

// renderTaskRows renders the window of rows around the cursor.
func (m Model) renderTaskRows(width int, bgColor string) string {
	visible := m.snapshot.Visible
	cursor := m.selectedRow
	if m.snapshot.DraggingID != "" {
		cursor = m.dropRow
	}
	start, end := scrollWindow(len(visible), m.listHeight(), cursor)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		t := visible[i]
		rowBg := bgColor
		selected := i == cursor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatTaskRow(t, width, rowBg, selected)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			Render(content))
	}
	return strings.Join(lines, "\n")
}

// scrollWindow returns the [start, end) slice of rows to show so the cursor
// stays on screen, keeping it roughly centered once the list scrolls.
func scrollWindow(count, height, cursor int) (int, int) {
	if count <= height {
		return 0, count
	}
	start := max(cursor-height/2, 0)
	start = min(start, count-height)
	return start, start + height
}

// formatTaskRow formats one task.
// Format: "› [x] High  Task text                     3 minutes ago"
func (m Model) formatTaskRow(t task.Task, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	marker := " "
	switch {
	case t.ID == m.snapshot.DraggingID:
		marker = "⇅"
	case t.ID == m.snapshot.EditingID:
		marker = "✎"
	case selected:
		marker = "›"
	}
	check := ternary(t.Completed, "[x]", "[ ]")
	label := t.Priority.Label()
	if label == "" {
		label = "-"
	}
	prio := padRight(label, 6)

	age := ""
	if width >= LayoutAgeWidth && !t.CreatedAt.IsZero() {
		age = humanize.RelTime(t.CreatedAt, m.now(), "ago", "from now")
	}

	// marker, check, priority and their separating spaces
	fixed := ansi.StringWidth(marker) + 1 + len(check) + 1 + len(prio) + 1
	textWidth := max(width-fixed-ansi.StringWidth(age)-2, 4)
	text := padRight(truncate(singleLine(t.Text), textWidth), textWidth)

	var markerStyle, checkStyle, textStyle, ageStyle lipgloss.Style
	prioStyle := styles.PriorityStyle(t.Priority)
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		markerStyle, checkStyle, textStyle, ageStyle = selText, selText, selText, selText
		if t.Completed {
			textStyle = textStyle.Strikethrough(true)
		}
	} else {
		markerStyle = styles.AccentText
		checkStyle = ternaryStyle(t.Completed, styles.SuccessText, styles.MutedText)
		textStyle = ternaryStyle(t.Completed, styles.Done, styles.Text)
		ageStyle = styles.FaintText
	}

	row := bg.Render(marker, markerStyle) + bg.Space() +
		bg.Render(check, checkStyle) + bg.Space() +
		bg.Render(prio, prioStyle) + bg.Space() +
		bg.Render(text, textStyle)
	if age != "" {
		row += bg.Spaces(2) + bg.Render(age, ageStyle)
	}
	return row
}

func ternaryStyle(cond bool, a, b lipgloss.Style) lipgloss.Style {
	if cond {
		return a
	}
	return b
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Frame style: ┌─── Title ───┐
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderColor := lipgloss.Color(borderColorStr)
	bgColor := lipgloss.Color(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := ansi.StringWidth(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0) // -2 for spaces around title
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(bgColor)

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	paddedLines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
