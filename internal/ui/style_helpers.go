package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders segments that all carry the same background. lipgloss
// resets attributes after every styled run, so plain spaces between runs
// would show the terminal background; BgStyle styles those gaps too.
type BgStyle struct {
	fill  lipgloss.Style
	space string
}

// NewBgStyle returns a helper for the given background color.
func NewBgStyle(bgColor string) BgStyle {
	fill := lipgloss.NewStyle().Background(lipgloss.Color(bgColor))
	return BgStyle{fill: fill, space: fill.Render(" ")}
}

// Render applies style plus the background to text. Runs of spaces inside
// text are rendered as background-only segments.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	fg := style.Background(b.fill.GetBackground())
	if !strings.Contains(text, " ") {
		return fg.Render(text)
	}

	var out strings.Builder
	for text != "" {
		i := strings.IndexByte(text, ' ')
		switch {
		case i < 0:
			out.WriteString(fg.Render(text))
			text = ""
		case i == 0:
			n := len(text) - len(strings.TrimLeft(text, " "))
			out.WriteString(b.Spaces(n))
			text = text[n:]
		default:
			out.WriteString(fg.Render(text[:i]))
			text = text[i:]
		}
	}
	return out.String()
}

// Pair renders "value label" with a styled gap, as in "3 active".
func (b BgStyle) Pair(value string, valueStyle lipgloss.Style, label string, labelStyle lipgloss.Style) string {
	return b.Render(value, valueStyle) + b.space + b.Render(label, labelStyle)
}

// Space returns a single styled space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces returns n styled spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	if n == 1 {
		return b.space
	}
	return b.fill.Render(strings.Repeat(" ", n))
}

// Sep returns a styled separator.
func (b BgStyle) Sep(sep string) string {
	return b.fill.Render(sep)
}

// Join joins parts with a styled separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}

// FillLine pads rendered content to width with the background color.
func (b BgStyle) FillLine(content string, width int) string {
	return b.fill.Width(width).Render(content)
}
