// Package render draws keyboards for a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/username/datepicker-bot/internal/picker"
)

// Theme holds the colors used by Text
type Theme struct {
	Title  string
	Header string
	Nav    string
	Day    string
	Marked string
	Pad    string
}

// DefaultTheme is a muted palette readable on dark and light terminals
var DefaultTheme = Theme{
	Title:  "#ff8c00",
	Header: "#6272a4",
	Nav:    "#8be9fd",
	Day:    "#f8f8f2",
	Marked: "#50fa7b",
	Pad:    "#44475a",
}

type styles struct {
	title, header, nav, day, marked, pad lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Title)),
		header: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Header)),
		nav:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Nav)),
		day:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Day)),
		marked: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Marked)),
		pad:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Pad)),
	}
}

// Text writes kb as a grid using DefaultTheme
func Text(kb *picker.Keyboard, w io.Writer) error {
	return TextWithTheme(kb, w, DefaultTheme)
}

// TextWithTheme writes kb as a grid: navigation and title centered above the
// weekday header, day cells right aligned in equal columns
func TextWithTheme(kb *picker.Keyboard, w io.Writer, theme Theme) error {
	st := newStyles(theme)

	cellWidth := 2
	for _, row := range append([]picker.Row{kb.HeaderRow()}, kb.WeekRows()...) {
		for _, b := range row {
			if n := lipgloss.Width(b.Label); n > cellWidth {
				cellWidth = n
			}
		}
	}
	gridWidth := 7*cellWidth + 6
	center := lipgloss.NewStyle().Width(gridWidth).Align(lipgloss.Center)

	var lines []string

	if nav := kb.NavigationRow(); len(nav) > 0 {
		labels := make([]string, len(nav))
		for i, b := range nav {
			labels[i] = st.nav.Render(b.Label)
		}
		lines = append(lines, center.Render(strings.Join(labels, "   ")))
	}

	for _, b := range kb.TitleRow() {
		lines = append(lines, center.Render(st.title.Render(b.Label)))
	}

	lines = append(lines, cells(kb.HeaderRow(), cellWidth, func(picker.Button) lipgloss.Style { return st.header }))

	for _, row := range kb.WeekRows() {
		lines = append(lines, cells(row, cellWidth, st.dayStyle))
	}

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
	return err
}

// dayStyle picks the style of a week-row cell
func (st styles) dayStyle(b picker.Button) lipgloss.Style {
	switch {
	case b.Kind == picker.Label:
		return st.pad
	case b.Highlighted:
		return st.marked
	default:
		return st.day
	}
}

func cells(row picker.Row, width int, style func(picker.Button) lipgloss.Style) string {
	rendered := make([]string, len(row))
	for i, b := range row {
		rendered[i] = style(b).Width(width).Align(lipgloss.Right).Render(b.Label)
	}
	return strings.Join(rendered, " ")
}

// Payloads lists the callback string of every button in row order
func Payloads(kb *picker.Keyboard) []string {
	var out []string
	for _, b := range kb.Buttons() {
		out = append(out, b.Payload(kb.Locale))
	}
	return out
}

// WritePayloads prints one "label<TAB>payload" line per button
func WritePayloads(kb *picker.Keyboard, w io.Writer) error {
	for _, b := range kb.Buttons() {
		label := strings.TrimSpace(b.Label)
		if label == "" {
			label = "_"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", label, b.Payload(kb.Locale)); err != nil {
			return err
		}
	}
	return nil
}
