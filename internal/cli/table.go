package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#64b5f6")
	colorMuted   = lipgloss.Color("#888888")

	styleHeader = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
)

// disableColor resets every style to plain text.
func disableColor() {
	styleHeader = lipgloss.NewStyle()
	styleMuted = lipgloss.NewStyle()
}

// table renders left-aligned columns with a styled header row.
type table struct {
	headers []string
	rows    [][]string
	widths  []int
}

func newTable(headers ...string) *table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	return &table{headers: headers, widths: widths}
}

// AddRow appends a row. Missing cells are blank and extra cells are dropped.
func (t *table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(values) {
			row[i] = values[i]
		}
		t.widths[i] = max(t.widths[i], lipgloss.Width(row[i]))
	}
	t.rows = append(t.rows, row)
}

func (t *table) Render() string {
	var sb strings.Builder

	for i, h := range t.headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(styleHeader.Render(pad(h, t.widths[i])))
	}
	sb.WriteString("\n")

	for i, w := range t.widths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(styleMuted.Render(strings.Repeat("─", w)))
	}
	sb.WriteString("\n")

	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(pad(cell, t.widths[i]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// pad right-pads s to width display cells.
func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
