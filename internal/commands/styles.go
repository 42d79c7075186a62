package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/studytrack/internal/tui"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(tui.ColorAccentBright))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorSuccess)).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorDisabledText))
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorBorder))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorWarning))
)

// printTable writes rows under a styled header, padding each column to its
// widest cell. Cells may already carry styling.
func printTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style *lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if style != nil {
				cell = style.Render(cell)
			}
			parts[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	total := 2 * (len(widths) - 1)
	for _, width := range widths {
		total += width
	}

	fmt.Fprintln(w, line(headers, &headerStyle))
	fmt.Fprintln(w, ruleStyle.Render(strings.Repeat("─", total)))
	for _, row := range rows {
		fmt.Fprintln(w, line(row, nil))
	}
}
