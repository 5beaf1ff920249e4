package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with title and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a Bubbles table with the borgspace styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(string(ColorMuted))).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(string(ColorPrimary)))
	s.Cell = s.Cell.
		Foreground(lipgloss.Color(string(ColorPrimary)))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(string(ColorPrimary))).
		Bold(false)

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string for CLI
// output. Column widths grow to fit the widest cell.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	fitted := make([]TableColumn, len(columns))
	copy(fitted, columns)
	for i := range fitted {
		if w := lipgloss.Width(fitted[i].Title); w > fitted[i].Width {
			fitted[i].Width = w
		}
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(fitted) {
				break
			}
			if w := lipgloss.Width(cell); w > fitted[i].Width {
				fitted[i].Width = w
			}
		}
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(fitted, tableRows)
	return t.View()
}

// RenderSimpleTableRows renders only the table body. The Bubbles table
// always draws its header and the border under it, which occupy the
// first two lines of the view; they are sliced off here.
func RenderSimpleTableRows(columns []TableColumn, rows [][]string) string {
	out := RenderSimpleTable(columns, rows)
	lines := strings.Split(out, "\n")
	if len(lines) <= 2 {
		return ""
	}
	return strings.Join(lines[2:], "\n")
}
