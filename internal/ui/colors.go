// Package ui holds the terminal presentation helpers: the color
// palette, status symbols, the table renderer behind the table report
// style, and the sparkline used by the history command.
package ui

import "github.com/charmbracelet/lipgloss"

// ANSI palette, kept to the basic 16 colors for terminal compatibility.

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)
