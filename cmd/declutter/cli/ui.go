// Package cli holds the terminal presentation helpers shared by the
// declutter subcommands.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD75F"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4F4FB7")).
			Padding(0, 1)

	emphasisStyle = lipgloss.NewStyle().
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1)
)

// Success renders a success message
func Success(message string) string {
	return successStyle.Render("✓ " + message)
}

// Error renders an error message
func Error(message string) string {
	return errorStyle.Render("✗ " + message)
}

// Warning renders a warning message
func Warning(message string) string {
	return warningStyle.Render("! " + message)
}

// Info renders an informational message
func Info(message string) string {
	return infoStyle.Render(message)
}

// Header renders a section header
func Header(message string) string {
	return headerStyle.Render(message)
}

// Emphasis renders emphasized inline text
func Emphasis(message string) string {
	return emphasisStyle.Render(message)
}

// Box draws a rounded border around content
func Box(content string) string {
	return boxStyle.Render(content)
}

// ProgressLine renders a single-line progress indicator suitable for
// overwriting with a carriage return.
func ProgressLine(done, total int) string {
	const width = 24
	filled := 0
	if total > 0 {
		filled = done * width / total
		// done can outrun the precomputed total when files appear mid-pass
		if filled > width {
			filled = width
		}
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("\r%s %d/%d", infoStyle.Render(bar), done, total)
}
