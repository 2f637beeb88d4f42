package formatter

import "github.com/charmbracelet/lipgloss"

var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
)

// Header renders a section title.
func Header(s string) string {
	return StyleHeader.Render(s)
}
