package tui

import (
	"github.com/amterp/palette/internal/colorfmt"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorMuted  = lipgloss.AdaptiveColor{Dark: "#6b7280", Light: "#9ca3af"}
	colorAccent = lipgloss.AdaptiveColor{Dark: "#a78bfa", Light: "#7c3aed"}
	colorError  = lipgloss.AdaptiveColor{Dark: "#ef4444", Light: "#dc2626"}
	colorBorder = lipgloss.AdaptiveColor{Dark: "#374151", Light: "#d1d5db"}
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleError    = lipgloss.NewStyle().Foreground(colorError)
	styleKey      = lipgloss.NewStyle().Foreground(colorAccent)
	styleBox      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

// swatchWidth is the width of one swatch in cells, not counting the gap.
const swatchWidth = 4

// Swatch renders value as a block of its color. Selected swatches carry a
// marker in a contrasting color. Values that don't parse render as a
// hatched gray block.
func Swatch(value string, selected bool) string {
	c, err := colorfmt.Parse(value)
	if err != nil {
		return styleMuted.Render("░░░░")
	}

	style := lipgloss.NewStyle().Background(lipgloss.Color(c.Clamped().Hex()))
	if !selected {
		return style.Render("    ")
	}

	_, _, l := c.Clamped().Hsl()
	marker := "#ffffff"
	if l > 0.6 {
		marker = "#000000"
	}
	return style.Foreground(lipgloss.Color(marker)).Bold(true).Render(" ◆◆ ")
}
