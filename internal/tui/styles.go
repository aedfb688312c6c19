package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/pokerodds/poker"
)

// Static styles for report elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	HandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	WinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4"))

	TieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7"))

	EquityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	CategoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#74B9FF"))

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// DisableColor renders every style as plain text, for pipes and tests.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// RenderCard colours hearts and diamonds red.
func RenderCard(c poker.Card) string {
	switch c.Suit() {
	case poker.Hearts, poker.Diamonds:
		return RedCardStyle.Render(c.String())
	default:
		return BlackCardStyle.Render(c.String())
	}
}

// RenderCards renders cards separated by spaces.
func RenderCards(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = RenderCard(c)
	}
	return strings.Join(parts, " ")
}
