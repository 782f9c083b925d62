package tui

import "github.com/charmbracelet/lipgloss"

const (
	cardWidth  = 8
	cardHeight = 3
	cardGap    = 1
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c8a84c")).
			Bold(true)

	deckStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	backStyle = lipgloss.NewStyle().
			Width(cardWidth).
			Height(cardHeight).
			Align(lipgloss.Center, lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#505868")).
			Foreground(lipgloss.Color("#6b5b95"))

	faceStyle = backStyle.
			BorderForeground(lipgloss.Color("#d4a844")).
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	cursorBorder = lipgloss.Color("#4ade80")

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844")).
			Bold(true)

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22d3ee"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))
)

// backPattern fills a face-down card.
const backPattern = "✶ ✶ ✶\n ✶ ✶\n✶ ✶ ✶"
