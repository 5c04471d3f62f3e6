package commands

import "github.com/charmbracelet/lipgloss"

var (
	colorIris  = lipgloss.Color("#5D3FD3")
	colorSlate = lipgloss.Color("#667085")
	colorWhite = lipgloss.Color("#FFFFFF")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(colorIris).
			Foreground(colorWhite)

	packageStyle = lipgloss.NewStyle().
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorSlate)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // Red

	skippedStyle = lipgloss.NewStyle().
			Foreground(colorSlate).
			Faint(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Amber

	detailStyle = lipgloss.NewStyle().
			PaddingLeft(6).
			Foreground(colorSlate)
)
