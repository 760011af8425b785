package internal

import "github.com/charmbracelet/lipgloss"

// Terminal styles shared by the runner and the CLI commands.
var (
	Green  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	Red    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	Yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)
