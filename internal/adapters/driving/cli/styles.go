package cli

import "github.com/charmbracelet/lipgloss"

var (
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failureStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	citationStyle = lipgloss.NewStyle().Faint(true)
)
