package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"})
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
)
