package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Width(22)
	focusStyle   = lipgloss.NewStyle().Width(22).Bold(true).Foreground(lipgloss.Color("39"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).PaddingLeft(22)
	fileStyle    = lipgloss.NewStyle().Faint(true).PaddingLeft(22)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Faint(true).MarginTop(1)
	helpStyle    = lipgloss.NewStyle().Faint(true)
)
