package ui

import "github.com/charmbracelet/lipgloss"

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

	styleDialog = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(1, 2)

	styleButton = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("237"))
	styleButtonFocus = lipgloss.NewStyle().
				Padding(0, 2).
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	styleTopBar = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("24")).
			Padding(0, 1)

	styleNavGroup = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("39")).
			Padding(0, 1)
	styleNavItem       = lipgloss.NewStyle().Padding(0, 2)
	styleNavItemActive = lipgloss.NewStyle().Padding(0, 2).Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))
	styleNavItemDisabled = lipgloss.NewStyle().Padding(0, 2).
				Foreground(lipgloss.Color("241"))

	styleNavBar = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Width(28)

	styleFooter = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
