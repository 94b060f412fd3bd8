package console

import "github.com/charmbracelet/lipgloss"

// Shared palette for the console widgets.
var (
	colorAccent  = lipgloss.Color("39")
	colorMuted   = lipgloss.Color("241")
	colorError   = lipgloss.Color("196")
	colorSuccess = lipgloss.Color("42")
	colorWarning = lipgloss.Color("214")

	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	styleError  = lipgloss.NewStyle().Foreground(colorError)

	styleRowCursor   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	styleRowSelected = lipgloss.NewStyle().Foreground(colorAccent)

	styleModal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
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

	styleFieldLabel      = lipgloss.NewStyle().Bold(true)
	styleFieldLabelFocus = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleFieldError      = lipgloss.NewStyle().Foreground(colorError).Italic(true)

	styleMenuItem         = lipgloss.NewStyle().Padding(0, 1)
	styleMenuItemFocus    = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	styleMenuItemDisabled = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted).Strikethrough(true)
)

// noticeStyle picks the border color for a notification card.
func noticeStyle(sev Severity) lipgloss.Style {
	color := colorAccent
	switch sev {
	case SeverityError:
		color = colorError
	case SeveritySuccess:
		color = colorSuccess
	case SeverityWarning:
		color = colorWarning
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(color).
		Padding(0, 1)
}
