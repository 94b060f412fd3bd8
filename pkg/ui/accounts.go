package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincon/fincon/pkg/api"
	"github.com/fincon/fincon/pkg/console"
)

// accountChosenMsg carries the picked account, nil when dismissed.
type accountChosenMsg struct {
	account api.Object
}

// AccountSwitcher is the modal listing the accounts the current user can
// operate under.
type AccountSwitcher struct {
	accounts []api.Object
	cursor   int
}

// NewAccountSwitcher builds the modal over the user's accounts.
func NewAccountSwitcher(accounts []api.Object) *AccountSwitcher {
	return &AccountSwitcher{accounts: accounts}
}

// Update handles switcher keys.
func (s *AccountSwitcher) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "esc", "q":
		return func() tea.Msg { return accountChosenMsg{} }
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.accounts)-1 {
			s.cursor++
		}
	case "enter":
		if s.cursor < len(s.accounts) {
			account := s.accounts[s.cursor]
			return func() tea.Msg { return accountChosenMsg{account: account} }
		}
	}
	return nil
}

// View renders the switcher.
func (s *AccountSwitcher) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Choose the Account you want to use"))
	b.WriteString("\n\n")
	for i, account := range s.accounts {
		label := console.FormatObjectLabel(account)
		if t, ok := account["type"].(string); ok {
			label += " (" + t + ")"
		}
		if i == s.cursor {
			b.WriteString(styleButtonFocus.Render(label))
		} else {
			b.WriteString(styleNavItem.Render(label))
		}
		b.WriteString("\n")
	}
	return styleDialog.Render(b.String())
}
