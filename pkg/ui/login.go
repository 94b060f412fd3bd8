package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultAPIURLs are the selectable backend environments, newest last.
var DefaultAPIURLs = []string{
	"https://cloudspend.velasuci.com/ops/v1",
	"https://api.finops.s1.today/ops/v1",
	"https://api.finops.s1.show/ops/v1",
	"https://api.finops.s1.live/ops/v1",
	"https://api.finops.softwareone.com/ops/v1",
}

// LoginSubmitMsg carries the entered credentials.
type LoginSubmitMsg struct {
	URL      string
	Email    string
	Password string
}

// LoginCancelMsg is emitted when the login dialog is aborted.
type LoginCancelMsg struct{}

const (
	loginFocusURL = iota
	loginFocusEmail
	loginFocusPassword
	loginFocusSubmit
	loginFocusCancel
)

// LoginModel is the credential prompt: environment URL, email, password.
type LoginModel struct {
	urls   []string
	urlIdx int

	email    textinput.Model
	password textinput.Model

	focus int
}

// NewLogin builds the prompt with the last environment pre-selected.
func NewLogin(currentURL string) *LoginModel {
	email := textinput.New()
	email.Placeholder = "Email"
	email.Width = 48

	password := textinput.New()
	password.Placeholder = "Password"
	password.Width = 48
	password.EchoMode = textinput.EchoPassword

	m := &LoginModel{
		urls:     DefaultAPIURLs,
		urlIdx:   len(DefaultAPIURLs) - 1,
		email:    email,
		password: password,
		focus:    loginFocusURL,
	}
	for i, url := range m.urls {
		if url == currentURL {
			m.urlIdx = i
		}
	}
	return m
}

// URL returns the selected environment.
func (m *LoginModel) URL() string { return m.urls[m.urlIdx] }

// Reset clears the password for a re-prompt after a failed login.
func (m *LoginModel) Reset() {
	m.password.SetValue("")
	m.focus = loginFocusEmail
	m.syncFocus()
}

// Update handles login dialog keys.
func (m *LoginModel) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch key.String() {
	case "esc":
		return func() tea.Msg { return LoginCancelMsg{} }
	case "tab", "down":
		m.focus = (m.focus + 1) % (loginFocusCancel + 1)
		return m.syncFocus()
	case "shift+tab", "up":
		m.focus = (m.focus + loginFocusCancel) % (loginFocusCancel + 1)
		return m.syncFocus()
	case "left", "right":
		if m.focus == loginFocusURL {
			delta := 1
			if key.String() == "left" {
				delta = len(m.urls) - 1
			}
			m.urlIdx = (m.urlIdx + delta) % len(m.urls)
			return nil
		}
	case "enter":
		switch m.focus {
		case loginFocusCancel:
			return func() tea.Msg { return LoginCancelMsg{} }
		case loginFocusPassword, loginFocusSubmit:
			return m.submit()
		default:
			m.focus++
			return m.syncFocus()
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case loginFocusEmail:
		m.email, cmd = m.email.Update(msg)
	case loginFocusPassword:
		m.password, cmd = m.password.Update(msg)
	}
	return cmd
}

func (m *LoginModel) submit() tea.Cmd {
	msg := LoginSubmitMsg{
		URL:      m.URL(),
		Email:    strings.TrimSpace(m.email.Value()),
		Password: m.password.Value(),
	}
	return func() tea.Msg { return msg }
}

func (m *LoginModel) syncFocus() tea.Cmd {
	m.email.Blur()
	m.password.Blur()
	switch m.focus {
	case loginFocusEmail:
		return m.email.Focus()
	case loginFocusPassword:
		return m.password.Focus()
	}
	return nil
}

// View renders the login dialog.
func (m *LoginModel) View() string {
	urlStyle := styleButton
	if m.focus == loginFocusURL {
		urlStyle = styleButtonFocus
	}
	submit := styleButton
	cancel := styleButton
	if m.focus == loginFocusSubmit {
		submit = styleButtonFocus
	}
	if m.focus == loginFocusCancel {
		cancel = styleButtonFocus
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styleTitle.Render("FinOps For Cloud Login"),
		"",
		urlStyle.Render("◂ "+m.URL()+" ▸"),
		"",
		m.email.View(),
		m.password.View(),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			submit.Render("Login"), "  ", cancel.Render("Cancel")),
	)
	return styleDialog.Render(body)
}
