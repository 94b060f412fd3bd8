package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/fincon/fincon/pkg/api"
	"github.com/fincon/fincon/pkg/config"
	"github.com/fincon/fincon/pkg/console"
	"github.com/fincon/fincon/pkg/resources"
)

// LogoutMsg asks the application to drop the session and return to the
// login prompt.
type LogoutMsg struct{}

// userAccountsMsg delivers the accounts of the current user for the
// account switcher.
type userAccountsMsg struct {
	accounts []api.Object
	err      error
}

// accountSwitchedMsg delivers the result of a token exchange for another
// account.
type accountSwitchedMsg struct {
	account api.Object
	err     error
}

// navGroup is one section of the navbar.
type navGroup struct {
	title string
	views []int
}

// MainModel is the main screen: topbar, navbar, the six resource tabs,
// the account switcher, and the notification stack.
type MainModel struct {
	client *api.HTTPClient
	cfg    *config.Config
	log    *zap.Logger

	sess  console.Session
	views []*console.ResourceView

	current       int
	navbarVisible bool

	switcher *AccountSwitcher
	notifier Notifier

	width, height int
}

// Tab indices, in navbar order.
const (
	tabAffiliates = iota
	tabOrganizations
	tabEntitlements
	tabCharges
	tabUsers
	tabTokens
)

// NewMain builds the main screen for an authenticated session.
func NewMain(client *api.HTTPClient, cfg *config.Config, log *zap.Logger, sess console.Session) *MainModel {
	m := &MainModel{
		client: client,
		cfg:    cfg,
		log:    log,
		sess:   sess,
	}
	for _, desc := range resources.Descriptors(client) {
		m.views = append(m.views, console.NewResourceView(desc, client, sess))
	}
	m.current = m.defaultTab()
	return m
}

// defaultTab is Affiliates for operations accounts; affiliate accounts
// cannot see the administration tabs and land on Entitlements.
func (m *MainModel) defaultTab() int {
	if m.views[tabAffiliates].Enabled() {
		return tabAffiliates
	}
	return tabEntitlements
}

// Init loads every enabled tab.
func (m *MainModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, v := range m.views {
		if v.Enabled() {
			cmds = append(cmds, console.Guard(m.log, v.Init()))
		}
	}
	return tea.Batch(cmds...)
}

// SetSize propagates terminal dimensions to every tab.
func (m *MainModel) SetSize(w, h int) {
	m.width, m.height = w, h
	inner := w
	if m.navbarVisible {
		inner -= 30
	}
	for _, v := range m.views {
		v.SetSize(inner, h)
	}
}

func (m *MainModel) activeView() *console.ResourceView {
	return m.views[m.current]
}

// Update is the main screen event loop step.
func (m *MainModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case console.NoticeMsg:
		return m.notifier.Push(console.Notice(msg))

	case noticeTickMsg:
		return m.notifier.Sweep(time.Time(msg))

	case userAccountsMsg:
		if msg.err != nil {
			return m.notifier.Push(console.Notice{
				Title:    "Error switching account",
				Message:  msg.err.Error(),
				Severity: console.SeverityError,
				Timeout:  console.DefaultNoticeTimeout,
			})
		}
		m.switcher = NewAccountSwitcher(msg.accounts)
		return nil

	case accountChosenMsg:
		m.switcher = nil
		if msg.account == nil {
			return nil
		}
		return m.switchAccount(console.ObjectID(msg.account))

	case accountSwitchedMsg:
		return m.applyAccountSwitch(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Async results route to every tab; each one filters by its own IDs.
	var cmds []tea.Cmd
	for _, v := range m.views {
		if cmd := v.Update(msg); cmd != nil {
			cmds = append(cmds, console.Guard(m.log, cmd))
		}
	}
	return tea.Batch(cmds...)
}

func (m *MainModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.switcher != nil {
		return m.switcher.Update(msg)
	}

	switch msg.String() {
	case "ctrl+a":
		return m.showTab(tabAffiliates)
	case "ctrl+o":
		return m.showTab(tabOrganizations)
	case "ctrl+e":
		return m.showTab(tabEntitlements)
	case "ctrl+g":
		return m.showTab(tabCharges)
	case "ctrl+u":
		return m.showTab(tabUsers)
	case "ctrl+t":
		return m.showTab(tabTokens)
	}

	// Plain-letter bindings stay out of the way while the user types.
	if !m.activeView().CapturesInput() {
		switch msg.String() {
		case "m":
			m.navbarVisible = !m.navbarVisible
			m.SetSize(m.width, m.height)
			return nil
		case "s":
			return m.loadUserAccounts()
		case "l":
			return func() tea.Msg { return LogoutMsg{} }
		case "x":
			m.notifier.DismissOldest()
			return nil
		}
	}

	return console.Guard(m.log, m.activeView().Update(msg))
}

func (m *MainModel) showTab(idx int) tea.Cmd {
	if !m.views[idx].Enabled() {
		return nil
	}
	m.current = idx
	return nil
}

func (m *MainModel) loadUserAccounts() tea.Cmd {
	client, userID := m.client, m.sess.UserID()
	return func() tea.Msg {
		accounts, err := client.UserAccounts(context.Background(), userID)
		return userAccountsMsg{accounts: accounts, err: err}
	}
}

func (m *MainModel) switchAccount(accountID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		account, err := client.SwitchAccount(context.Background(), accountID)
		return accountSwitchedMsg{account: account, err: err}
	}
}

// applyAccountSwitch swaps the session in one step and resets every tab,
// so no view ever observes a half-switched account.
func (m *MainModel) applyAccountSwitch(msg accountSwitchedMsg) tea.Cmd {
	if msg.err != nil {
		return m.notifier.Push(console.Notice{
			Title:    "Error switching account",
			Message:  msg.err.Error(),
			Severity: console.SeverityError,
			Timeout:  console.DefaultNoticeTimeout,
		})
	}

	m.sess = console.Session{Account: msg.account, User: m.sess.User}
	if err := m.cfg.SetAccount(msg.account); err != nil {
		m.log.Warn("persisting switched account failed", zap.Error(err))
	}

	cmds := []tea.Cmd{}
	for _, v := range m.views {
		if cmd := v.Reset(m.sess); cmd != nil {
			cmds = append(cmds, console.Guard(m.log, cmd))
		}
	}
	if !m.views[m.current].Enabled() {
		m.current = m.defaultTab()
	}
	return tea.Batch(cmds...)
}

// View renders the full main screen.
func (m *MainModel) View() string {
	top := styleTopBar.Render("FinOps For Cloud Admin Console - " +
		console.FormatObjectLabel(m.sess.Account) + " - " + m.client.BaseURL())

	content := m.activeView().View()
	if m.navbarVisible {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.navbarView(), " ", content)
	}

	sections := []string{top, content}
	if m.switcher != nil {
		sections = append(sections, m.switcher.View())
	}
	if !m.notifier.Empty() {
		sections = append(sections, m.notifier.View())
	}
	sections = append(sections, styleFooter.Render(
		"m menu  s switch account  l logout  x dismiss  ctrl+x exit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *MainModel) navbarView() string {
	groups := []navGroup{
		{title: "Billing", views: []int{tabEntitlements, tabCharges}},
		{title: "Settings", views: []int{tabUsers, tabTokens}},
	}
	if m.sess.IsOperations() {
		groups = append([]navGroup{
			{title: "Administration", views: []int{tabAffiliates, tabOrganizations}},
		}, groups...)
	}

	var b strings.Builder
	for _, group := range groups {
		b.WriteString(styleNavGroup.Render(group.title))
		b.WriteString("\n")
		for _, idx := range group.views {
			view := m.views[idx]
			style := styleNavItem
			switch {
			case !view.Enabled():
				style = styleNavItemDisabled
			case idx == m.current:
				style = styleNavItemActive
			}
			b.WriteString(style.Render(view.Plural()))
			b.WriteString("\n")
		}
	}
	return styleNavBar.Render(b.String())
}
