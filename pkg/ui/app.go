package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/fincon/fincon/pkg/api"
	"github.com/fincon/fincon/pkg/config"
	"github.com/fincon/fincon/pkg/console"
)

// appState selects the active top-level screen.
type appState int

const (
	stateBootstrap appState = iota
	stateLogin
	stateMain
)

// bootstrapMsg reports whether the stored credentials still work.
type bootstrapMsg struct {
	ok bool
}

// loginResultMsg delivers the outcome of a credential exchange.
type loginResultMsg struct {
	url    string
	result api.LoginResult
	err    error
}

// App is the root bubbletea model. It owns the client and flips between
// the login prompt and the main screen.
type App struct {
	cfg *config.Config
	log *zap.Logger

	client *api.HTTPClient
	state  appState

	login *LoginModel
	main  *MainModel

	notifier Notifier

	width, height int

	// ExitCode is read by the entry point after the program finishes.
	ExitCode int
}

// NewApp builds the root model around a loaded configuration.
func NewApp(cfg *config.Config, log *zap.Logger) *App {
	return &App{cfg: cfg, log: log}
}

// Init probes the stored session, or goes straight to the login prompt.
func (a *App) Init() tea.Cmd {
	if !a.cfg.IsConfigured() {
		a.showLogin()
		return nil
	}
	a.client = api.NewHTTPClient(a.cfg.URL(), a.cfg, a.log)
	client, userID := a.client, objectID(a.cfg.User())
	return func() tea.Msg {
		return bootstrapMsg{ok: client.CanConnect(context.Background(), userID)}
	}
}

func objectID(obj api.Object) string {
	id, _ := obj["id"].(string)
	return id
}

func (a *App) showLogin() {
	a.state = stateLogin
	a.login = NewLogin(a.cfg.URL())
	a.login.syncFocus()
}

func (a *App) showMain() tea.Cmd {
	a.state = stateMain
	a.main = NewMain(a.client, a.cfg, a.log, console.Session{
		Account: a.cfg.Account(),
		User:    a.cfg.User(),
	})
	a.main.SetSize(a.width, a.height)
	return a.main.Init()
}

// Update is the root event loop step.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.main != nil {
			a.main.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case bootstrapMsg:
		if msg.ok {
			return a, a.showMain()
		}
		a.showLogin()
		return a, nil

	case LoginSubmitMsg:
		return a, a.doLogin(msg)

	case LoginCancelMsg:
		a.ExitCode = 1
		return a, tea.Quit

	case loginResultMsg:
		return a, a.applyLogin(msg)

	case LogoutMsg:
		return a, a.logout()

	case console.NoticeMsg:
		if a.state == stateLogin {
			return a, a.notifier.Push(console.Notice(msg))
		}

	case noticeTickMsg:
		if a.state == stateLogin {
			return a, a.notifier.Sweep(time.Time(msg))
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+x" || msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	switch a.state {
	case stateLogin:
		return a, a.login.Update(msg)
	case stateMain:
		return a, a.main.Update(msg)
	}
	return a, nil
}

// doLogin exchanges credentials against the chosen environment.
func (a *App) doLogin(msg LoginSubmitMsg) tea.Cmd {
	a.client = api.NewHTTPClient(msg.URL, a.cfg, a.log)
	client := a.client
	return func() tea.Msg {
		result, err := client.Login(context.Background(), msg.Email, msg.Password)
		return loginResultMsg{url: msg.URL, result: result, err: err}
	}
}

// applyLogin persists a successful session, or re-prompts with the error.
func (a *App) applyLogin(msg loginResultMsg) tea.Cmd {
	if msg.err != nil {
		a.log.Warn("login failed", zap.Error(msg.err))
		a.login.Reset()
		return a.notifier.Push(console.Notice{
			Title:    "Error",
			Message:  "Invalid credentials: " + msg.err.Error(),
			Severity: console.SeverityError,
			Timeout:  console.DefaultNoticeTimeout,
		})
	}

	err := a.cfg.SetSession(msg.url, msg.result.User, msg.result.Account,
		msg.result.AccessToken, msg.result.RefreshToken)
	if err != nil {
		a.log.Warn("persisting session failed", zap.Error(err))
	}
	return a.showMain()
}

// logout drops the stored session and returns to the login prompt.
func (a *App) logout() tea.Cmd {
	if err := a.cfg.Delete(); err != nil {
		a.log.Warn("deleting stored session failed", zap.Error(err))
	}
	a.main = nil
	a.showLogin()
	return nil
}

// View renders the active screen.
func (a *App) View() string {
	switch a.state {
	case stateLogin:
		body := a.login.View()
		if !a.notifier.Empty() {
			body = lipgloss.JoinVertical(lipgloss.Left, body, a.notifier.View())
		}
		return body
	case stateMain:
		return a.main.View()
	}
	return "connecting..."
}
