package console_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// updater is anything with the component Update contract.
type updater interface {
	Update(tea.Msg) tea.Cmd
}

// pump executes commands synchronously, feeding every produced message
// back into u until the loop settles. All delivered messages are returned
// for assertions.
func pump(t *testing.T, u updater, cmds ...tea.Cmd) []tea.Msg {
	t.Helper()
	var seen []tea.Msg
	queue := append([]tea.Cmd{}, cmds...)
	for len(queue) > 0 {
		if len(seen) > 1000 {
			t.Fatal("message loop did not settle")
		}
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		msg := cmd()
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		seen = append(seen, msg)
		queue = append(queue, u.Update(msg))
	}
	return seen
}

// key builds a key press message for a single rune or named key.
func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press delivers a key and pumps the resulting commands.
func press(t *testing.T, u updater, keys ...string) []tea.Msg {
	t.Helper()
	var seen []tea.Msg
	for _, k := range keys {
		seen = append(seen, pump(t, u, func() tea.Msg { return key(k) })...)
	}
	return seen
}
