package console

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincon/fincon/pkg/api"
)

// actionChosenMsg is emitted when a non-disabled menu entry is picked.
type actionChosenMsg struct {
	action Action
}

// actionDismissedMsg is emitted when the menu is closed without a choice.
// Dismissal is a no-op, not an error.
type actionDismissedMsg struct{}

// ActionMenu presents a resolved action set for a single choice. Disabled
// actions are shown but not selectable.
type ActionMenu struct {
	actions []Action
	cursor  int
}

// NewActionMenu builds a menu over the resolved action set.
func NewActionMenu(actions []Action) *ActionMenu {
	return &ActionMenu{actions: actions}
}

// Update handles menu keys.
func (m *ActionMenu) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "esc", "q":
		return func() tea.Msg { return actionDismissedMsg{} }
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.actions)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.actions) && !m.actions[m.cursor].Disabled {
			action := m.actions[m.cursor]
			return func() tea.Msg { return actionChosenMsg{action: action} }
		}
	}
	return nil
}

// DefaultActions is the standard edit/details/delete set. Delete is
// disabled for already-deleted objects. Descriptors build on this and
// adjust per resource and session.
func DefaultActions(obj api.Object, _ Session) []Action {
	return []Action{
		{ID: ActionEdit, Label: "Edit"},
		{ID: ActionDetails, Label: "Details"},
		{ID: ActionDelete, Label: "Delete", Disabled: objField(obj, "status") == "deleted"},
	}
}

// FindAction returns the action with the given id, if present.
func FindAction(actions []Action, id string) (Action, bool) {
	for _, a := range actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}
