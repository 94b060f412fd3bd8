package console

import tea "github.com/charmbracelet/bubbletea"

// confirmResultMsg carries the outcome of a confirmation dialog.
type confirmResultMsg struct {
	confirmed bool
}

// ConfirmDialog is a modal yes/no prompt. The result is delivered as a
// single message: confirmed or declined, never both.
type ConfirmDialog struct {
	spec  ConfirmSpec
	onYes bool
}

// NewConfirmDialog builds a dialog from a spec. Focus starts on Cancel so
// a stray Enter cannot confirm a destructive operation.
func NewConfirmDialog(spec ConfirmSpec) *ConfirmDialog {
	if spec.ButtonLabel == "" {
		spec.ButtonLabel = "OK"
	}
	return &ConfirmDialog{spec: spec}
}

// Update handles dialog keys.
func (d *ConfirmDialog) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "esc", "n":
		return confirmCmd(false)
	case "y":
		return confirmCmd(true)
	case "left", "right", "tab":
		d.onYes = !d.onYes
	case "enter":
		return confirmCmd(d.onYes)
	}
	return nil
}

func confirmCmd(confirmed bool) tea.Cmd {
	return func() tea.Msg { return confirmResultMsg{confirmed: confirmed} }
}
