package console

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/fincon/fincon/pkg/api"
)

// engineActionMsg asks the owning view to perform a built-in action
// (edit/details) that needs view state transitions.
type engineActionMsg struct {
	runnerID string
	id       string
	target   api.Object
}

// actionDoneMsg delivers the outcome of an invoked action handler.
type actionDoneMsg struct {
	runnerID string
	message  string
	err      error
}

// actionFormReadyMsg delivers the prepared options of an action form.
type actionFormReadyMsg struct {
	runnerID string
	options  map[string][]SelectOption
	err      error
}

// actionOptionsMsg delivers reloaded options for a dependent select.
type actionOptionsMsg struct {
	runnerID string
	fieldID  string
	options  []SelectOption
	err      error
}

// ActionRunner drives the lifecycle of one action menu interaction:
// menu choice, optional confirmation, optional parameter form, handler
// invocation, completion notice, and refresh. It is shared by resource
// views and detail-panel sub-grids.
type ActionRunner struct {
	ID     string
	client api.Client

	menu    *ActionMenu
	confirm *ConfirmDialog
	form    *Form
	spec    *ActionFormSpec

	pending Action
	target  api.Object
	refresh func() tea.Cmd
}

// NewActionRunner builds a runner bound to a client.
func NewActionRunner(client api.Client) *ActionRunner {
	return &ActionRunner{ID: uuid.NewString(), client: client}
}

// Active reports whether a menu, confirmation, or form is open.
func (r *ActionRunner) Active() bool {
	return r.menu != nil || r.confirm != nil || r.form != nil
}

// Open presents the action menu for target. refresh is run after an
// action handler completes successfully (mutating actions leave the
// refresh to the caller, per the grid contract).
func (r *ActionRunner) Open(actions []Action, target api.Object, refresh func() tea.Cmd) {
	if len(actions) == 0 || target == nil {
		return
	}
	r.menu = NewActionMenu(actions)
	r.target = target
	r.refresh = refresh
}

// Close discards all open surfaces without running anything.
func (r *ActionRunner) Close() {
	r.menu = nil
	r.confirm = nil
	r.form = nil
	r.spec = nil
	r.pending = Action{}
	r.target = nil
	r.refresh = nil
}

// Update advances the action lifecycle.
func (r *ActionRunner) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case actionChosenMsg:
		if r.menu == nil {
			return nil
		}
		r.menu = nil
		return r.begin(msg.action)

	case actionDismissedMsg:
		if r.menu != nil {
			r.Close()
		}
		return nil

	case confirmResultMsg:
		if r.confirm == nil {
			return nil
		}
		r.confirm = nil
		if !msg.confirmed {
			// Declining leaves everything unchanged.
			r.Close()
			return nil
		}
		return r.execute(nil)

	case actionFormReadyMsg:
		return r.applyFormReady(msg)

	case actionOptionsMsg:
		if msg.runnerID != r.ID || r.form == nil {
			return nil
		}
		if msg.err != nil {
			return noticeCmd(errorNotice("Error loading options", msg.err))
		}
		r.form.SetOptions(msg.fieldID, msg.options)
		return nil

	case FieldChangedMsg:
		return r.fieldChanged(msg)

	case FormSaveMsg:
		if r.form == nil || msg.FormID != r.form.ID {
			return nil
		}
		r.form = nil
		r.spec = nil
		return r.execute(msg.Values)

	case FormCancelMsg:
		if r.form != nil && msg.FormID == r.form.ID {
			r.Close()
		}
		return nil

	case actionDoneMsg:
		return r.finish(msg)

	case tea.KeyMsg:
		switch {
		case r.menu != nil:
			return r.menu.Update(msg)
		case r.confirm != nil:
			return r.confirm.Update(msg)
		case r.form != nil:
			return r.form.Update(msg)
		}
	}
	return nil
}

// begin routes a chosen action: built-ins go back to the view, handlers
// pass through their optional confirmation and parameter form first.
func (r *ActionRunner) begin(action Action) tea.Cmd {
	r.pending = action

	if action.Invoke == nil {
		id, target := action.ID, r.target
		runnerID := r.ID
		r.Close()
		if id == "" {
			return nil
		}
		return func() tea.Msg {
			return engineActionMsg{runnerID: runnerID, id: id, target: target}
		}
	}

	if action.Confirm != nil {
		r.confirm = NewConfirmDialog(*action.Confirm)
		return nil
	}
	if action.Form != nil {
		return r.prepareForm(action)
	}
	return r.execute(nil)
}

func (r *ActionRunner) prepareForm(action Action) tea.Cmd {
	spec := action.Form
	if spec.Prepare == nil {
		return r.showForm(spec, nil)
	}
	runnerID, client, target := r.ID, r.client, r.target
	return func() tea.Msg {
		options, err := spec.Prepare(context.Background(), client, target)
		return actionFormReadyMsg{runnerID: runnerID, options: options, err: err}
	}
}

func (r *ActionRunner) applyFormReady(msg actionFormReadyMsg) tea.Cmd {
	if msg.runnerID != r.ID || r.pending.Form == nil {
		return nil
	}
	if msg.err != nil {
		r.Close()
		return noticeCmd(errorNotice("Error preparing action", msg.err))
	}
	var setup *FormSetup
	if msg.options != nil {
		setup = &FormSetup{Options: msg.options}
	}
	return r.showForm(r.pending.Form, setup)
}

func (r *ActionRunner) showForm(spec *ActionFormSpec, setup *FormSetup) tea.Cmd {
	saveLabel := spec.SaveLabel
	if saveLabel == "" {
		saveLabel = "Save"
	}
	r.spec = spec
	r.form = NewForm(spec.Fields, saveLabel)
	r.form.SetTitle(spec.Title)
	r.form.Apply(setup)
	return nil
}

func (r *ActionRunner) fieldChanged(msg FieldChangedMsg) tea.Cmd {
	if r.form == nil || r.spec == nil || msg.FormID != r.form.ID {
		return nil
	}
	for fieldID, dep := range r.spec.Dependents {
		if dep.Parent != msg.FieldID {
			continue
		}
		runnerID, client, load := r.ID, r.client, dep.Load
		parentValue := msg.Value
		target := fieldID
		return func() tea.Msg {
			options, err := load(context.Background(), client, parentValue)
			return actionOptionsMsg{runnerID: runnerID, fieldID: target, options: options, err: err}
		}
	}
	return nil
}

func (r *ActionRunner) execute(params map[string]string) tea.Cmd {
	runnerID, client, target := r.ID, r.client, r.target
	invoke := r.pending.Invoke
	return func() tea.Msg {
		message, err := invoke(context.Background(), client, target, params)
		return actionDoneMsg{runnerID: runnerID, message: message, err: err}
	}
}

func (r *ActionRunner) finish(msg actionDoneMsg) tea.Cmd {
	if msg.runnerID != r.ID {
		return nil
	}
	refresh := r.refresh
	if r.pending.Refresh != nil {
		refresh = r.pending.Refresh
	}
	label := r.pending.Label
	r.Close()

	if msg.err != nil {
		return noticeCmd(errorNotice("Error: "+label, msg.err))
	}

	cmds := []tea.Cmd{}
	if msg.message != "" {
		cmds = append(cmds, noticeCmd(Notice{
			Title:    "Success",
			Message:  msg.message,
			Severity: SeveritySuccess,
			Timeout:  DefaultNoticeTimeout,
		}))
	}
	if refresh != nil {
		cmds = append(cmds, refresh())
	}
	return tea.Batch(cmds...)
}

func errorNotice(title string, err error) Notice {
	return Notice{
		Title:    title,
		Message:  err.Error(),
		Severity: SeverityError,
		Timeout:  DefaultNoticeTimeout,
	}
}
