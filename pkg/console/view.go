package console

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/fincon/fincon/pkg/api"
)

// Mode is the two-state switch of a resource view.
type Mode int

const (
	ModeList Mode = iota
	ModeForm
)

// formPreparedMsg delivers the async result of an add/edit preparation
// hook.
type formPreparedMsg struct {
	viewID   string
	objectID string // "" for add mode
	title    string
	data     api.Object
	setup    *FormSetup
	err      error
}

// savedMsg delivers the result of a create or update call.
type savedMsg struct {
	viewID   string
	object   api.Object
	isCreate bool
	err      error
}

// detailsLoadedMsg delivers the freshly fetched object for the details
// modal.
type detailsLoadedMsg struct {
	viewID string
	object api.Object
	err    error
}

// ResourceView composes a data grid, a form, an action runner, and a
// filter bar behind a LIST/FORM switch, mediating between them and the
// remote collection client. One instance per resource tab; all control
// flow is generic, driven by the descriptor.
type ResourceView struct {
	ID   string
	desc *ResourceDescriptor

	client api.Client
	sess   Session

	grid   *DataGrid
	form   *Form
	runner *ActionRunner

	mode    Mode
	details *DetailsView

	filterInput   textinput.Model
	filterEditing bool

	width, height int
}

// NewResourceView wires a view for one resource descriptor.
func NewResourceView(desc *ResourceDescriptor, client api.Client, sess Session) *ResourceView {
	v := &ResourceView{
		ID:     uuid.NewString(),
		desc:   desc,
		client: client,
		sess:   sess,
		runner: NewActionRunner(client),
	}
	v.grid = NewDataGrid(desc.Columns, v.listObjects, v.resolveActions, true)
	v.form = NewForm(desc.Fields, "Save")

	v.filterInput = textinput.New()
	v.filterInput.Prompt = "filter: "
	v.filterInput.Placeholder = "backend query expression"
	v.filterInput.Width = 64
	return v
}

// Mode returns the current LIST/FORM state.
func (v *ResourceView) Mode() Mode { return v.mode }

// Grid exposes the underlying grid (rendering, tests).
func (v *ResourceView) Grid() *DataGrid { return v.grid }

// Session returns the view's current account/user context.
func (v *ResourceView) Session() Session { return v.sess }

// Plural returns the display name of the resource.
func (v *ResourceView) Plural() string { return v.desc.Plural }

// CapturesInput reports whether the view is in a state that consumes
// plain-letter key presses, so the shell keeps its single-letter
// bindings out of the way.
func (v *ResourceView) CapturesInput() bool {
	return v.mode == ModeForm || v.filterEditing || v.details != nil ||
		v.runner.Active() || v.grid.pageEditing
}

// Enabled reports whether the resource is available for the current
// session.
func (v *ResourceView) Enabled() bool { return v.desc.EnabledFor(v.sess) }

// Init triggers the initial load.
func (v *ResourceView) Init() tea.Cmd {
	return v.grid.Reload()
}

// Reset forces LIST mode, clears selection and unsaved input, resets the
// filter bar, and reloads the grid. Called whenever the active account
// changes.
func (v *ResourceView) Reset(sess Session) tea.Cmd {
	v.sess = sess
	v.mode = ModeList
	v.details = nil
	v.runner.Close()
	v.form.Reset()
	v.filterEditing = false
	v.filterInput.SetValue("")
	if !v.Enabled() {
		return nil
	}
	return v.grid.Reset("")
}

// SetSize propagates terminal dimensions.
func (v *ResourceView) SetSize(w, h int) {
	v.width, v.height = w, h
	v.grid.SetWidth(w)
}

// listObjects is the grid datasource.
func (v *ResourceView) listObjects(ctx context.Context, limit, offset int, filter string) (api.Page, error) {
	return v.client.List(ctx, v.desc.Collection, limit, offset, filter)
}

// resolveActions recomputes the action set for an object. Descriptor
// actions are decorated so the engine owns the delete lifecycle.
func (v *ResourceView) resolveActions(obj api.Object) []Action {
	var actions []Action
	if v.desc.Actions != nil {
		actions = v.desc.Actions(obj, v.sess)
	} else {
		actions = DefaultActions(obj, v.sess)
	}
	for i := range actions {
		if actions[i].ID == ActionDelete && actions[i].Invoke == nil && !actions[i].Disabled {
			actions[i].Confirm = &ConfirmSpec{
				Title: "Confirm deletion",
				Message: fmt.Sprintf("Are you sure you want to delete the %s %s?",
					v.desc.Singular, FormatObjectLabel(obj)),
				ButtonLabel: "Delete",
			}
			actions[i].Invoke = v.deleteHandler()
			actions[i].Refresh = v.resetAfterDelete
		}
	}
	return actions
}

// resetAfterDelete returns the grid to the first page, keeping the
// filter. The deleted row's page may not exist anymore.
func (v *ResourceView) resetAfterDelete() tea.Cmd {
	return v.grid.Reset(v.grid.Filter())
}

func (v *ResourceView) deleteHandler() ActionHandler {
	collection, singular := v.desc.Collection, v.desc.Singular
	return func(ctx context.Context, client api.Client, obj api.Object, _ map[string]string) (string, error) {
		if err := client.Delete(ctx, collection, ObjectID(obj)); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s deleted successfully: %s", singular, FormatObjectLabel(obj)), nil
	}
}

// Update is the view's event loop step. Async results are always handled;
// key events are routed to the top-most open surface.
func (v *ResourceView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case gridPageMsg:
		if msg.gridID == v.grid.ID {
			return v.grid.Update(msg)
		}
		if v.details != nil {
			return v.details.Update(msg)
		}
		return nil

	case SelectionChangedMsg:
		return nil // selection is read on demand

	case formPreparedMsg:
		return v.applyFormPrepared(msg)

	case savedMsg:
		return v.applySaved(msg)

	case detailsLoadedMsg:
		return v.applyDetailsLoaded(msg)

	case engineActionMsg:
		return v.handleEngineAction(msg)

	case FormSaveMsg:
		if msg.FormID == v.form.ID {
			return v.save(msg)
		}
		return v.forwardToRunners(msg)

	case FormCancelMsg:
		if msg.FormID == v.form.ID {
			v.showGridKeepFilter()
			return nil
		}
		return v.forwardToRunners(msg)

	case actionChosenMsg, actionDismissedMsg, confirmResultMsg,
		actionDoneMsg, actionFormReadyMsg, actionOptionsMsg, FieldChangedMsg:
		return v.forwardToRunners(msg)

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return nil
}

// forwardToRunners routes lifecycle messages to whichever runner is
// active: the details modal's, or the view's own.
func (v *ResourceView) forwardToRunners(msg tea.Msg) tea.Cmd {
	if v.details != nil && v.details.runner.Active() {
		return v.details.Update(msg)
	}
	return v.runner.Update(msg)
}

func (v *ResourceView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.details != nil {
		closed, cmd := v.details.HandleKey(msg)
		if closed {
			v.details = nil
		}
		return cmd
	}
	if v.runner.Active() {
		return v.runner.Update(msg)
	}
	if v.filterEditing {
		return v.updateFilterInput(msg)
	}
	if v.mode == ModeForm {
		return v.form.Update(msg)
	}

	switch msg.String() {
	case "a":
		return v.showActions()
	case "n", "+":
		return v.openAddForm()
	case "/":
		if v.desc.SupportsFilter {
			v.filterEditing = true
			v.filterInput.SetValue(v.grid.Filter())
			return v.filterInput.Focus()
		}
		return nil
	case "r":
		return v.grid.Refresh()
	}
	return v.grid.Update(msg)
}

func (v *ResourceView) updateFilterInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.filterEditing = false
		v.filterInput.Blur()
		return nil
	case "enter":
		v.filterEditing = false
		v.filterInput.Blur()
		// The only path by which a filter change takes effect.
		return v.grid.Reset(v.filterInput.Value())
	}
	var cmd tea.Cmd
	v.filterInput, cmd = v.filterInput.Update(msg)
	return cmd
}

// showActions resolves and presents the action set for the selection.
// No-op when nothing is selected.
func (v *ResourceView) showActions() tea.Cmd {
	actions := v.grid.ResolveActions()
	if actions == nil {
		return nil
	}
	v.runner.Open(actions, v.grid.Selected(), v.grid.Refresh)
	return nil
}

// openAddForm runs the add-preparation hook and transitions to FORM.
func (v *ResourceView) openAddForm() tea.Cmd {
	if v.desc.ReadOnly() {
		return nil
	}
	viewID := v.ID
	title := "Add " + v.desc.Singular
	prepare := v.desc.PrepareAddForm
	client, sess := v.client, v.sess
	return func() tea.Msg {
		var setup *FormSetup
		var err error
		if prepare != nil {
			setup, err = prepare(context.Background(), client, sess)
		}
		return formPreparedMsg{viewID: viewID, title: title, setup: setup, err: err}
	}
}

// openEditForm runs the edit-preparation hook (default: fetch by id).
// A fetch failure keeps the view in LIST and surfaces the error.
func (v *ResourceView) openEditForm(selected api.Object) tea.Cmd {
	if v.desc.ReadOnly() {
		return nil
	}
	viewID := v.ID
	id := ObjectID(selected)
	title := fmt.Sprintf("Edit %s: %s", v.desc.Singular, id)
	prepare := v.desc.PrepareEditForm
	client, sess, collection := v.client, v.sess, v.desc.Collection
	return func() tea.Msg {
		var obj api.Object
		var setup *FormSetup
		var err error
		if prepare != nil {
			obj, setup, err = prepare(context.Background(), client, sess, selected)
		} else {
			obj, err = client.Get(context.Background(), collection, id)
		}
		return formPreparedMsg{viewID: viewID, objectID: id, title: title, data: obj, setup: setup, err: err}
	}
}

func (v *ResourceView) applyFormPrepared(msg formPreparedMsg) tea.Cmd {
	if msg.viewID != v.ID {
		return nil
	}
	if msg.err != nil {
		return noticeCmd(errorNotice("Error preparing "+v.desc.Singular, msg.err))
	}
	v.form.Reset()
	v.form.Apply(msg.setup)
	v.form.SetTitle(msg.title)
	if msg.objectID != "" {
		v.form.Load(msg.objectID, msg.data)
	}
	v.mode = ModeForm
	return nil
}

// save shapes the collected values and issues the remote call. Payload
// shaping hooks are pure; all I/O happens in the returned command.
func (v *ResourceView) save(msg FormSaveMsg) tea.Cmd {
	viewID := v.ID
	client, desc := v.client, v.desc
	if msg.ObjectID == "" {
		payload := desc.createPayload(msg.Values)
		return func() tea.Msg {
			var obj api.Object
			var err error
			if desc.Create != nil {
				obj, err = desc.Create(context.Background(), client, payload)
			} else {
				obj, err = client.Create(context.Background(), desc.Collection, payload)
			}
			return savedMsg{viewID: viewID, object: obj, isCreate: true, err: err}
		}
	}

	payload := desc.updatePayload(msg.Values)
	id := msg.ObjectID
	return func() tea.Msg {
		obj, err := client.Update(context.Background(), desc.Collection, id, payload)
		return savedMsg{viewID: viewID, object: obj, err: err}
	}
}

func (v *ResourceView) applySaved(msg savedMsg) tea.Cmd {
	if msg.viewID != v.ID {
		return nil
	}
	if msg.err != nil {
		// Remote rejection: stay in FORM with entered values intact so
		// the user can correct and resubmit.
		title := "Error updating " + v.desc.Singular
		if msg.isCreate {
			title = "Error creating " + v.desc.Singular
		}
		return noticeCmd(errorNotice(title, msg.err))
	}

	notice := v.successNotice(msg)
	return tea.Batch(noticeCmd(notice), v.showGrid())
}

func (v *ResourceView) successNotice(msg savedMsg) Notice {
	if msg.isCreate && v.desc.CreatedNotice != nil {
		return v.desc.CreatedNotice(msg.object)
	}
	verb := "updated"
	if msg.isCreate {
		verb = "created"
	}
	return Notice{
		Title:    "Success",
		Message:  fmt.Sprintf("%s %s successfully: %s", v.desc.Singular, verb, FormatObjectLabel(msg.object)),
		Severity: SeveritySuccess,
		Timeout:  DefaultNoticeTimeout,
	}
}

// showGrid returns to LIST with a full grid reset (filter cleared).
func (v *ResourceView) showGrid() tea.Cmd {
	v.mode = ModeList
	v.form.Reset()
	v.filterInput.SetValue("")
	return v.grid.Reset("")
}

// showGridKeepFilter returns to LIST discarding unsaved input.
func (v *ResourceView) showGridKeepFilter() {
	v.mode = ModeList
	v.form.Reset()
}

func (v *ResourceView) handleEngineAction(msg engineActionMsg) tea.Cmd {
	switch msg.id {
	case ActionEdit:
		return v.openEditForm(msg.target)
	case ActionDetails:
		return v.openDetails(msg.target)
	}
	return nil
}

// openDetails always re-fetches the full object for freshness.
func (v *ResourceView) openDetails(selected api.Object) tea.Cmd {
	viewID := v.ID
	client, collection := v.client, v.desc.Collection
	id := ObjectID(selected)
	return func() tea.Msg {
		obj, err := client.Get(context.Background(), collection, id)
		return detailsLoadedMsg{viewID: viewID, object: obj, err: err}
	}
}

func (v *ResourceView) applyDetailsLoaded(msg detailsLoadedMsg) tea.Cmd {
	if msg.viewID != v.ID {
		return nil
	}
	if msg.err != nil {
		return noticeCmd(errorNotice("Error retrieving "+v.desc.Singular, msg.err))
	}
	var panels []DetailPanel
	if v.desc.DetailPanels != nil {
		panels = v.desc.DetailPanels(msg.object, v.sess)
	}
	title := fmt.Sprintf("%s %s details", v.desc.Singular, FormatObjectLabel(msg.object))
	details, cmd := NewDetailsView(title, msg.object, panels, v.client, v.sess)
	v.details = details
	return cmd
}

// FormatObjectLabel renders an object as "id - name", or the placeholder
// when the object is absent.
func FormatObjectLabel(obj api.Object) string {
	if len(obj) == 0 {
		return placeholder
	}
	return objField(obj, "id") + " - " + objField(obj, "name")
}
