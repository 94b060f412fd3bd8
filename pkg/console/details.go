package console

import (
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincon/fincon/pkg/api"
)

// detailPane is one sub-grid inside the details modal.
type detailPane struct {
	panel DetailPanel
	grid  *DataGrid
}

// DetailsView is the modal showing the raw object alongside the
// resource-specific detail panels. Sub-grid actions run through the
// modal's own runner so the list view underneath stays untouched.
type DetailsView struct {
	title  string
	object api.Object
	sess   Session

	panes  []detailPane
	active int

	runner *ActionRunner
}

// NewDetailsView builds the modal and returns the initial load command
// for its sub-grids.
func NewDetailsView(title string, object api.Object, panels []DetailPanel, client api.Client, sess Session) (*DetailsView, tea.Cmd) {
	d := &DetailsView{
		title:  title,
		object: object,
		sess:   sess,
		runner: NewActionRunner(client),
	}
	var cmds []tea.Cmd
	for _, panel := range panels {
		resolver := panel.Actions
		var gridResolver func(api.Object) []Action
		if resolver != nil {
			gridResolver = func(obj api.Object) []Action { return resolver(obj, sess) }
		}
		grid := NewDataGrid(panel.Columns, panel.Datasource, gridResolver, panel.Paginated)
		d.panes = append(d.panes, detailPane{panel: panel, grid: grid})
		cmds = append(cmds, grid.Reload())
	}
	return d, tea.Batch(cmds...)
}

// Title returns the modal title.
func (d *DetailsView) Title() string { return d.title }

// Object returns the displayed object.
func (d *DetailsView) Object() api.Object { return d.object }

// ObjectJSON renders the object as indented JSON for the raw pane.
func (d *DetailsView) ObjectJSON() string {
	out, err := json.MarshalIndent(d.object, "", "  ")
	if err != nil {
		return placeholder
	}
	return string(out)
}

// Panes exposes the sub-grids for rendering.
func (d *DetailsView) Panes() []*DataGrid {
	grids := make([]*DataGrid, len(d.panes))
	for i := range d.panes {
		grids[i] = d.panes[i].grid
	}
	return grids
}

// PaneTitles returns the panel titles in pane order.
func (d *DetailsView) PaneTitles() []string {
	titles := make([]string, len(d.panes))
	for i := range d.panes {
		titles[i] = d.panes[i].panel.Title
	}
	return titles
}

// Active returns the index of the focused pane.
func (d *DetailsView) Active() int { return d.active }

// Runner exposes the modal's action runner for rendering.
func (d *DetailsView) Runner() *ActionRunner { return d.runner }

// Update routes async sub-grid pages and runner lifecycle messages.
func (d *DetailsView) Update(msg tea.Msg) tea.Cmd {
	if page, ok := msg.(gridPageMsg); ok {
		for i := range d.panes {
			if d.panes[i].grid.ID == page.gridID {
				return d.panes[i].grid.Update(page)
			}
		}
		return nil
	}
	return d.runner.Update(msg)
}

// HandleKey processes a key press. The returned closed flag tells the
// owning view to drop the modal.
func (d *DetailsView) HandleKey(msg tea.KeyMsg) (closed bool, cmd tea.Cmd) {
	if d.runner.Active() {
		return false, d.runner.Update(msg)
	}

	switch msg.String() {
	case "esc", "q":
		return true, nil
	case "tab":
		if len(d.panes) > 0 {
			d.active = (d.active + 1) % len(d.panes)
		}
		return false, nil
	case "a":
		return false, d.showPaneActions()
	case "r":
		if pane := d.activePane(); pane != nil {
			return false, pane.grid.Refresh()
		}
		return false, nil
	}

	if pane := d.activePane(); pane != nil {
		return false, pane.grid.Update(msg)
	}
	return false, nil
}

func (d *DetailsView) activePane() *detailPane {
	if d.active < 0 || d.active >= len(d.panes) {
		return nil
	}
	return &d.panes[d.active]
}

func (d *DetailsView) showPaneActions() tea.Cmd {
	pane := d.activePane()
	if pane == nil {
		return nil
	}
	actions := pane.grid.ResolveActions()
	if actions == nil {
		return nil
	}
	d.runner.Open(actions, pane.grid.Selected(), pane.grid.Refresh)
	return nil
}
