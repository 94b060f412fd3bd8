package console

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/fincon/fincon/pkg/api"
)

// gridPageMsg delivers the result of a datasource fetch. Seq identifies
// the originating request so stale completions can be discarded.
type gridPageMsg struct {
	gridID string
	seq    uint64
	page   api.Page
	err    error
}

// SelectionChangedMsg is raised whenever a grid's selection changes.
// Object is nil when the selection was cleared.
type SelectionChangedMsg struct {
	GridID string
	Object api.Object
}

// NoticeMsg asks the application shell to display a notification.
type NoticeMsg Notice

// DataGrid renders pages of objects using column descriptors and owns the
// selection state. At most one object is selected at a time.
type DataGrid struct {
	ID string

	columns    []ColumnDescriptor
	datasource Datasource
	resolver   func(obj api.Object) []Action
	paginated  bool

	paginator Paginator
	filter    string

	rows     []api.Object
	objects  map[string]api.Object
	cursor   int
	selected api.Object

	// seq numbers issued reloads; only the newest request may publish.
	seq     uint64
	loading bool

	pageEntry   textinput.Model
	pageEditing bool

	width int
}

// NewDataGrid constructs a grid. A nil resolver disables the actions menu;
// paginated=false makes the grid call its datasource once for all items.
func NewDataGrid(columns []ColumnDescriptor, datasource Datasource, resolver func(api.Object) []Action, paginated bool) *DataGrid {
	entry := textinput.New()
	entry.Prompt = "page: "
	entry.CharLimit = 4
	entry.Width = 6
	return &DataGrid{
		ID:         uuid.NewString(),
		columns:    columns,
		datasource: datasource,
		resolver:   resolver,
		paginated:  paginated,
		paginator:  NewPaginator(),
		objects:    map[string]api.Object{},
		pageEntry:  entry,
		width:      120,
	}
}

// Reload fetches the current page. The returned command supersedes any
// in-flight reload: when its result arrives it only takes effect if no
// newer reload was issued in the meantime (last requester wins).
func (g *DataGrid) Reload() tea.Cmd {
	g.seq++
	g.loading = true

	seq := g.seq
	limit, offset := 0, 0
	if g.paginated {
		limit, offset = g.paginator.Request()
	}
	filter := g.filter
	id := g.ID
	ds := g.datasource

	return func() tea.Msg {
		page, err := ds(context.Background(), limit, offset, filter)
		return gridPageMsg{gridID: id, seq: seq, page: page, err: err}
	}
}

// Reset stores a new filter expression, resets pagination to the first
// page, and reloads. This is the only path by which a filter change takes
// effect.
func (g *DataGrid) Reset(filter string) tea.Cmd {
	g.filter = filter
	g.paginator.Offset = 0
	return g.Reload()
}

// Refresh reloads the current page without touching filter or offset.
func (g *DataGrid) Refresh() tea.Cmd {
	return g.Reload()
}

// Filter returns the active filter expression.
func (g *DataGrid) Filter() string { return g.filter }

// Selected returns the selected object, or nil.
func (g *DataGrid) Selected() api.Object { return g.selected }

// Rows returns the currently visible row objects.
func (g *DataGrid) Rows() []api.Object { return g.rows }

// Loading reports whether a reload is in flight.
func (g *DataGrid) Loading() bool { return g.loading }

// Paginator exposes the pagination state for rendering and tests.
func (g *DataGrid) Paginator() Paginator { return g.paginator }

// ResolveActions resolves the action set for the selected object. Returns
// nil when nothing is selected or the grid has no action resolver.
func (g *DataGrid) ResolveActions() []Action {
	if g.selected == nil || g.resolver == nil {
		return nil
	}
	return g.resolver(g.selected)
}

// Cached returns the full object cached from the last load, keyed by id.
func (g *DataGrid) Cached(id string) (api.Object, bool) {
	obj, ok := g.objects[id]
	return obj, ok
}

// SetWidth adjusts the rendered table width.
func (g *DataGrid) SetWidth(w int) { g.width = w }

// Update handles grid messages and key events. It returns commands that
// publish SelectionChangedMsg and NoticeMsg for the owning view.
func (g *DataGrid) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case gridPageMsg:
		return g.applyPage(msg)
	case tea.KeyMsg:
		if g.pageEditing {
			return g.updatePageEntry(msg)
		}
		return g.handleKey(msg)
	}
	return nil
}

func (g *DataGrid) applyPage(msg gridPageMsg) tea.Cmd {
	if msg.gridID != g.ID {
		return nil
	}
	if msg.seq != g.seq {
		// A newer reload was issued after this one; its result is
		// authoritative and this one is discarded.
		return nil
	}
	g.loading = false
	if msg.err != nil {
		// Prior rows stay untouched; the failure is surfaced transiently.
		return noticeCmd(Notice{
			Title:    "Error getting data",
			Message:  msg.err.Error(),
			Severity: SeverityError,
			Timeout:  DefaultNoticeTimeout,
		})
	}

	g.paginator.TotalRows = msg.page.Total
	if !g.paginated {
		g.paginator.TotalRows = len(msg.page.Items)
	}
	g.rows = msg.page.Items
	g.objects = make(map[string]api.Object, len(msg.page.Items))
	for _, obj := range msg.page.Items {
		g.objects[ObjectID(obj)] = obj
	}
	g.cursor = 0
	g.selected = nil
	return selectionCmd(g.ID, nil)
}

func (g *DataGrid) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if g.cursor > 0 {
			g.cursor--
		}
	case "down", "j":
		if g.cursor < len(g.rows)-1 {
			g.cursor++
		}
	case "enter":
		if g.cursor < len(g.rows) {
			g.selected = g.rows[g.cursor]
			return selectionCmd(g.ID, g.selected)
		}
	case "left", "h":
		if g.paginated && g.paginator.Prev() {
			return g.Reload()
		}
	case "right", "l":
		if g.paginated && g.paginator.Next() {
			return g.Reload()
		}
	case "]":
		if g.paginated {
			g.paginator.CyclePageSize()
			return g.Reload()
		}
	case "g":
		if g.paginated {
			g.pageEditing = true
			g.pageEntry.SetValue("")
			return g.pageEntry.Focus()
		}
	}
	return nil
}

func (g *DataGrid) updatePageEntry(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		g.pageEditing = false
		g.pageEntry.Blur()
		return nil
	case "enter":
		g.pageEditing = false
		g.pageEntry.Blur()
		return g.goToEnteredPage(g.pageEntry.Value())
	}
	var cmd tea.Cmd
	g.pageEntry, cmd = g.pageEntry.Update(msg)
	return cmd
}

// goToEnteredPage validates a page-number entry. Out-of-range entries are
// rejected with a validation notice and issue no navigation request.
func (g *DataGrid) goToEnteredPage(value string) tea.Cmd {
	page, err := strconv.Atoi(value)
	if err != nil {
		return noticeCmd(Notice{
			Title:    "Error",
			Message:  "page must be a positive integer",
			Severity: SeverityError,
			Timeout:  DefaultNoticeTimeout,
		})
	}
	if err := g.paginator.GoToPage(page); err != nil {
		return noticeCmd(Notice{
			Title:    "Error",
			Message:  err.Error(),
			Severity: SeverityError,
			Timeout:  DefaultNoticeTimeout,
		})
	}
	return g.Reload()
}

func selectionCmd(gridID string, obj api.Object) tea.Cmd {
	return func() tea.Msg {
		return SelectionChangedMsg{GridID: gridID, Object: obj}
	}
}

func noticeCmd(n Notice) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg(n)
	}
}
