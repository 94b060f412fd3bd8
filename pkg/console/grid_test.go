package console_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincon/fincon/pkg/api"
	"github.com/fincon/fincon/pkg/api/apitest"
	"github.com/fincon/fincon/pkg/console"
)

var testColumns = []console.ColumnDescriptor{
	{Title: "ID", FieldPath: "id"},
	{Title: "Name", FieldPath: "name"},
}

// recordingSource is a datasource that records every request it serves.
type recordingSource struct {
	mu       sync.Mutex
	requests []listRequest
	total    int
	err      error
}

type listRequest struct {
	limit, offset int
	filter        string
}

func (s *recordingSource) fetch(_ context.Context, limit, offset int, filter string) (api.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, listRequest{limit: limit, offset: offset, filter: filter})
	if s.err != nil {
		return api.Page{}, s.err
	}
	count := min(limit, s.total-offset)
	if limit == 0 {
		count = s.total
	}
	items := make([]api.Object, 0, count)
	for _, obj := range apitest.Objects(s.total)[offset : offset+count] {
		items = append(items, obj)
	}
	return apitest.PageOf(s.total, limit, offset, items...), nil
}

func (s *recordingSource) last() listRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

func newTestGrid(total int) (*console.DataGrid, *recordingSource) {
	src := &recordingSource{total: total}
	grid := console.NewDataGrid(testColumns, src.fetch, nil, true)
	return grid, src
}

func TestGridReloadPopulatesRows(t *testing.T) {
	grid, src := newTestGrid(25)
	pump(t, grid, grid.Reload())

	if len(grid.Rows()) != 10 {
		t.Fatalf("expected one page of 10 rows, got %d", len(grid.Rows()))
	}
	if grid.Paginator().TotalRows != 25 {
		t.Fatalf("total not applied: %d", grid.Paginator().TotalRows)
	}
	if got := src.last(); got.limit != 10 || got.offset != 0 {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestGridReloadClearsSelection(t *testing.T) {
	grid, _ := newTestGrid(25)
	pump(t, grid, grid.Reload())

	press(t, grid, "down", "enter")
	if grid.Selected() == nil {
		t.Fatal("expected a selection")
	}

	msgs := pump(t, grid, grid.Reload())
	if grid.Selected() != nil {
		t.Fatal("reload must clear the selection")
	}
	found := false
	for _, msg := range msgs {
		if sel, ok := msg.(console.SelectionChangedMsg); ok && sel.Object == nil {
			found = true
		}
	}
	if !found {
		t.Fatal("cleared selection must be announced")
	}
}

func TestGridLastRequesterWins(t *testing.T) {
	grid, _ := newTestGrid(50)
	pump(t, grid, grid.Reload())

	// Two in-flight reloads completing out of order: the older result
	// arrives after the newer one.
	press(t, grid, "right")
	first := grid.Reload()
	second := grid.Reset("eq(status,active)")

	staleMsg := first()
	pump(t, grid, second)
	if got := grid.Filter(); got != "eq(status,active)" {
		t.Fatalf("filter not applied: %q", got)
	}

	pump(t, grid, func() tea.Msg { return staleMsg })
	if got := grid.Rows()[0]["id"]; got != "obj-1" {
		t.Fatalf("stale reload result must not overwrite newer data, first row %v", got)
	}
	if grid.Paginator().Offset != 0 {
		t.Fatalf("reset should have pinned offset 0, got %d", grid.Paginator().Offset)
	}
}

func TestGridErrorKeepsPriorRows(t *testing.T) {
	grid, src := newTestGrid(25)
	pump(t, grid, grid.Reload())
	rows := len(grid.Rows())

	src.err = errors.New("backend down")
	msgs := pump(t, grid, grid.Refresh())

	if len(grid.Rows()) != rows {
		t.Fatal("a failed reload must keep the previous rows")
	}
	if !hasNotice(msgs, console.SeverityError) {
		t.Fatal("a failed reload must surface an error notice")
	}
}

func TestGridPageNavigationKeys(t *testing.T) {
	grid, src := newTestGrid(50)
	pump(t, grid, grid.Reload())

	press(t, grid, "right")
	if got := src.last(); got.offset != 10 {
		t.Fatalf("right should request offset 10, got %d", got.offset)
	}
	press(t, grid, "left")
	if got := src.last(); got.offset != 0 {
		t.Fatalf("left should request offset 0, got %d", got.offset)
	}

	requests := len(src.requests)
	press(t, grid, "left")
	if len(src.requests) != requests {
		t.Fatal("prev on the first page must not issue a request")
	}
}

func TestGridPageEntryRejectsInvalid(t *testing.T) {
	grid, src := newTestGrid(50)
	pump(t, grid, grid.Reload())
	requests := len(src.requests)

	msgs := press(t, grid, "g", "9", "9", "enter")
	if len(src.requests) != requests {
		t.Fatal("an out-of-range page entry must not navigate")
	}
	if !hasNotice(msgs, console.SeverityError) {
		t.Fatal("expected a validation notice")
	}

	press(t, grid, "g", "3", "enter")
	if got := src.last(); got.offset != 20 {
		t.Fatalf("page 3 should request offset 20, got %d", got.offset)
	}
}

func TestGridCyclePageSizeResetsToFirstPage(t *testing.T) {
	grid, src := newTestGrid(100)
	pump(t, grid, grid.Reload())
	press(t, grid, "right")

	press(t, grid, "]")
	if got := src.last(); got.limit != 25 || got.offset != 0 {
		t.Fatalf("cycling the page size should request {25, 0}, got %+v", got)
	}
}

func TestGridUnpaginatedRequestsEverything(t *testing.T) {
	src := &recordingSource{total: 3}
	grid := console.NewDataGrid(testColumns, src.fetch, nil, false)
	pump(t, grid, grid.Reload())

	if got := src.last(); got.limit != 0 || got.offset != 0 {
		t.Fatalf("unpaginated grids must request {0, 0}, got %+v", got)
	}
	if len(grid.Rows()) != 3 {
		t.Fatalf("got %d rows", len(grid.Rows()))
	}
}

func hasNotice(msgs []tea.Msg, severity console.Severity) bool {
	for _, msg := range msgs {
		if n, ok := msg.(console.NoticeMsg); ok && n.Severity == severity {
			return true
		}
	}
	return false
}
