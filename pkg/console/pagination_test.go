package console_test

import (
	"testing"

	"github.com/fincon/fincon/pkg/console"
)

func TestPaginatorRequestMapsOffsetAndLimit(t *testing.T) {
	p := console.NewPaginator()
	p.TotalRows = 95
	p.Offset = 20

	limit, offset := p.Request()
	if limit != console.DefaultPageSize || offset != 20 {
		t.Fatalf("got limit=%d offset=%d", limit, offset)
	}
	if p.Page() != 3 {
		t.Fatalf("expected page 3, got %d", p.Page())
	}
	if p.PageCount() != 10 {
		t.Fatalf("expected 10 pages, got %d", p.PageCount())
	}
}

func TestPaginatorPageCountNeverZero(t *testing.T) {
	p := console.NewPaginator()
	if p.PageCount() != 1 {
		t.Fatalf("empty collection should still report one page, got %d", p.PageCount())
	}
}

func TestPaginatorBoundaries(t *testing.T) {
	p := console.NewPaginator()
	p.TotalRows = 25 // 3 pages of 10

	if !p.PrevDisabled() {
		t.Fatal("prev must be disabled on the first page")
	}
	if p.Prev() {
		t.Fatal("prev on the first page must not move")
	}

	if !p.Next() || p.Offset != 10 {
		t.Fatalf("next should move to offset 10, got %d", p.Offset)
	}
	if !p.Next() || p.Offset != 20 {
		t.Fatalf("next should move to offset 20, got %d", p.Offset)
	}
	if !p.NextDisabled() {
		t.Fatal("next must be disabled on the last page")
	}
	if p.Next() {
		t.Fatal("next on the last page must not move")
	}
	if p.Offset != 20 {
		t.Fatalf("offset changed by a disabled move: %d", p.Offset)
	}
}

func TestPaginatorSetPageSizeResetsOffset(t *testing.T) {
	p := console.NewPaginator()
	p.TotalRows = 100
	p.Offset = 40

	p.SetPageSize(25)
	if p.Offset != 0 {
		t.Fatalf("page size change must reset to the first page, offset=%d", p.Offset)
	}
	if p.PageSize != 25 {
		t.Fatalf("page size not applied: %d", p.PageSize)
	}
}

func TestPaginatorCyclePageSizeWraps(t *testing.T) {
	p := console.NewPaginator()
	for i := 0; i < len(console.PageSizes); i++ {
		p.CyclePageSize()
	}
	if p.PageSize != console.DefaultPageSize {
		t.Fatalf("cycling through all sizes should wrap, got %d", p.PageSize)
	}
}

func TestPaginatorGoToPage(t *testing.T) {
	p := console.NewPaginator()
	p.TotalRows = 95

	if err := p.GoToPage(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Offset != 40 {
		t.Fatalf("page 5 should start at offset 40, got %d", p.Offset)
	}

	if err := p.GoToPage(11); err == nil {
		t.Fatal("out-of-range page must be rejected")
	}
	if p.Offset != 40 {
		t.Fatalf("rejected navigation must not move, offset=%d", p.Offset)
	}
	if err := p.GoToPage(0); err == nil {
		t.Fatal("page 0 must be rejected")
	}
}

func TestPaginatorStatus(t *testing.T) {
	p := console.NewPaginator()
	p.TotalRows = 95
	p.Offset = 90

	if got := p.Status(); got != "91-95 of 95 rows" {
		t.Fatalf("unexpected status %q", got)
	}
}
