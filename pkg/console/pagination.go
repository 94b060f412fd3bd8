package console

import "fmt"

// PageSizes are the selectable rows-per-page values.
var PageSizes = []int{5, 10, 25, 50, 100}

// DefaultPageSize is the initial rows-per-page.
const DefaultPageSize = 10

// Paginator owns the offset/page-size/total state of one grid. It is
// stateless with respect to data: the grid sets TotalRows after each load
// and asks the paginator for the next {limit, offset} request.
type Paginator struct {
	Offset    int
	PageSize  int
	TotalRows int
}

// NewPaginator returns a paginator at offset 0 with the default page size.
func NewPaginator() Paginator {
	return Paginator{PageSize: DefaultPageSize}
}

// Request is the {limit, offset} pair for the current position.
func (p Paginator) Request() (limit, offset int) {
	return p.PageSize, p.Offset
}

// Page is the current 1-based page number.
func (p Paginator) Page() int {
	return p.Offset/p.PageSize + 1
}

// PageCount is the total number of pages, at least 1.
func (p Paginator) PageCount() int {
	if p.TotalRows <= 0 {
		return 1
	}
	return (p.TotalRows + p.PageSize - 1) / p.PageSize
}

// PrevDisabled reports whether backward navigation is possible.
func (p Paginator) PrevDisabled() bool {
	return p.Offset == 0
}

// NextDisabled reports whether forward navigation is possible.
func (p Paginator) NextDisabled() bool {
	return p.Offset+p.PageSize >= p.TotalRows
}

// Next advances one page. Returns false without moving when already on the
// last page.
func (p *Paginator) Next() bool {
	if p.NextDisabled() {
		return false
	}
	p.Offset += p.PageSize
	return true
}

// Prev moves back one page. Returns false without moving when already on
// the first page.
func (p *Paginator) Prev() bool {
	if p.PrevDisabled() {
		return false
	}
	p.Offset -= p.PageSize
	return true
}

// SetPageSize changes the rows-per-page and resets the offset to 0.
func (p *Paginator) SetPageSize(size int) {
	p.PageSize = size
	p.Offset = 0
}

// CyclePageSize advances to the next selectable page size, wrapping
// around, and resets the offset.
func (p *Paginator) CyclePageSize() {
	for i, size := range PageSizes {
		if size == p.PageSize {
			p.SetPageSize(PageSizes[(i+1)%len(PageSizes)])
			return
		}
	}
	p.SetPageSize(DefaultPageSize)
}

// GoToPage jumps to a 1-based page number. An entry that is not a positive
// integer within the page count is rejected with a validation error and
// does not move the paginator.
func (p *Paginator) GoToPage(page int) error {
	if page < 1 {
		return fmt.Errorf("page must be a positive integer")
	}
	if page > p.PageCount() {
		return fmt.Errorf("page cannot exceed the total of %d pages", p.PageCount())
	}
	p.Offset = (page - 1) * p.PageSize
	return nil
}

// Status renders the "first-last of total rows" counter.
func (p Paginator) Status() string {
	if p.TotalRows == 0 {
		return "0-0 of 0 rows"
	}
	first := p.Offset + 1
	last := min(p.Offset+p.PageSize, p.TotalRows)
	return fmt.Sprintf("%d-%d of %d rows", first, last, p.TotalRows)
}
