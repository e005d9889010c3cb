// Package paginator slices an ordered collection into fixed-size pages.
//
// Page numbers are resolved leniently: a missing or malformed number yields
// the first page and a number outside the valid range yields the last one.
package paginator

import (
	"errors"
	"strconv"
	"strings"
)

// DefaultPerPage is used when a non-positive page size is requested.
const DefaultPerPage = 10

// Paginator describes how Count items split into pages of PerPage.
type Paginator struct {
	Count   int
	PerPage int
}

// New creates a Paginator for count items.
func New(count, perPage int) Paginator {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if count < 0 {
		count = 0
	}
	return Paginator{Count: count, PerPage: perPage}
}

// NumPages is the number of pages. An empty collection still has one page.
func (p Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return (p.Count + p.PerPage - 1) / p.PerPage
}

// Resolve turns a raw page parameter into a valid page number.
func (p Paginator) Resolve(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) {
		return p.NumPages()
	}
	if err != nil {
		return 1
	}
	if n < 1 || n > p.NumPages() {
		return p.NumPages()
	}
	return n
}

// Bounds returns the offset and limit of page number n.
func (p Paginator) Bounds(n int) (offset, limit int) {
	return (n - 1) * p.PerPage, p.PerPage
}

// Page is one resolved page of items.
type Page[T any] struct {
	Items     []T
	Number    int
	Paginator Paginator
}

// NewPage wraps the items fetched for page number n.
func NewPage[T any](items []T, n int, p Paginator) *Page[T] {
	return &Page[T]{Items: items, Number: n, Paginator: p}
}

func (pg *Page[T]) Len() int          { return len(pg.Items) }
func (pg *Page[T]) NumPages() int     { return pg.Paginator.NumPages() }
func (pg *Page[T]) Count() int        { return pg.Paginator.Count }
func (pg *Page[T]) HasNext() bool     { return pg.Number < pg.NumPages() }
func (pg *Page[T]) HasPrevious() bool { return pg.Number > 1 }
func (pg *Page[T]) HasOtherPages() bool {
	return pg.HasNext() || pg.HasPrevious()
}
func (pg *Page[T]) NextPageNumber() int     { return pg.Number + 1 }
func (pg *Page[T]) PreviousPageNumber() int { return pg.Number - 1 }

// StartIndex is the 1-based position of the first item, 0 for an empty page.
func (pg *Page[T]) StartIndex() int {
	if pg.Paginator.Count == 0 {
		return 0
	}
	return (pg.Number-1)*pg.Paginator.PerPage + 1
}

// EndIndex is the 1-based position of the last item on the page.
func (pg *Page[T]) EndIndex() int {
	if pg.Paginator.Count == 0 {
		return 0
	}
	return pg.StartIndex() + len(pg.Items) - 1
}

// PageRange lists every page number, for rendering links.
func (pg *Page[T]) PageRange() []int {
	r := make([]int, pg.NumPages())
	for i := range r {
		r[i] = i + 1
	}
	return r
}
