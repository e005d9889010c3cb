package paginator

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		count int
		raw   string
		want  int
	}{
		{"missing", 13, "", 1},
		{"first", 13, "1", 1},
		{"second", 13, "2", 2},
		{"not a number", 13, "abc", 1},
		{"beyond last", 13, "99", 2},
		{"overflows int", 13, "99999999999999999999", 2},
		{"overflows int negative", 13, "-99999999999999999999", 2},
		{"zero", 13, "0", 2},
		{"negative", 13, "-3", 2},
		{"padded", 13, " 2 ", 2},
		{"empty collection", 0, "5", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.count, 10)
			if got := p.Resolve(tt.raw); got != tt.want {
				t.Errorf("Resolve(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNumPages(t *testing.T) {
	tests := []struct {
		count, perPage, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{13, 10, 2},
		{30, 10, 3},
		{5, 0, 1},
	}
	for _, tt := range tests {
		if got := New(tt.count, tt.perPage).NumPages(); got != tt.want {
			t.Errorf("New(%d, %d).NumPages() = %d, want %d", tt.count, tt.perPage, got, tt.want)
		}
	}
}

func TestBounds(t *testing.T) {
	p := New(13, 10)
	offset, limit := p.Bounds(2)
	if offset != 10 || limit != 10 {
		t.Fatalf("Bounds(2) = %d, %d; want 10, 10", offset, limit)
	}
}

func TestPage(t *testing.T) {
	p := New(13, 10)
	last := NewPage([]int{11, 12, 13}, 2, p)

	if !last.HasPrevious() || last.HasNext() {
		t.Errorf("last page: HasPrevious=%v HasNext=%v", last.HasPrevious(), last.HasNext())
	}
	if last.PreviousPageNumber() != 1 {
		t.Errorf("PreviousPageNumber = %d, want 1", last.PreviousPageNumber())
	}
	if last.StartIndex() != 11 || last.EndIndex() != 13 {
		t.Errorf("indexes = %d..%d, want 11..13", last.StartIndex(), last.EndIndex())
	}
	if got := last.PageRange(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("PageRange = %v", got)
	}

	empty := NewPage[int](nil, 1, New(0, 10))
	if empty.HasOtherPages() || empty.StartIndex() != 0 || empty.Len() != 0 {
		t.Errorf("empty page: other=%v start=%d len=%d", empty.HasOtherPages(), empty.StartIndex(), empty.Len())
	}
}
