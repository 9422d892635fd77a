package core

import (
	"errors"
	"testing"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int
		pageSize   int
		want       int
		wantErr    bool
	}{
		{"exact multiple", 9, 3, 3, false},
		{"remainder adds a page", 10, 3, 4, false},
		{"fewer items than one page", 2, 5, 1, false},
		{"no items", 0, 5, 0, false},
		{"zero page size", 10, 0, 0, true},
		{"negative page size", 10, -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TotalPages(tt.totalItems, tt.pageSize)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPageSize) {
					t.Fatalf("expected ErrInvalidPageSize, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.totalItems, tt.pageSize, got, tt.want)
			}
		})
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name                 string
		page, size, total    int
		wantStart, wantEnd   int
	}{
		{"first page", 1, 3, 10, 0, 3},
		{"middle page", 2, 3, 10, 3, 6},
		{"short last page", 4, 3, 10, 9, 10},
		{"page past the end", 5, 3, 10, 0, 0},
		{"page zero", 0, 3, 10, 0, 0},
		{"empty collection", 1, 3, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := PageBounds(tt.page, tt.size, tt.total)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("PageBounds(%d, %d, %d) = [%d, %d), want [%d, %d)",
					tt.page, tt.size, tt.total, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}

	if _, _, err := PageBounds(1, 0, 10); !errors.Is(err, ErrInvalidPageSize) {
		t.Errorf("expected ErrInvalidPageSize for zero page size, got %v", err)
	}
}

func TestPaginate(t *testing.T) {
	all := sampleTransactions()

	page1, err := Paginate(all, 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page1) != 3 {
		t.Errorf("page 1 has %d items, want 3", len(page1))
	}

	page2, err := Paginate(all, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(page2), []string{"t4"}) {
		t.Errorf("page 2 = %v, want [t4]", ids(page2))
	}

	beyond, err := Paginate(all, 3, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(beyond) != 0 {
		t.Errorf("page past the end should be empty, got %v", ids(beyond))
	}
}
