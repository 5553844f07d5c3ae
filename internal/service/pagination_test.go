package service

import (
	"math"
	"testing"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		perPage int
		total   int64
		want    Pagination
	}{
		{
			name: "last page of 45 rows", page: 3, perPage: 20, total: 45,
			want: Pagination{CurrentPage: 3, PerPage: 20, Total: 45, TotalPages: 3, HasNext: false, HasPrev: true},
		},
		{
			name: "first page", page: 1, perPage: 20, total: 45,
			want: Pagination{CurrentPage: 1, PerPage: 20, Total: 45, TotalPages: 3, HasNext: true, HasPrev: false},
		},
		{
			name: "empty result", page: 1, perPage: 10, total: 0,
			want: Pagination{CurrentPage: 1, PerPage: 10, Total: 0, TotalPages: 0, HasNext: false, HasPrev: false},
		},
		{
			name: "page below one", page: -2, perPage: 10, total: 5,
			want: Pagination{CurrentPage: 1, PerPage: 10, Total: 5, TotalPages: 1, HasNext: false, HasPrev: false},
		},
		{
			name: "huge page clamped", page: math.MaxInt, perPage: 20, total: 45,
			want: Pagination{CurrentPage: math.MaxInt32, PerPage: 20, Total: 45, TotalPages: 3, HasNext: false, HasPrev: true},
		},
		{
			name: "per page capped", page: 1, perPage: 1000, total: 250,
			want: Pagination{CurrentPage: 1, PerPage: 100, Total: 250, TotalPages: 3, HasNext: true, HasPrev: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPagination(tt.page, tt.perPage, tt.total)
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestPaginationOffsetStaysPositive(t *testing.T) {
	p := NewPagination(math.MaxInt, MaxPerPage, 10)
	if got, want := p.offset(), (math.MaxInt32-1)*MaxPerPage; got != want || got < 0 {
		t.Fatalf("expected offset %d, got %d", want, got)
	}
}
