package pager

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name              string
		total, size, page int
		want              Page
	}{
		{"first page", 23, 10, 1, Page{Number: 1, Size: 10, Pages: 3, Total: 23, Start: 0, End: 10}},
		{"last partial", 23, 10, 3, Page{Number: 3, Size: 10, Pages: 3, Total: 23, Start: 20, End: 23}},
		{"clamped high", 23, 10, 9, Page{Number: 3, Size: 10, Pages: 3, Total: 23, Start: 20, End: 23}},
		{"clamped low", 23, 5, 0, Page{Number: 1, Size: 5, Pages: 5, Total: 23, Start: 0, End: 5}},
		{"all", 23, All, 4, Page{Number: 1, Size: All, Pages: 1, Total: 23, Start: 0, End: 23}},
		{"empty", 0, 10, 2, Page{Number: 1, Size: 10, Pages: 1, Total: 0, Start: 0, End: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Paginate(tt.total, tt.size, tt.page)); diff != "" {
				t.Errorf("Paginate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShowing(t *testing.T) {
	from, to, of := Paginate(23, 10, 3).Showing()
	if from != 21 || to != 23 || of != 23 {
		t.Errorf("Showing = %d, %d, %d; want 21, 23, 23", from, to, of)
	}
	from, to, of = Paginate(0, 10, 1).Showing()
	if from != 0 || to != 0 || of != 0 {
		t.Errorf("empty Showing = %d, %d, %d", from, to, of)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		current, pages int
		want           []int
	}{
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, Ellipsis, 10}},
		{5, 10, []int{1, Ellipsis, 4, 5, 6, Ellipsis, 10}},
		{3, 10, []int{1, 2, 3, 4, Ellipsis, 10}},
		{10, 10, []int{1, Ellipsis, 9, 10}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Window(tt.current, tt.pages)); diff != "" {
			t.Errorf("Window(%d, %d) mismatch (-want +got):\n%s", tt.current, tt.pages, diff)
		}
	}
}

func TestParseSize(t *testing.T) {
	for in, want := range map[string]int{"": 10, "5": 5, "100": 100, "ALL": All} {
		got, err := ParseSize(in)
		if err != nil || got != want {
			t.Errorf("ParseSize(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, bad := range []string{"7", "x"} {
		if _, err := ParseSize(bad); err == nil {
			t.Errorf("ParseSize(%q) succeeded, want error", bad)
		}
	}
	if NextSize(100) != All || NextSize(All) != 5 {
		t.Errorf("NextSize cycle broken")
	}
}
