// Package pager computes list pagination and the page-link window.
package pager

import (
	"fmt"
	"strconv"
	"strings"
)

// All is the page size that shows every row on one page.
const All = 0

// DefaultSize is the initial page size of the pledge list.
const DefaultSize = 10

// Sizes are the page sizes offered to the user.
var Sizes = []int{5, 10, 50, 100, All}

// ParseSize accepts a number from Sizes or "all".
func ParseSize(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultSize, nil
	}
	if s == "all" {
		return All, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("pager: invalid page size %q", s)
	}
	for _, v := range Sizes {
		if v == n {
			return n, nil
		}
	}
	return 0, fmt.Errorf("pager: page size %d not one of 5, 10, 50, 100, all", n)
}

// SizeLabel renders a page size for display.
func SizeLabel(size int) string {
	if size == All {
		return "all"
	}
	return strconv.Itoa(size)
}

// NextSize cycles through Sizes.
func NextSize(size int) int {
	for i, v := range Sizes {
		if v == size {
			return Sizes[(i+1)%len(Sizes)]
		}
	}
	return DefaultSize
}

// Page is one page of a list of Total rows.
type Page struct {
	Number int `json:"number"` // 1-based, clamped to [1, Pages]
	Size   int `json:"size"`
	Pages  int `json:"pages"`
	Total  int `json:"total"`
	Start  int `json:"start"` // index of the first row, inclusive
	End    int `json:"end"`   // index past the last row
}

// Paginate clamps page into range and returns its bounds.
func Paginate(total, size, page int) Page {
	if total < 0 {
		total = 0
	}
	p := Page{Size: size, Total: total, Pages: 1}
	if size > 0 && total > 0 {
		p.Pages = (total + size - 1) / size
	}

	p.Number = page
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > p.Pages {
		p.Number = p.Pages
	}

	if size <= 0 {
		p.End = total
		return p
	}
	p.Start = (p.Number - 1) * size
	p.End = min(p.Start+size, total)
	return p
}

// Showing returns the 1-based "showing X to Y of Z" figures.
func (p Page) Showing() (from, to, of int) {
	if p.Total == 0 {
		return 0, 0, 0
	}
	return p.Start + 1, p.End, p.Total
}

// Ellipsis marks a gap in a page window.
const Ellipsis = -1

// Window returns the page links to show: the first and last page, the
// current page and its neighbours, with Ellipsis for skipped runs.
func Window(current, pages int) []int {
	if pages <= 1 {
		return []int{1}
	}
	var out []int
	last := 0
	for i := 1; i <= pages; i++ {
		if i != 1 && i != pages && (i < current-1 || i > current+1) {
			continue
		}
		if last != 0 && i-last > 1 {
			out = append(out, Ellipsis)
		}
		out = append(out, i)
		last = i
	}
	return out
}
