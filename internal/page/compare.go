package page

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Key is the comparison key shared by equality and ordering. The path is
// deliberately not part of it: two files with the same parsed fields are
// the same page.
type Key struct {
	Date    time.Time
	Kind    Kind
	Prefix  string
	Pages   []int
	Section string // lower-cased
}

// Key returns the page's comparison key.
func (p Page) Key() Key {
	return Key{
		Date:    p.date,
		Kind:    p.kind,
		Prefix:  p.prefix,
		Pages:   slices.Clone(p.pages),
		Section: strings.ToLower(p.section),
	}
}

// CompareKeys orders keys by date, kind, prefix, pages (element-wise, a
// shorter sequence first on a shared prefix) and section.
func CompareKeys(a, b Key) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Prefix, b.Prefix); c != 0 {
		return c
	}
	if c := slices.Compare(a.Pages, b.Pages); c != 0 {
		return c
	}
	return cmp.Compare(a.Section, b.Section)
}

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to
// or after b. It is suitable for slices.SortFunc.
func Compare(a, b Page) int {
	return CompareKeys(a.Key(), b.Key())
}

// The comparison methods below are all derived from Compare.

// Equal reports whether p and o have the same comparison key.
func (p Page) Equal(o Page) bool { return Compare(p, o) == 0 }

// Less reports whether p sorts strictly before o.
func (p Page) Less(o Page) bool { return Compare(p, o) < 0 }

// Greater reports whether p sorts strictly after o.
func (p Page) Greater(o Page) bool { return Compare(p, o) > 0 }

// LessEqual reports whether p sorts before or equal to o.
func (p Page) LessEqual(o Page) bool { return p.Less(o) || p.Equal(o) }

// GreaterEqual reports whether p sorts after or equal to o.
func (p Page) GreaterEqual(o Page) bool { return p.Greater(o) || p.Equal(o) }

// Sort sorts pages in place by Compare. The sort is stable so files with
// equal keys keep their listing order.
func Sort(pages []Page) {
	slices.SortStableFunc(pages, Compare)
}
