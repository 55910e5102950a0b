// Package page parses print-production page filenames and represents each
// parsed file as an immutable, comparable Page.
//
// A page filename encodes an optional supplement prefix, one or two page
// numbers, the editorial section and the publication date, for example
// "4-5_advert_Home_280414.indd" or "W4_Back_240314.pdf".
package page

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/harrison/msutils/internal/fileutil"
)

// Page is one on-disk file holding one or two newspaper pages.
// Fields are set once by New and never change afterwards.
type Page struct {
	path    string
	pages   []int
	date    time.Time
	prefix  string
	section string
	kind    Kind
}

// New parses the base name of path and returns the corresponding Page.
// A leading "~" in path is expanded to the user's home directory.
func New(path string) (Page, error) {
	name := filepath.Base(path)
	f, err := Parse(name)
	if err != nil {
		return Page{}, err
	}

	expanded, err := fileutil.ExpandHome(path)
	if err != nil {
		return Page{}, fmt.Errorf("expand %s: %w", path, err)
	}

	return Page{
		path:    expanded,
		pages:   f.Pages,
		date:    f.Date,
		prefix:  f.Prefix,
		section: f.Section,
		kind:    f.Kind,
	}, nil
}

// MustNew is like New but panics on error. Intended for tests and fixtures.
func MustNew(path string) Page {
	p, err := New(path)
	if err != nil {
		panic(err)
	}
	return p
}

// Path returns the file location the page was created from, with "~" expanded.
func (p Page) Path() string { return p.path }

// Pages returns the page numbers (one or two).
func (p Page) Pages() []int { return slices.Clone(p.pages) }

// Date returns the publication date encoded in the filename (midnight UTC).
func (p Page) Date() time.Time { return p.date }

// Prefix returns the supplement letter, or "" when there is none.
func (p Page) Prefix() string { return p.prefix }

// Section returns the editorial section as written in the filename.
func (p Page) Section() string { return p.section }

// Kind returns the file kind.
func (p Page) Kind() Kind { return p.kind }

// Name returns the base name of the underlying file.
func (p Page) Name() string { return filepath.Base(p.path) }

// String returns the base name of the underlying file.
func (p Page) String() string { return p.Name() }

// GoString returns Page("<path>").
func (p Page) GoString() string { return fmt.Sprintf("Page(%q)", p.path) }

// ExternalName returns the normalised name used when handing the file to
// outside parties. The section is omitted and names sort by date:
//
//	MS_2016_05_04_001.pdf
//	MS_2016_05_04_002-003.indd
//	MS_A_2016_05_04_001.pdf
func (p Page) ExternalName() string {
	nums := make([]string, len(p.pages))
	for i, n := range p.pages {
		nums[i] = fmt.Sprintf("%03d", n)
	}

	var b strings.Builder
	b.WriteString("MS_")
	if p.prefix != "" {
		b.WriteString(p.prefix)
		b.WriteString("_")
	}
	b.WriteString(p.date.Format("2006_01_02"))
	b.WriteString("_")
	b.WriteString(strings.Join(nums, "-"))
	b.WriteString(".")
	b.WriteString(string(p.kind))
	return b.String()
}
