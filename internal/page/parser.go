package page

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// filenamePattern is the page naming convention used by the editorial tools:
//
//	[prefix] first[-second] [sep] section [sep] date . ext
//
// The section is matched lazily so that trailing separators belong to the
// separator run, and the date only accepts 6 or 8 digits (optionally as
// dd-mm-yy / dd-mm-yyyy). A 5 or 7 digit run cannot be split into day, month
// and year without guessing, so it never matches.
var filenamePattern = regexp.MustCompile(`(?i)^` +
	`(?P<prefix>[A-Z]?)` +
	`(?P<first>\d+)` +
	`(?:-(?P<second>\d+))?` +
	`[-_ ]*` +
	`(?P<section>\D+?)` +
	`[-_ ]*` +
	`(?P<date>\d{6}|\d{8}|\d{2}-\d{2}-(?:\d{2}|\d{4}))` +
	`\.` +
	`(?P<ext>[A-Z]+)` +
	`$`)

// separators are stripped from the boundaries of a section, never from inside.
const separators = "-_ "

// yearPivot splits two-digit years: values below it are 20xx, the rest 19xx.
const yearPivot = 69

// Fields holds the values extracted from a page filename.
type Fields struct {
	Prefix  string
	Pages   []int
	Section string
	Date    time.Time
	Kind    Kind
}

// Parse extracts the page fields from a filename. Only the base name is
// considered; name must not include directories.
//
// Any mismatch, impossible calendar date or unknown extension yields an
// *InvalidFilenameError carrying name.
func Parse(name string) (Fields, error) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return Fields{}, NewInvalidFilenameError(name, "does not match the naming convention")
	}
	group := func(g string) string {
		return m[filenamePattern.SubexpIndex(g)]
	}

	kind, err := ParseKind(group("ext"))
	if err != nil {
		return Fields{}, NewInvalidFilenameError(name, err.Error())
	}

	pages, err := parsePageNumbers(group("first"), group("second"))
	if err != nil {
		return Fields{}, NewInvalidFilenameError(name, err.Error())
	}

	section := group("section")
	if strings.Trim(section, separators) == "" {
		return Fields{}, NewInvalidFilenameError(name, "empty section")
	}

	date, err := decodeDate(group("date"))
	if err != nil {
		return Fields{}, NewInvalidFilenameError(name, err.Error())
	}

	return Fields{
		Prefix:  strings.ToUpper(group("prefix")),
		Pages:   pages,
		Section: section,
		Date:    date,
		Kind:    kind,
	}, nil
}

func parsePageNumbers(first, second string) ([]int, error) {
	raw := []string{first}
	if second != "" {
		raw = append(raw, second)
	}
	pages := make([]int, 0, len(raw))
	for _, s := range raw {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("page number %q out of range", s)
		}
		pages = append(pages, n)
	}
	return pages, nil
}

// decodeDate turns a ddmmyy or ddmmyyyy token (hyphens allowed) into a date
// at midnight UTC.
func decodeDate(token string) (time.Time, error) {
	digits := strings.ReplaceAll(token, "-", "")
	if len(digits) != 6 && len(digits) != 8 {
		return time.Time{}, fmt.Errorf("date %q must have 6 or 8 digits", token)
	}
	if _, err := strconv.ParseUint(digits, 10, 64); err != nil {
		return time.Time{}, fmt.Errorf("date %q must be numeric", token)
	}

	day, _ := strconv.Atoi(digits[0:2])
	month, _ := strconv.Atoi(digits[2:4])
	year, _ := strconv.Atoi(digits[4:])
	if len(digits) == 6 {
		year = expandYear(year)
	}

	d, ok := civilDate(year, month, day)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q", token)
	}
	return d, nil
}

// civilDate builds a midnight-UTC date, rejecting values time.Date would
// otherwise normalise (31 April, month 13, year 0).
func civilDate(year, month, day int) (time.Time, bool) {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if year < 1 || d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func expandYear(yy int) int {
	if yy < yearPivot {
		return 2000 + yy
	}
	return 1900 + yy
}
