package edition

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Layout is a directory-naming template for edition directories.
type Layout string

const (
	// LayoutCurrent is used by the live server:
	//	<root>/2017-08-02 Wednesday Aug 2
	LayoutCurrent Layout = "current"

	// LayoutArchival is used by the archive volumes:
	//	<root>/2017/08 August/2017-08-02 Wednesday
	LayoutArchival Layout = "archival"
)

// Date layouts for the path components. Weekday and month names are English,
// matching the machines that created the existing directories.
const (
	currentDirLayout    = "2006-01-02 Monday Jan 2"
	archivalYearLayout  = "2006"
	archivalMonthLayout = "01 January"
	archivalDayLayout   = "2006-01-02 Monday"

	pdfDateLayout = "020106"
)

const (
	pressPDFsDirPrefix = "PDFs "
	webPDFsDirPrefix   = "E-edition PDFs "
)

// ParseLayout converts a configuration value into a Layout.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case LayoutCurrent, LayoutArchival:
		return l, nil
	default:
		return "", fmt.Errorf("unknown layout %q (want %q or %q)", s, LayoutCurrent, LayoutArchival)
	}
}

// Dir returns the edition directory path for date under root.
func (l Layout) Dir(root string, date time.Time) string {
	switch l {
	case LayoutArchival:
		return filepath.Join(root,
			date.Format(archivalYearLayout),
			date.Format(archivalMonthLayout),
			date.Format(archivalDayLayout))
	default:
		return filepath.Join(root, date.Format(currentDirLayout))
	}
}

// PressPDFsName is the name of the pre-press PDF folder inside an edition.
func PressPDFsName(date time.Time) string {
	return pressPDFsDirPrefix + date.Format(pdfDateLayout)
}

// WebPDFsName is the name of the e-edition PDF folder inside an edition.
func WebPDFsName(date time.Time) string {
	return webPDFsDirPrefix + date.Format(pdfDateLayout)
}

// civil drops the time of day, keeping the calendar date as seen in t's
// own location.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
