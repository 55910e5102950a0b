package edition

import (
	"time"

	"github.com/harrison/msutils/internal/page"
)

// FilterByDate catches pages filed under the wrong edition. When pages holds
// more than one distinct date, only those dated date are kept and the rest
// are returned as misfiled. A single distinct date is returned unchanged,
// even if it differs from date. Input order is preserved.
func FilterByDate(pages []page.Page, date time.Time) (kept, misfiled []page.Page) {
	want := civil(date)

	dates := make(map[time.Time]struct{})
	for _, p := range pages {
		dates[p.Date()] = struct{}{}
	}
	if len(dates) <= 1 {
		return pages, nil
	}

	kept = make([]page.Page, 0, len(pages))
	for _, p := range pages {
		if p.Date().Equal(want) {
			kept = append(kept, p)
		} else {
			misfiled = append(misfiled, p)
		}
	}
	return kept, misfiled
}
