package page

import (
	"regexp"
	"strconv"
)

var externalPattern = regexp.MustCompile(`^MS_(?:(?P<prefix>[A-Z])_)?` +
	`(?P<year>\d{4})_(?P<month>\d{2})_(?P<day>\d{2})_` +
	`(?P<first>\d{3,})(?:-(?P<second>\d{3,}))?` +
	`\.(?P<ext>[a-z]+)$`)

// ParseExternalName is the inverse of Page.ExternalName. The returned
// Fields have an empty Section, since external names do not carry one.
func ParseExternalName(name string) (Fields, error) {
	m := externalPattern.FindStringSubmatch(name)
	if m == nil {
		return Fields{}, NewInvalidFilenameError(name, "not an external name")
	}
	group := func(g string) string {
		return m[externalPattern.SubexpIndex(g)]
	}

	kind, err := ParseKind(group("ext"))
	if err != nil {
		return Fields{}, NewInvalidFilenameError(name, err.Error())
	}
	pages, err := parsePageNumbers(group("first"), group("second"))
	if err != nil {
		return Fields{}, NewInvalidFilenameError(name, err.Error())
	}

	year, _ := strconv.Atoi(group("year"))
	month, _ := strconv.Atoi(group("month"))
	day, _ := strconv.Atoi(group("day"))
	date, ok := civilDate(year, month, day)
	if !ok {
		return Fields{}, NewInvalidFilenameError(name, "invalid date")
	}

	return Fields{
		Prefix: group("prefix"),
		Pages:  pages,
		Date:   date,
		Kind:   kind,
	}, nil
}
