package logger

import (
	"fmt"

	"github.com/fatih/color"
)

// colorScheme defines consistent colors for different message parts.
// Green: success (uploads, reachable stores)
// Red: failure
// Yellow: warnings (misfiled or skipped pages)
// Cyan: labels and identifiers
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	value   *color.Color
}

// newColorScheme creates the standard color scheme.
func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
		value:   color.New(color.FgWhite),
	}
}

// formatColorizedMetric formats a single metric with colorized label and value.
// Format: "label: value"
func formatColorizedMetric(label string, value interface{}, scheme *colorScheme) string {
	labelColored := scheme.label.Sprint(label)
	valueColored := scheme.value.Sprintf("%v", value)
	return fmt.Sprintf("%s: %s", labelColored, valueColored)
}

// StoreStatusLabel renders a store's reachability for listings, colored
// when color output is enabled globally.
func StoreStatusLabel(reachable bool) string {
	scheme := newColorScheme()
	if reachable {
		return scheme.success.Sprint("reachable")
	}
	return scheme.fail.Sprint("unreachable")
}
