package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	ItemsLabel string   // Heading for Items; defaults to "Affected path(s)"
	Items      []string // Related paths (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning to out, in yellow when color is enabled.
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Items) > 0 {
		label := w.ItemsLabel
		if label == "" {
			label = "Affected path"
			if len(w.Items) > 1 {
				label = "Affected paths"
			}
		}
		b.WriteString("    ")
		b.WriteString(label)
		b.WriteString(":\n")

		for i, item := range w.Items {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, item))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	color.New(color.FgYellow).Fprint(out, b.String())
}

// NoStoresWarning explains that none of the configured store roots exist.
func NoStoresWarning(roots []string) Warning {
	return Warning{
		Title:      "No edition stores are reachable",
		Message:    "None of the configured store roots exist on this machine.",
		ItemsLabel: "Configured stores",
		Items:      roots,
		Suggestion: "Mount the page server or archive volume, or fix 'stores' in the config file",
	}
}

// NoEditionWarning lists the directories searched for date's edition.
func NoEditionWarning(date time.Time, searched []string) Warning {
	return Warning{
		Title:      fmt.Sprintf("No edition for %s", date.Format(time.DateOnly)),
		ItemsLabel: "Searched",
		Items:      searched,
		Suggestion: "Check the date, or that the archive holding it is mounted",
	}
}
