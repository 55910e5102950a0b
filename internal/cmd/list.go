package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewListCommand creates the 'msutils list' command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [DATE]",
		Short: "List a date's page files in page order",
		Long: `List the page files of a date's edition, sorted by kind, prefix,
page number and section.

  --kind indd    InDesign files anywhere under the edition directory
  --kind press   PDFs in the "PDFs ddmmyy" folder
  --kind web     PDFs in the "E-edition PDFs ddmmyy" folder

Files whose names cannot be parsed are skipped with a warning, and when the
listing mixes dates only pages of the requested date are kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runList,
	}

	cmd.Flags().String("kind", kindIndd, "Page files to list: indd, press or web")
	cmd.Flags().Bool("external", false, "Show each page's external name next to its file name")
	cmd.Flags().Bool("paths", false, "Print full paths instead of file names")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	external, _ := cmd.Flags().GetBool("external")
	paths, _ := cmd.Flags().GetBool("paths")
	if err := validateKind(kind); err != nil {
		return err
	}
	date, err := parseDate(args)
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	pages, err := s.editionPages(kind, date)
	if err != nil {
		return s.explain(cmd, date, err)
	}

	out := cmd.OutOrStdout()
	for _, p := range pages {
		name := p.Name()
		if paths {
			name = p.Path()
		}
		if external {
			fmt.Fprintf(out, "%s -> %s\n", name, p.ExternalName())
			continue
		}
		fmt.Fprintln(out, name)
	}
	s.log.LogDebug(fmt.Sprintf("Listed %d %s page(s) for %s", len(pages), kind, date.Format(dateLayout)))
	return nil
}
