package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDirCommand creates the 'msutils dir' command
func NewDirCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir [DATE]",
		Short: "Print the edition directory for a date",
		Long: `Print the absolute path of a date's edition directory.

Stores are searched in configuration order and the first store holding the
edition wins. With --kind press or --kind web the matching PDF folder inside
the edition is printed instead; that folder may not exist yet.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDir,
	}

	cmd.Flags().String("kind", kindIndd, "Directory to print: indd (edition), press or web")

	return cmd
}

func runDir(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
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

	dir, err := s.kindDir(kind, date)
	if err != nil {
		return s.explain(cmd, date, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), dir)
	return nil
}
