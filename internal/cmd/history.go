package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/harrison/msutils/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the 'msutils history' command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous uploads",
		Long: `List previous upload runs, newest first, with the number of files
each sent. With --run the files of a single run are listed instead.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().StringP("target", "t", "", "Only show runs for this target")
	cmd.Flags().String("run", "", "List the files of one run")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	target, _ := cmd.Flags().GetString("target")
	runID, _ := cmd.Flags().GetString("run")
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dbPath, err := cfg.HistoryDBPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No uploads recorded yet")
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if runID != "" {
		entries, err := store.Entries(ctx, runID)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no uploads recorded for run %s", runID)
		}
		printEntries(out, entries)
		return nil
	}

	runs, err := store.Runs(ctx, target)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		if target != "" {
			fmt.Fprintf(out, "No uploads recorded for target %s\n", target)
		} else {
			fmt.Fprintln(out, "No uploads recorded yet")
		}
		return nil
	}
	printRuns(out, runs)
	return nil
}

func printRuns(w io.Writer, runs []history.Run) {
	cyan := color.New(color.FgCyan, color.Bold)
	gray := color.New(color.FgHiBlack)

	cyan.Fprintf(w, "=== Upload History (%d runs) ===\n\n", len(runs))
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %-12s %3d file(s)  ", r.StartedAt.Format("2006-01-02 15:04:05"), r.Target, r.Files)
		gray.Fprintf(w, "%s\n", r.ID)
	}
}

func printEntries(w io.Writer, entries []history.Entry) {
	cyan := color.New(color.FgCyan, color.Bold)

	first := entries[0]
	cyan.Fprintf(w, "=== Run %s ===\n", first.RunID)
	fmt.Fprintf(w, "Target:  %s\n", first.Target)
	fmt.Fprintf(w, "Edition: %s\n\n", first.EditionDate.Format(dateLayout))
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s -> %s\n", e.UploadedAt.Format("15:04:05"), e.LocalPath, e.RemoteName)
	}
}
