package cmd

import (
	"fmt"

	"github.com/harrison/msutils/internal/display"
	"github.com/harrison/msutils/internal/logger"
	"github.com/spf13/cobra"
)

// NewStoresCommand creates the 'msutils stores' command
func NewStoresCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stores",
		Short: "List configured stores and whether they are reachable",
		Long: `List the configured edition stores in search order, with each
store's layout and whether its root currently exists.`,
		Args: cobra.NoArgs,
		RunE: runStores,
	}
}

func runStores(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	statuses, err := s.resolver.Registry().Probe()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reachable := 0
	for i, st := range statuses {
		if st.Reachable {
			reachable++
		} else {
			s.log.LogStoreUnreachable(st.Store)
		}
		fmt.Fprintf(out, "%d. %-11s %-8s %s\n", i+1, logger.StoreStatusLabel(st.Reachable), st.Store.Layout, st.Store.Root)
	}
	fmt.Fprintf(out, "\n%d of %d stores reachable\n", reachable, len(statuses))

	if reachable == 0 {
		roots := make([]string, len(statuses))
		for i, st := range statuses {
			roots[i] = st.Store.String()
		}
		display.NoStoresWarning(roots).Display(cmd.ErrOrStderr())
	}
	return nil
}
