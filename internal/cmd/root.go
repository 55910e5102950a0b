package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for msutils
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "msutils",
		Short: "Locate, list and send newspaper page files",
		Long: `msutils finds a publication date's edition directory across the
configured page stores, lists the InDesign and PDF page files filed there,
and uploads them to print and web partners over FTP or SFTP.

Dates are given as YYYY-MM-DD and default to today.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: $MSUTILS_HOME/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error (overrides config)")
	cmd.PersistentFlags().String("log-dir", "", "Directory for per-run log files (overrides config)")
	cmd.PersistentFlags().String("history-db", "", "Upload history database (overrides config)")

	cmd.AddCommand(NewDirCommand())
	cmd.AddCommand(NewStoresCommand())
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewSendCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewConfigCommand())

	return cmd
}
