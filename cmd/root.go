package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelfscan",
		Short: "Identify books from cover and shelf photos",
		Long: `Shelfscan identifies books on photos. Text recognized on a cover or on
the spines of a shelf is turned into title/author hypotheses, resolved
against Google Books, and returned as deduplicated catalog records.

It also serves weighted reading recommendations and ships an offline
evaluation CLI for the extraction heuristic.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}
