package cmd

import (
	"github.com/spf13/cobra"

	"github.com/openshelf/shelfscan/internal/evalcmd"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Extraction evaluation tools",
		Long: `Evaluation tools for measuring title/author extraction accuracy.

Runs the extraction heuristic over datasets of captured recognizer
output labeled with ground-truth metadata, and reports per-record and
aggregate scores.`,
	}

	// Add eval subcommands
	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewInspectCmd())

	return cmd
}
