package evalcmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openshelf/shelfscan/internal/eval/dataset"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var datasetPath string
	var limit int
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect dataset records (useful for examining recognizer output)",
		Long: `Inspect records from a parquet or jsonl dataset file.

This command is useful for examining captured recognizer lines and
checking that a dataset's geometry and confidences look sane.`,
		Example: `  # Inspect first 5 records interactively
  shelfscan eval inspect --dataset ./scans.parquet --limit 5 --interactive

  # Inspect all records (no limit)
  shelfscan eval inspect --dataset ./scans.parquet --limit 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return executeInspect(ctx, datasetPath, limit, interactive)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to parquet or jsonl dataset file (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of records to inspect (0 for all)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Pause after each record (press Enter to continue)")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeInspect(ctx context.Context, datasetPath string, limit int, interactive bool) error {
	loader := dataset.NewLoader(datasetPath)
	records, err := loader.LoadSample(limit)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	stdin := bufio.NewReader(os.Stdin)

	for i, record := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("=== Record %d/%d ===\n", i+1, len(records))
		fmt.Printf("ID:     %s\n", record.ID)
		fmt.Printf("Title:  %s\n", record.Title)
		fmt.Printf("Author: %s\n", record.Author)
		fmt.Printf("ISBN:   %s\n", record.ISBN13)
		fmt.Printf("Lines:  %d\n", len(record.Lines))
		for j, line := range record.Lines {
			confidence := 1.0
			if j < len(record.Confidences) {
				confidence = record.Confidences[j]
			}
			fmt.Printf("  [%d] %.2f %q\n", j, confidence, line)
		}
		fmt.Println()

		if interactive && i < len(records)-1 {
			fmt.Print("Press Enter for next record...")
			if _, err := stdin.ReadString('\n'); err != nil {
				return nil
			}
		}
	}

	return nil
}
