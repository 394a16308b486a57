// Package evalcmd implements the eval subcommands: offline evaluation
// of extraction accuracy against labeled scan datasets.
package evalcmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/openshelf/shelfscan/internal/eval/dataset"
	"github.com/openshelf/shelfscan/internal/eval/metrics"
	"github.com/openshelf/shelfscan/internal/eval/results"
	"github.com/openshelf/shelfscan/internal/extraction"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var datasetPath string
	var sampleSize int
	var outputPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate extraction accuracy against a labeled dataset",
		Long: `Run the title/author extraction heuristic over captured recognizer
output and score the hypotheses against ground-truth metadata.

The dataset is a parquet or jsonl file of labeled scans: recognized
lines with their geometry, plus the true title, author, and ISBN-13.`,
		Example: `  # Evaluate the first 100 records
  shelfscan eval run --dataset ./scans.parquet --sample 100

  # Evaluate everything and write the report to a chosen path
  shelfscan eval run --dataset ./scans.jsonl --output report.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(datasetPath, sampleSize, outputPath)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to parquet or jsonl dataset file (required)")
	cmd.Flags().IntVar(&sampleSize, "sample", 0, "Number of records to evaluate (0 for all)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Report path (default: evals/extraction-<timestamp>.yaml)")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeRun(datasetPath string, sampleSize int, outputPath string) error {
	slog.Info("Starting extraction evaluation", "dataset", datasetPath, "sample", sampleSize)

	loader := dataset.NewLoader(datasetPath)
	records, err := loader.LoadSample(sampleSize)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	slog.Info("Dataset loaded", "records", len(records))

	scored := make([]metrics.ExtractionResult, 0, len(records))
	for _, record := range records {
		result := extraction.Extract(record.Texts(), nil)
		scored = append(scored, metrics.CompareExtraction(record.ID, record.Title, record.Author, result.Options))
	}

	agg := metrics.Aggregate(scored)
	agg.PrintSummary()

	path, err := results.SaveToYAML(datasetPath, sampleSize, scored, agg, outputPath)
	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	fmt.Printf("\nResults saved to: %s\n", path)

	return nil
}
