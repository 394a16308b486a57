package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var shelf bool

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Identify the books on a photo",
		Long: `Scan a local photo and print the identified books as JSON.

By default the photo is treated as a single book cover; pass --shelf
to detect and identify every book on a shelf photo.`,
		Example: `  # Identify a single cover
  shelfscan scan cover.jpg

  # Identify every book on a shelf
  shelfscan scan --shelf shelf.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			svc, err := buildServices(cmd.Context())
			if err != nil {
				return err
			}

			pipeline := svc.scan.ScanCover
			if shelf {
				pipeline = svc.scan.ScanShelf
			}

			results, err := pipeline(cmd.Context(), data)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(results)
		},
	}

	cmd.Flags().BoolVar(&shelf, "shelf", false, "Treat the photo as a shelf instead of a single cover")

	return cmd
}
