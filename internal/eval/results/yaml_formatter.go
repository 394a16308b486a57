// Package results writes evaluation runs to YAML reports.
package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/openshelf/shelfscan/internal/eval/metrics"
)

// ReportConfig represents the configuration section of the report
type ReportConfig struct {
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Timestamp   string `yaml:"timestamp"`
}

// ReportResult represents a single evaluation result
type ReportResult struct {
	Identifier     string  `yaml:"identifier"`
	ExpectedTitle  string  `yaml:"expectedtitle"`
	ExpectedAuthor string  `yaml:"expectedauthor,omitempty"`
	BestTitle      string  `yaml:"besttitle"`
	BestAuthor     string  `yaml:"bestauthor,omitempty"`
	BestRank       int     `yaml:"bestrank"`
	TitleScore     float64 `yaml:"titlescore"`
	AuthorScore    float64 `yaml:"authorscore"`
	OverallScore   float64 `yaml:"overallscore"`
	Error          string  `yaml:"error,omitempty"`
}

// ReportSummary mirrors the aggregate statistics in the report
type ReportSummary struct {
	TotalRecords  int     `yaml:"totalrecords"`
	Errors        int     `yaml:"errors"`
	Hits          int     `yaml:"hits"`
	HitRate       float64 `yaml:"hitrate"`
	HitsAtRankOne int     `yaml:"hitsatrankone"`
	AvgTitle      float64 `yaml:"avgtitle"`
	AvgAuthor     float64 `yaml:"avgauthor"`
	AvgOverall    float64 `yaml:"avgoverall"`
}

// Report is the complete evaluation report
type Report struct {
	Config  ReportConfig   `yaml:"config"`
	Summary ReportSummary  `yaml:"summary"`
	Results []ReportResult `yaml:"results"`
}

// SaveToYAML writes an evaluation run to a YAML file. When outputPath
// is empty a timestamped file under evals/ is used. Returns the path
// written.
func SaveToYAML(datasetPath string, sampleSize int, results []metrics.ExtractionResult, agg *metrics.AggregateResults, outputPath string) (string, error) {
	timestamp := time.Now().Format("2006-01-02_15-04-05")

	if outputPath == "" {
		if err := os.MkdirAll("evals", 0755); err != nil {
			return "", fmt.Errorf("failed to create evals directory: %w", err)
		}
		outputPath = fmt.Sprintf("evals/extraction-%s.yaml", timestamp)
	}

	report := Report{
		Config: ReportConfig{
			DatasetPath: datasetPath,
			SampleSize:  sampleSize,
			Timestamp:   timestamp,
		},
		Summary: ReportSummary{
			TotalRecords:  agg.TotalRecords,
			Errors:        agg.Errors,
			Hits:          agg.Hits,
			HitRate:       agg.HitRate,
			HitsAtRankOne: agg.HitsAtRankOne,
			AvgTitle:      agg.AvgTitle,
			AvgAuthor:     agg.AvgAuthor,
			AvgOverall:    agg.AvgOverall,
		},
		Results: make([]ReportResult, 0, len(results)),
	}

	for _, r := range results {
		report.Results = append(report.Results, ReportResult{
			Identifier:     r.ID,
			ExpectedTitle:  r.TitleMatch.Expected,
			ExpectedAuthor: r.AuthorMatch.Expected,
			BestTitle:      r.TitleMatch.Actual,
			BestAuthor:     r.AuthorMatch.Actual,
			BestRank:       r.BestRank,
			TitleScore:     r.TitleMatch.Score,
			AuthorScore:    r.AuthorMatch.Score,
			OverallScore:   r.OverallScore,
			Error:          r.Error,
		})
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		absPath = outputPath
	}

	return absPath, nil
}
