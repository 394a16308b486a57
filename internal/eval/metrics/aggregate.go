package metrics

import "fmt"

// hitThreshold is the overall score above which a record counts as
// correctly identified.
const hitThreshold = 0.7

// AggregateResults summarizes an extraction evaluation run.
type AggregateResults struct {
	TotalRecords  int
	Errors        int
	Hits          int
	HitRate       float64
	HitsAtRankOne int
	AvgTitle      float64
	AvgAuthor     float64
	AvgOverall    float64
}

// Aggregate computes summary statistics over per-record results.
func Aggregate(results []ExtractionResult) *AggregateResults {
	agg := &AggregateResults{TotalRecords: len(results)}

	scored := 0
	for _, r := range results {
		if r.Error != "" {
			agg.Errors++
			continue
		}

		scored++
		agg.AvgTitle += r.TitleMatch.Score
		agg.AvgAuthor += r.AuthorMatch.Score
		agg.AvgOverall += r.OverallScore

		if r.OverallScore >= hitThreshold {
			agg.Hits++
			if r.BestRank == 1 {
				agg.HitsAtRankOne++
			}
		}
	}

	if scored > 0 {
		agg.AvgTitle /= float64(scored)
		agg.AvgAuthor /= float64(scored)
		agg.AvgOverall /= float64(scored)
	}
	if agg.TotalRecords > 0 {
		agg.HitRate = float64(agg.Hits) / float64(agg.TotalRecords)
	}

	return agg
}

// PrintSummary writes a human-readable summary to stdout.
func (a *AggregateResults) PrintSummary() {
	fmt.Println()
	fmt.Println("=== Extraction Evaluation Summary ===")
	fmt.Printf("Records:        %d\n", a.TotalRecords)
	fmt.Printf("Errors:         %d\n", a.Errors)
	fmt.Printf("Hits:           %d (%.1f%%)\n", a.Hits, a.HitRate*100)
	fmt.Printf("Hits at rank 1: %d\n", a.HitsAtRankOne)
	fmt.Printf("Avg title:      %.3f\n", a.AvgTitle)
	fmt.Printf("Avg author:     %.3f\n", a.AvgAuthor)
	fmt.Printf("Avg overall:    %.3f\n", a.AvgOverall)
}
