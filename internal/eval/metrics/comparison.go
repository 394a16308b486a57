// Package metrics scores extraction hypotheses against dataset ground
// truth.
package metrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/openshelf/shelfscan/internal/extraction"
)

// FieldMatch represents the comparison result for a single field
type FieldMatch struct {
	Expected string
	Actual   string
	Score    float64 // 0.0 to 1.0
	Method   string  // "exact", "substring", "fuzzy_high", "fuzzy_medium", "no_match", "missing"
}

// ExtractionResult scores one record's hypotheses against its ground
// truth. BestRank is the 1-based position of the best-scoring option,
// since earlier options are tried against the catalog first.
type ExtractionResult struct {
	ID           string
	TitleMatch   FieldMatch
	AuthorMatch  FieldMatch
	OverallScore float64
	BestRank     int
	Error        string
}

// title dominates the catalog query, so it dominates the score.
const (
	titleWeight  = 0.7
	authorWeight = 0.3
)

// CompareExtraction scores every option against the expected title and
// author, keeping the best-scoring one.
func CompareExtraction(id, expectedTitle, expectedAuthor string, options []extraction.Option) ExtractionResult {
	result := ExtractionResult{ID: id}

	if len(options) == 0 {
		result.TitleMatch = missingMatch(expectedTitle)
		result.AuthorMatch = missingMatch(expectedAuthor)
		result.Error = "no options extracted"
		return result
	}

	for i, opt := range options {
		titleMatch := compareField(expectedTitle, opt.Title)
		authorMatch := compareField(expectedAuthor, opt.Author)
		score := titleMatch.Score*titleWeight + authorMatch.Score*authorWeight

		if result.BestRank == 0 || score > result.OverallScore {
			result.TitleMatch = titleMatch
			result.AuthorMatch = authorMatch
			result.OverallScore = score
			result.BestRank = i + 1
		}
	}

	return result
}

func missingMatch(expected string) FieldMatch {
	return FieldMatch{Expected: expected, Score: 0, Method: "missing"}
}

// compareField performs field comparison with fuzzy matching
func compareField(expected, actual string) FieldMatch {
	match := FieldMatch{
		Expected: expected,
		Actual:   actual,
	}

	expNorm := normalizeForComparison(expected)
	actNorm := normalizeForComparison(actual)

	// An absent ground-truth field scores neutral when the hypothesis
	// also left it empty.
	if expNorm == "" && actNorm == "" {
		match.Score = 1.0
		match.Method = "both_missing"
		return match
	}

	if expNorm == "" || actNorm == "" {
		match.Score = 0.0
		match.Method = "missing"
		return match
	}

	if expNorm == actNorm {
		match.Score = 1.0
		match.Method = "exact"
		return match
	}

	if strings.Contains(actNorm, expNorm) || strings.Contains(expNorm, actNorm) {
		match.Score = 0.8
		match.Method = "substring"
		return match
	}

	similarity := calculateSimilarity(expNorm, actNorm)
	match.Score = similarity
	switch {
	case similarity > 0.7:
		match.Method = "fuzzy_high"
	case similarity > 0.4:
		match.Method = "fuzzy_medium"
	default:
		match.Method = "no_match"
	}

	return match
}

// normalizeForComparison normalizes text for comparison
func normalizeForComparison(text string) string {
	text = strings.ToLower(text)

	re := regexp.MustCompile(`[^\w\s]`)
	text = re.ReplaceAllString(text, "")

	return strings.Join(strings.Fields(text), " ")
}

// calculateSimilarity calculates similarity ratio (0.0 to 1.0) using Levenshtein distance
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	distance := levenshteinDistance(s1, s2)
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// levenshteinDistance calculates the Levenshtein distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	rows := len(r1) + 1
	cols := len(r2) + 1

	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i < rows; i++ {
		curr[0] = i
		for j := 1; j < cols; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			deletion := prev[j] + 1
			insertion := curr[j-1] + 1
			substitution := prev[j-1] + cost

			curr[j] = deletion
			if insertion < curr[j] {
				curr[j] = insertion
			}
			if substitution < curr[j] {
				curr[j] = substitution
			}
		}
		prev, curr = curr, prev
	}

	return prev[cols-1]
}

// Describe renders the match for human-readable reports.
func (m FieldMatch) Describe() string {
	return fmt.Sprintf("%s (%.2f)", m.Method, m.Score)
}
