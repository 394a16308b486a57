package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/shelfscan/internal/geometry"
	"github.com/openshelf/shelfscan/internal/vision"
)

func text(s string, x1, y1, x2, y2, conf float64) vision.RecognizedText {
	return vision.RecognizedText{
		Text: s,
		Corners: geometry.Quad{
			{X: x1, Y: y1},
			{X: x2, Y: y1},
			{X: x2, Y: y2},
			{X: x1, Y: y2},
		},
		Confidence: conf,
	}
}

func TestExtractEmptyInput(t *testing.T) {
	result := Extract(nil, nil)
	assert.Empty(t, result.Options)

	result = Extract([]vision.RecognizedText{}, nil)
	assert.Empty(t, result.Options)
}

func TestExtractCover(t *testing.T) {
	texts := []vision.RecognizedText{
		text("KICKING AWAY THE LADDER:", 100, 100, 600, 200, 0.95),
		text("DEVELOPMENT STRATEGY IN HISTORICAL PERSPECTIVE", 100, 220, 600, 280, 0.85),
		text("HA-JOON CHANG", 150, 500, 450, 550, 0.99),
	}

	result := Extract(texts, nil)
	require.NotEmpty(t, result.Options)

	// Most complete hypothesis first, with the lowest line as author.
	assert.Equal(t, Option{
		Title:  "KICKING AWAY THE LADDER: DEVELOPMENT STRATEGY IN HISTORICAL PERSPECTIVE",
		Author: "HA-JOON CHANG",
	}, result.Options[0])

	// Delimiter truncations appear as alternates.
	assert.Contains(t, result.Options, Option{
		Title:  "KICKING AWAY THE LADDER",
		Author: "HA-JOON CHANG",
	})
	assert.Contains(t, result.Options, Option{
		Title:  "DEVELOPMENT STRATEGY IN HISTORICAL PERSPECTIVE",
		Author: "HA-JOON CHANG",
	})
}

func TestExtractSingleLine(t *testing.T) {
	texts := []vision.RecognizedText{
		text("DUNE", 10, 10, 100, 40, 0.9),
	}

	result := Extract(texts, nil)
	require.NotEmpty(t, result.Options)

	// A single line yields no author candidate.
	for _, o := range result.Options {
		assert.Empty(t, o.Author)
	}
	assert.Equal(t, "DUNE", result.Options[0].Title)
}

func TestExtractDeterministic(t *testing.T) {
	texts := []vision.RecognizedText{
		text("Yhe", 1287, 1149, 1430, 1241, 0.96),
		text("GIVER", 1063, 1136, 1903, 1452, 0.50),
		text("LOIS LOWRY", 1093, 1475, 1529, 1580, 0.99),
	}

	first := Extract(texts, nil)
	for range 10 {
		assert.Equal(t, first, Extract(texts, nil))
	}
}

func TestExtractTraceability(t *testing.T) {
	texts := []vision.RecognizedText{
		text("THE LEFT HAND", 10, 10, 200, 50, 0.9),
		text("OF DARKNESS", 10, 60, 200, 100, 0.8),
		text("URSULA K. LE GUIN", 10, 200, 200, 230, 0.95),
	}

	result := Extract(texts, nil)
	require.NotEmpty(t, result.Options)

	vocab := make(map[string]struct{})
	for _, tx := range texts {
		for _, w := range strings.Fields(tx.Text) {
			vocab[w] = struct{}{}
		}
	}

	// Every token in every option must come from the input.
	for _, o := range result.Options {
		for _, w := range strings.Fields(o.Title + " " + o.Author) {
			_, found := vocab[w]
			assert.True(t, found, "token %q not traceable to input", w)
		}
	}
}

func TestExtractNoDuplicateOptions(t *testing.T) {
	texts := []vision.RecognizedText{
		text("SOLARIS", 10, 10, 400, 100, 0.9),
		text("STANISLAW LEM", 10, 200, 300, 240, 0.95),
	}

	result := Extract(texts, nil)
	seen := make(map[Option]struct{})
	for _, o := range result.Options {
		_, dup := seen[o]
		assert.False(t, dup, "duplicate option %+v", o)
		seen[o] = struct{}{}
	}
}

func TestExtractRegionHint(t *testing.T) {
	region := geometry.Box{X1: 0, Y1: 0, X2: 300, Y2: 600}
	texts := []vision.RecognizedText{
		text("INSIDE TITLE", 10, 10, 280, 60, 0.9),
		text("INSIDE AUTHOR", 10, 500, 280, 550, 0.9),
		text("OUTSIDE", 600, 10, 900, 60, 0.9),
	}

	result := Extract(texts, &region)
	require.NotEmpty(t, result.Options)

	for _, o := range result.Options {
		assert.NotContains(t, o.Title, "OUTSIDE")
		assert.NotContains(t, o.Author, "OUTSIDE")
	}
	assert.Equal(t, Option{Title: "INSIDE TITLE", Author: "INSIDE AUTHOR"}, result.Options[0])
}

func TestExtractRegionHintExcludesAll(t *testing.T) {
	region := geometry.Box{X1: 0, Y1: 0, X2: 10, Y2: 10}
	texts := []vision.RecognizedText{
		text("FAR AWAY", 500, 500, 600, 550, 0.9),
	}

	result := Extract(texts, &region)
	assert.Empty(t, result.Options)
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		prefix string
		suffix string
		ok     bool
	}{
		{"colon", "KICKING AWAY THE LADDER: DEVELOPMENT STRATEGY", "KICKING AWAY THE LADDER", "DEVELOPMENT STRATEGY", true},
		{"semicolon", "A; B", "A", "B", true},
		{"dash", "ONE - TWO", "ONE", "TWO", true},
		{"no delimiter", "PLAIN TITLE", "", "", false},
		{"leading delimiter", ": SUBTITLE ONLY", "", "", false},
		{"trailing delimiter", "TITLE:", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, suffix, ok := splitTitle(tt.title)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.suffix, suffix)
		})
	}
}
