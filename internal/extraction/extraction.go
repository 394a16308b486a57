// Package extraction turns recognized text regions into ordered
// (title, author) hypotheses. It is a pure transformation: no model or
// network calls, deterministic for identical input, and every emitted
// option is built only from the input texts.
package extraction

import (
	"sort"
	"strings"

	"github.com/openshelf/shelfscan/internal/geometry"
	"github.com/openshelf/shelfscan/internal/vision"
)

// regionOverlapMin is the fraction of a text's bounding box that must
// fall inside a region for the text to count as part of that region.
const regionOverlapMin = 0.5

// Option is a single hypothesis about a book's identity.
type Option struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Result is an ordered list of options, most confident first. An empty
// Options slice is a valid outcome, not an error.
type Result struct {
	Options []Option `json:"options"`
}

// delimiters that tend to separate a main title from a subtitle.
var titleDelimiters = []string{":", ";", " - "}

// Extract builds ordered title/author hypotheses from the recognized
// texts. When regionHint is non-nil only texts substantially contained
// in the region are considered.
func Extract(texts []vision.RecognizedText, regionHint *geometry.Box) Result {
	retained := make([]vision.RecognizedText, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		if regionHint != nil && t.Corners.BoundingBox().OverlapRatio(*regionHint) < regionOverlapMin {
			continue
		}
		retained = append(retained, t)
	}
	if len(retained) == 0 {
		return Result{}
	}

	// Reading order: top to bottom, then left to right.
	sort.SliceStable(retained, func(i, j int) bool {
		ci, cj := retained[i].Center(), retained[j].Center()
		if ci.Y != cj.Y {
			return ci.Y < cj.Y
		}
		return ci.X < cj.X
	})

	lines := make([]string, len(retained))
	for i, t := range retained {
		lines[i] = strings.TrimSpace(t.Text)
	}

	// The lowest-positioned line is the author candidate when more
	// than one line survived filtering.
	author := ""
	titleLines := lines
	if len(lines) >= 2 {
		author = lines[len(lines)-1]
		titleLines = lines[:len(lines)-1]
	}

	title := strings.Join(titleLines, " ")
	full := strings.Join(lines, " ")

	var options []Option
	options = append(options, Option{Title: title, Author: author})

	if prefix, suffix, ok := splitTitle(title); ok {
		options = append(options,
			Option{Title: prefix, Author: author},
			Option{Title: suffix, Author: author},
		)
	}

	if prominent := largestAreaText(retained); prominent != "" {
		options = append(options, Option{Title: prominent, Author: author})
	}

	// Fallback: everything as the title with no author attached.
	options = append(options, Option{Title: full})

	return Result{Options: dedupe(options)}
}

// splitTitle cuts a title at the first delimiter, returning the main
// title and the subtitle.
func splitTitle(title string) (prefix, suffix string, ok bool) {
	cut := -1
	width := 0
	for _, d := range titleDelimiters {
		if i := strings.Index(title, d); i >= 0 && (cut < 0 || i < cut) {
			cut = i
			width = len(d)
		}
	}
	if cut <= 0 {
		return "", "", false
	}
	prefix = strings.TrimSpace(title[:cut])
	suffix = strings.TrimSpace(title[cut+width:])
	if prefix == "" || suffix == "" {
		return "", "", false
	}
	return prefix, suffix, true
}

// largestAreaText returns the text of the line with the biggest
// bounding box, the most visually prominent candidate for a title.
func largestAreaText(texts []vision.RecognizedText) string {
	best := -1
	bestArea := 0.0
	for i, t := range texts {
		if a := t.Area(); best < 0 || a > bestArea {
			best = i
			bestArea = a
		}
	}
	if best < 0 {
		return ""
	}
	return strings.TrimSpace(texts[best].Text)
}

func dedupe(options []Option) []Option {
	seen := make(map[Option]struct{}, len(options))
	out := options[:0]
	for _, o := range options {
		if o.Title == "" {
			continue
		}
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}
