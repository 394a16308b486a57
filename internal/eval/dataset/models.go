package dataset

import (
	"github.com/openshelf/shelfscan/internal/geometry"
	"github.com/openshelf/shelfscan/internal/vision"
)

// ScanRecord is one labeled cover scan: the recognizer output captured
// for a photo plus the ground-truth identity of the book on it. The
// coordinate lists are parallel to Lines; a record without geometry is
// still usable, the lines are then laid out top to bottom.
type ScanRecord struct {
	// Identity of the record within the dataset
	ID string `json:"id" parquet:"id"`

	// Ground truth
	Title  string `json:"title" parquet:"title"`
	Author string `json:"author" parquet:"author"`
	ISBN13 string `json:"isbn_13" parquet:"isbn_13"`

	// Captured recognizer output
	Lines       []string  `json:"lines" parquet:"lines,list"`
	Confidences []float64 `json:"confidences" parquet:"confidences,list"`

	// Bounding boxes, one per line, as parallel coordinate lists
	X1 []float64 `json:"x1" parquet:"x1,list"`
	Y1 []float64 `json:"y1" parquet:"y1,list"`
	X2 []float64 `json:"x2" parquet:"x2,list"`
	Y2 []float64 `json:"y2" parquet:"y2,list"`
}

// Texts converts the captured lines back into recognizer output.
// Missing confidences default to 1; missing geometry stacks the lines
// vertically so reading order matches line order.
func (r *ScanRecord) Texts() []vision.RecognizedText {
	texts := make([]vision.RecognizedText, len(r.Lines))
	for i, line := range r.Lines {
		box := geometry.Box{X1: 0, Y1: float64(i * 10), X2: 100, Y2: float64(i*10 + 8)}
		if i < len(r.X1) && i < len(r.Y1) && i < len(r.X2) && i < len(r.Y2) {
			box = geometry.Box{X1: r.X1[i], Y1: r.Y1[i], X2: r.X2[i], Y2: r.Y2[i]}
		}

		confidence := 1.0
		if i < len(r.Confidences) {
			confidence = r.Confidences[i]
		}

		texts[i] = vision.RecognizedText{
			Text: line,
			Corners: geometry.Quad{
				{X: box.X1, Y: box.Y1},
				{X: box.X2, Y: box.Y1},
				{X: box.X2, Y: box.Y2},
				{X: box.X1, Y: box.Y2},
			},
			Confidence: confidence,
		}
	}
	return texts
}
