// Package vision defines the boundary to the external text-recognition
// and book-detection models, plus the image handling shared by both.
package vision

import (
	"context"

	"github.com/openshelf/shelfscan/internal/geometry"
)

// RecognizedText is a single piece of text found in an image by the
// recognizer, with the corners of its bounding shape in pixel
// coordinates and a confidence in [0,1].
type RecognizedText struct {
	Text       string        `json:"text"`
	Corners    geometry.Quad `json:"corners"`
	Confidence float64       `json:"confidence"`
}

// Area returns the area of the text's bounding box.
func (r RecognizedText) Area() float64 {
	return r.Corners.Area()
}

// Center returns the centroid of the text's bounding box.
func (r RecognizedText) Center() geometry.Point {
	return r.Corners.Center()
}

// DetectedRegion is one detected book spine or cover. Box coordinates
// are normalized to [0,1] relative to the input image.
type DetectedRegion struct {
	Box        geometry.Box `json:"box"`
	ClassID    int          `json:"class"`
	ClassName  string       `json:"name"`
	Confidence float64      `json:"confidence"`
	Segments   Polygon      `json:"segments"`
}

// Polygon holds parallel coordinate sequences, matching the detector's
// segmentation output format.
type Polygon struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Recognizer finds text in an image.
type Recognizer interface {
	FindText(ctx context.Context, img Image) ([]RecognizedText, error)
}

// Detector finds book regions in an image. An empty result means no
// books were detected, which is a valid outcome.
type Detector interface {
	FindBooks(ctx context.Context, img Image) ([]DetectedRegion, error)
}
