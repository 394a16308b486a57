// Package scan implements the photo-to-books pipelines: a single cover
// photo or a whole shelf photo in, identified catalog records out.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/openshelf/shelfscan/internal/aggregate"
	"github.com/openshelf/shelfscan/internal/books"
	"github.com/openshelf/shelfscan/internal/extraction"
	"github.com/openshelf/shelfscan/internal/vision"
)

const (
	// minConfidence drops recognizer output below this confidence.
	minConfidence = 0.3

	// minTextLength drops recognized fragments shorter than this many
	// characters, which are almost always noise.
	minTextLength = 2

	// perRegionResults caps how many records one shelf region may
	// contribute before cross-region merging.
	perRegionResults = 5

	// regionConcurrency bounds the per-region resolution fan-out.
	regionConcurrency = 5
)

// ErrBadImage marks request bodies that could not be decoded as an
// image.
var ErrBadImage = errors.New("could not read an image from the given body")

// Service runs the scan pipelines over injected vision and catalog
// backends.
type Service struct {
	recognizer vision.Recognizer
	detector   vision.Detector
	resolver   books.Resolver
	maxResults int
}

// NewService creates a scan service. maxResults bounds the final result
// list of both pipelines; zero means the aggregate default.
func NewService(recognizer vision.Recognizer, detector vision.Detector, resolver books.Resolver, maxResults int) *Service {
	if maxResults <= 0 {
		maxResults = aggregate.DefaultLimit
	}
	return &Service{
		recognizer: recognizer,
		detector:   detector,
		resolver:   resolver,
		maxResults: maxResults,
	}
}

// ScanCover identifies the single book on a cover photo. A photo in
// which no book can be identified yields an empty list, not an error;
// only an undecodable image is an error.
func (s *Service) ScanCover(ctx context.Context, data []byte) ([]books.Book, error) {
	img, err := vision.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	texts, err := s.recognizer.FindText(ctx, img)
	if err != nil {
		// The recognizer being down means nothing was identified,
		// not that the request failed.
		slog.Warn("Text recognition failed", "err", err)
		return []books.Book{}, nil
	}

	texts = filterTexts(texts)
	result := extraction.Extract(texts, nil)
	slog.Debug("Cover extraction", "texts", len(texts), "options", len(result.Options))

	found := s.resolveOptions(ctx, result.Options)
	return aggregate.Merge([][]books.Book{found}, s.maxResults), nil
}

// ScanShelf identifies the books on a shelf photo. Detected regions are
// resolved concurrently but contribute to the final list in detection
// order, so identical photos produce identical result order.
func (s *Service) ScanShelf(ctx context.Context, data []byte) ([]books.Book, error) {
	img, err := vision.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	var (
		regions []vision.DetectedRegion
		texts   []vision.RecognizedText
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.detector.FindBooks(gctx, img)
		if err != nil {
			slog.Warn("Book detection failed", "err", err)
			return nil
		}
		regions = found
		return nil
	})
	g.Go(func() error {
		found, err := s.recognizer.FindText(gctx, img)
		if err != nil {
			slog.Warn("Text recognition failed", "err", err)
			return nil
		}
		texts = found
		return nil
	})
	_ = g.Wait()

	texts = filterTexts(texts)
	slog.Debug("Shelf scan", "regions", len(regions), "texts", len(texts))
	if len(regions) == 0 || len(texts) == 0 {
		return []books.Book{}, nil
	}

	width := float64(img.Width)
	height := float64(img.Height)

	lists := make([][]books.Book, len(regions))
	rg, rctx := errgroup.WithContext(ctx)
	rg.SetLimit(regionConcurrency)
	for i, region := range regions {
		rg.Go(func() error {
			hint := region.Box.Scale(width, height).Clamp(width, height)
			result := extraction.Extract(texts, &hint)
			if len(result.Options) == 0 {
				return nil
			}

			found := s.resolveOptions(rctx, result.Options)
			if len(found) > perRegionResults {
				found = found[:perRegionResults]
			}
			lists[i] = found
			return nil
		})
	}
	_ = rg.Wait()

	return aggregate.Merge(lists, s.maxResults), nil
}

// resolveOptions tries the hypotheses in order and returns the catalog
// hits of the first one that matches anything. Lookup failures count as
// no match so later hypotheses still get their turn.
func (s *Service) resolveOptions(ctx context.Context, options []extraction.Option) []books.Book {
	for _, opt := range options {
		query := books.HypothesisQuery(opt.Title, opt.Author)
		found, err := s.resolver.Search(ctx, query)
		if err != nil {
			slog.Warn("Catalog lookup failed", "title", opt.Title, "err", err)
			continue
		}
		if len(found) > 0 {
			return found
		}
	}
	return nil
}

// filterTexts keeps recognizer output that clears the confidence floor
// and the minimum length, counted in characters rather than bytes.
func filterTexts(texts []vision.RecognizedText) []vision.RecognizedText {
	kept := texts[:0]
	for _, t := range texts {
		if t.Confidence < minConfidence || utf8.RuneCountInString(t.Text) < minTextLength {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
