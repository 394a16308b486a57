// Package recommend turns a weighted book list into catalog-backed
// recommendations: the list is summarized into search tags by a text
// generator, and each tag is resolved against the catalog.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/openshelf/shelfscan/internal/aggregate"
	"github.com/openshelf/shelfscan/internal/books"
	"github.com/openshelf/shelfscan/internal/providers"
)

const (
	// MaxBooks caps the size of the weighted input list.
	MaxBooks = 100

	// tagCount is how many tags the generator is asked for.
	tagCount = 15

	// separator keeps titles and authors with embedded punctuation
	// unambiguous in the prompt.
	separator = "|---|"

	// attemptMax bounds generator retries for one request.
	attemptMax = 3

	// resolveConcurrency bounds the per-tag catalog fan-out.
	resolveConcurrency = 5
)

// ErrNoTags is returned when the generator produces no usable tags.
// Unlike empty catalog results this is surfaced to the client, because
// without tags there is nothing to resolve.
var ErrNoTags = errors.New("unable to get tags from the given books")

var systemMessage = fmt.Sprintf(`You are a model which accepts a list of titles and authors. Using your knowledge of natural language and the internet, you will give a list of tags which generalizes the set of books. These tags will be used in a search query to find recommendations for more books.

In the input, you will accept 1 or more lines of text. Conditions:
- Each line is the format of "TITLE %[1]s AUTHOR %[1]s WEIGHT"
- Each weight is a number between 0 and 1.
- A weight of 0 means that related tags should NOT be included, while a weight of 1 means its tags should be heavily weighed.

You will output %[2]d tags, each on separate lines. Conditions:
- YOU MUST STRICTLY FOLLOW THIS FORMAT.
- Do not bulletpoint or number lines.
- These tags represent the best tags for the set.
- The best tags are first.
- You may include title and author if it is especially prominent in the given books.
`, separator, tagCount)

// Input is the weighted book list. The three slices are parallel and
// must be of equal positive length.
type Input struct {
	Titles  []string  `json:"titles"`
	Authors []string  `json:"authors"`
	Weights []float64 `json:"weights"`
}

// ValidationError describes a client-correctable problem with the
// input. Message is written to the client verbatim, so it is a full
// sentence. No external call is made when validation fails.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks presence, shape, and size of the input lists.
func (in Input) Validate() error {
	if in.Titles == nil {
		return &ValidationError{Message: `Body must have "titles" parameter (array of strings).`}
	}
	if in.Authors == nil {
		return &ValidationError{Message: `Body must have "authors" parameter (array of strings).`}
	}
	if in.Weights == nil {
		return &ValidationError{Message: `Body must have "weights" parameter (array of numbers between 0 and 1).`}
	}
	if len(in.Titles) != len(in.Authors) || len(in.Titles) != len(in.Weights) {
		return &ValidationError{Message: "All lists must be equal in length."}
	}
	if len(in.Titles) == 0 {
		return &ValidationError{Message: "Book list must not be empty."}
	}
	if len(in.Titles) > MaxBooks {
		return &ValidationError{Message: fmt.Sprintf("Too many books, must be at most %d.", MaxBooks)}
	}
	return nil
}

// Service composes the generator and the catalog resolver.
type Service struct {
	generator  providers.Provider
	resolver   books.Resolver
	model      string
	maxResults int
}

// NewService creates a recommendation service. maxResults bounds the
// final result list; zero means the aggregate default.
func NewService(generator providers.Provider, resolver books.Resolver, model string, maxResults int) *Service {
	if maxResults <= 0 {
		maxResults = aggregate.DefaultLimit
	}
	return &Service{
		generator:  generator,
		resolver:   resolver,
		model:      model,
		maxResults: maxResults,
	}
}

// Recommend validates the input, asks the generator for tags, resolves
// each tag against the catalog, and returns the merged bounded list.
// Returns ErrNoTags when the generator yields nothing usable; a
// ValidationError when the input is malformed.
func (s *Service) Recommend(ctx context.Context, in Input) ([]books.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tags, err := s.generateTags(ctx, in)
	if err != nil {
		return nil, err
	}

	slog.Info("Generated tags", "count", len(tags))

	lists := s.resolveTags(ctx, tags)
	return aggregate.Merge(lists, s.maxResults), nil
}

// generateTags polls the generator up to attemptMax times for a usable
// newline-separated tag list.
func (s *Service) generateTags(ctx context.Context, in Input) ([]string, error) {
	config := providers.Config{
		Model:       s.model,
		Temperature: 0.7,
		System:      systemMessage,
		Prompt:      inputMessage(in),
	}

	for attempt := 1; attempt <= attemptMax; attempt++ {
		text, err := s.generator.Complete(ctx, config)
		if err != nil {
			// A cancelled request is not a generator failure; stop
			// retrying and report the cancellation.
			if ctx.Err() != nil {
				return nil, fmt.Errorf("tag generation interrupted: %w", ctx.Err())
			}
			slog.Warn("Tag generation attempt failed", "attempt", attempt, "err", err)
			continue
		}

		tags := ParseTags(text)
		if len(tags) == 0 {
			slog.Warn("Tag generation returned no tags", "attempt", attempt)
			continue
		}

		slog.Debug("Tag generation succeeded", "attempts", attempt)
		return tags, nil
	}

	return nil, ErrNoTags
}

// resolveTags fans out one catalog call per tag. Results keep tag
// order regardless of completion order; a failed or empty lookup
// contributes an empty list instead of aborting the rest.
func (s *Service) resolveTags(ctx context.Context, tags []string) [][]books.Book {
	lists := make([][]books.Book, len(tags))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i, tag := range tags {
		g.Go(func() error {
			found, err := s.resolver.Search(ctx, books.Query{Phrase: tag})
			if err != nil {
				slog.Warn("Tag lookup failed", "tag", tag, "err", err)
				return nil
			}
			lists[i] = found
			return nil
		})
	}
	_ = g.Wait()

	return lists
}

// ParseTags splits a generator reply into trimmed, non-empty tag lines.
func ParseTags(text string) []string {
	var tags []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tags = append(tags, line)
	}
	return tags
}

// inputMessage renders the weighted book list for the prompt. Weights
// are clamped to [0,1].
func inputMessage(in Input) string {
	lines := make([]string, len(in.Titles))
	for i := range in.Titles {
		weight := in.Weights[i]
		if weight < 0 {
			weight = 0
		} else if weight > 1 {
			weight = 1
		}
		lines[i] = fmt.Sprintf("%s %s %s %s %g", in.Titles[i], separator, in.Authors[i], separator, weight)
	}
	return strings.Join(lines, "\n")
}
