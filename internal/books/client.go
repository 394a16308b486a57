// Package books resolves title/author hypotheses and search phrases
// against the Google Books volumes API.
package books

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	books "google.golang.org/api/books/v1"
	"google.golang.org/api/option"
)

// isbn13Type is the industry identifier type that qualifies a volume
// for inclusion. Volumes carrying no ISBN-13 are discarded.
const isbn13Type = "ISBN_13"

// searchMaxResults bounds a single volumes call. The API allows up to 40.
const searchMaxResults = 20

// searchTimeout bounds a single volumes call in time, so a hung
// upstream cannot stall a request indefinitely.
const searchTimeout = 30 * time.Second

// Book is the catalog record shape exposed to the API surface. ISBN13
// is always present; it is the identity used for deduplication.
type Book struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	ISBN13        string   `json:"isbn"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Description   string   `json:"description,omitempty"`
	PageCount     int64    `json:"pageCount,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
}

// Query describes one volumes search. Phrase is free text; the other
// fields map to the API's qualified query terms.
type Query struct {
	Phrase    string
	Title     string
	Author    string
	Publisher string
	Subject   string
	ISBN      string
}

// IsZero reports whether no search terms are present.
func (q Query) IsZero() bool {
	return q.Phrase == "" && q.Title == "" && q.Author == "" &&
		q.Publisher == "" && q.Subject == "" && q.ISBN == ""
}

// terms renders the query in the volumes API q syntax.
func (q Query) terms() string {
	var parts []string
	if q.Phrase != "" {
		parts = append(parts, q.Phrase)
	}
	for _, t := range []struct{ field, value string }{
		{"intitle", q.Title},
		{"inauthor", q.Author},
		{"inpublisher", q.Publisher},
		{"subject", q.Subject},
		{"isbn", q.ISBN},
	} {
		if t.value == "" {
			continue
		}
		value := t.value
		if strings.ContainsRune(value, ' ') {
			value = `"` + value + `"`
		}
		parts = append(parts, t.field+":"+value)
	}
	return strings.Join(parts, " ")
}

// Resolver is the catalog lookup capability consumed by the scan and
// recommendation pipelines.
type Resolver interface {
	Search(ctx context.Context, q Query) ([]Book, error)
}

// Client is a Google Books backed Resolver.
type Client struct {
	svc     *books.Service
	timeout time.Duration
}

// NewClient creates a Google Books client. With no explicit options the
// client is configured from GOOGLE_BOOKS_API_KEY and
// GOOGLE_BOOKS_ENDPOINT; tests pass option.WithEndpoint pointing at an
// httptest server.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	if len(opts) == 0 {
		opts = optionsFromEnv()
	}

	svc, err := books.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create books service: %w", err)
	}
	return &Client{svc: svc, timeout: searchTimeout}, nil
}

func optionsFromEnv() []option.ClientOption {
	var opts []option.ClientOption
	if key := os.Getenv("GOOGLE_BOOKS_API_KEY"); key != "" {
		opts = append(opts, option.WithAPIKey(key))
	} else {
		opts = append(opts, option.WithoutAuthentication())
	}
	if endpoint := os.Getenv("GOOGLE_BOOKS_ENDPOINT"); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return opts
}

// Search issues exactly one volumes call and returns the qualifying
// records in source order. Items without an ISBN-13 identifier are
// dropped; the source's own ranking is otherwise preserved.
func (c *Client) Search(ctx context.Context, q Query) ([]Book, error) {
	terms := q.terms()
	if terms == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	volumes, err := c.svc.Volumes.List(terms).MaxResults(searchMaxResults).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("volumes search failed: %w", err)
	}

	results := make([]Book, 0, len(volumes.Items))
	for _, v := range volumes.Items {
		if v == nil || v.VolumeInfo == nil {
			continue
		}
		isbn := isbn13(v.VolumeInfo.IndustryIdentifiers)
		if isbn == "" {
			continue
		}

		book := Book{
			Title:         v.VolumeInfo.Title,
			Authors:       v.VolumeInfo.Authors,
			ISBN13:        isbn,
			Publisher:     v.VolumeInfo.Publisher,
			PublishedDate: v.VolumeInfo.PublishedDate,
			Description:   v.VolumeInfo.Description,
			PageCount:     v.VolumeInfo.PageCount,
		}
		if v.VolumeInfo.ImageLinks != nil {
			book.Thumbnail = v.VolumeInfo.ImageLinks.Thumbnail
		}
		results = append(results, book)
	}

	slog.Debug("Volumes search", "query", terms, "total", volumes.TotalItems, "qualifying", len(results))
	return results, nil
}

// isbn13 returns the first ISBN-13 identifier, ignoring identifiers of
// any other declared type.
func isbn13(identifiers []*books.VolumeVolumeInfoIndustryIdentifiers) string {
	for _, id := range identifiers {
		if id != nil && id.Type == isbn13Type && id.Identifier != "" {
			return id.Identifier
		}
	}
	return ""
}

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

// HypothesisQuery builds the free-text query for a title/author
// hypothesis: punctuation stripped and lowercased, author appended when
// present.
func HypothesisQuery(title, author string) Query {
	phrase := CleanPhrase(title)
	if a := CleanPhrase(author); a != "" {
		phrase = strings.TrimSpace(phrase + " " + a)
	}
	return Query{Phrase: phrase}
}

// CleanPhrase removes punctuation, lowercases, and collapses runs of
// whitespace.
func CleanPhrase(s string) string {
	s = punctuation.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
