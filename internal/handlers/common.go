// Package handlers exposes the scan, search, and recommendation
// pipelines over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/openshelf/shelfscan/internal/books"
	"github.com/openshelf/shelfscan/internal/recommend"
)

// maxBodyBytes caps uploaded photo size.
const maxBodyBytes = 10 * 1024 * 1024

// Scanner identifies books on photos.
type Scanner interface {
	ScanCover(ctx context.Context, data []byte) ([]books.Book, error)
	ScanShelf(ctx context.Context, data []byte) ([]books.Book, error)
}

// Recommender turns a weighted book list into recommendations.
type Recommender interface {
	Recommend(ctx context.Context, in recommend.Input) ([]books.Book, error)
}

type Handler struct {
	scanner     Scanner
	recommender Recommender
	resolver    books.Resolver
}

func New(scanner Scanner, recommender Recommender, resolver books.Resolver) *Handler {
	return &Handler{
		scanner:     scanner,
		recommender: recommender,
		resolver:    resolver,
	}
}

// resultsResponse is the envelope every book-list endpoint returns.
type resultsResponse struct {
	Message      string       `json:"message"`
	Results      []books.Book `json:"results"`
	ResultsCount int          `json:"resultsCount"`
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeResults wraps a book list in the standard envelope. A nil list
// still serializes as an empty array.
func (h *Handler) writeResults(w http.ResponseWriter, results []books.Book) {
	if results == nil {
		results = []books.Book{}
	}
	message := "No books found."
	if len(results) > 0 {
		message = fmt.Sprintf("Found %d books.", len(results))
	}
	h.writeJSON(w, resultsResponse{
		Message:      message,
		Results:      results,
		ResultsCount: len(results),
	})
}

// writeError logs client-correctable failures at Warn and server
// failures at Error.
func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Warn(message)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": message}); err != nil {
		slog.Error("Unable to encode JSON error response", "err", err)
	}
}
