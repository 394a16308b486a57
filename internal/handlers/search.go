package handlers

import (
	"log/slog"
	"net/http"

	"github.com/openshelf/shelfscan/internal/books"
)

// HandleSearch searches the catalog directly. At least one query
// parameter must be non-empty.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := books.Query{
		Phrase:    params.Get("q"),
		Title:     params.Get("title"),
		Author:    params.Get("author"),
		Publisher: params.Get("publisher"),
		Subject:   params.Get("subject"),
		ISBN:      params.Get("isbn"),
	}

	if query.IsZero() {
		h.writeError(w, "Must provide at least one search parameter.", http.StatusBadRequest)
		return
	}

	results, err := h.resolver.Search(r.Context(), query)
	if err != nil {
		slog.Error("Search failed", "err", err)
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeResults(w, results)
}
