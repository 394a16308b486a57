package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/openshelf/shelfscan/internal/books"
	"github.com/openshelf/shelfscan/internal/scan"
)

// HandleScanCover identifies the single book on a cover photo sent as
// the raw request body.
func (h *Handler) HandleScanCover(w http.ResponseWriter, r *http.Request) {
	h.handleScan(w, r, h.scanner.ScanCover)
}

// HandleScanShelf identifies the books on a shelf photo sent as the raw
// request body.
func (h *Handler) HandleScanShelf(w http.ResponseWriter, r *http.Request) {
	h.handleScan(w, r, h.scanner.ScanShelf)
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request, pipeline func(ctx context.Context, data []byte) ([]books.Book, error)) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Failed to read request body.", http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		h.writeError(w, "Couldn't read an image from the given body.", http.StatusBadRequest)
		return
	}

	results, err := pipeline(r.Context(), data)
	if err != nil {
		if errors.Is(err, scan.ErrBadImage) {
			h.writeError(w, "Couldn't read an image from the given body.", http.StatusBadRequest)
			return
		}
		slog.Error("Scan failed", "err", err)
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeResults(w, results)
}
