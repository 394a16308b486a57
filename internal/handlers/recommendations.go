package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openshelf/shelfscan/internal/recommend"
)

// HandleRecommendations recommends books based on a weighted list of
// titles and authors.
func (h *Handler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	var input recommend.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, "Couldn't parse the given body.", http.StatusBadRequest)
		return
	}

	results, err := h.recommender.Recommend(r.Context(), input)
	if err != nil {
		var verr *recommend.ValidationError
		switch {
		case errors.As(err, &verr):
			h.writeError(w, verr.Message, http.StatusBadRequest)
		case errors.Is(err, recommend.ErrNoTags):
			h.writeError(w, "Unable to get tags from the given books.", http.StatusBadRequest)
		default:
			slog.Error("Recommendation failed", "err", err)
			h.writeError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.writeResults(w, results)
}
