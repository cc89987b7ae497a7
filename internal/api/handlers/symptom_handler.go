package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/medtriage/backend/internal/adapters/search"
)

// SymptomSuggester resolves free-text input against the symptom index.
type SymptomSuggester interface {
	Suggest(ctx context.Context, query string, limit int) ([]search.SymptomSuggestion, error)
}

// SymptomHandler serves symptom vocabulary suggestions.
type SymptomHandler struct {
	suggester SymptomSuggester
}

// NewSymptomHandler creates a new symptom handler.
func NewSymptomHandler(suggester SymptomSuggester) *SymptomHandler {
	return &SymptomHandler{suggester: suggester}
}

// Suggest handles GET /api/symptoms/suggest?q=
func (h *SymptomHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if h.suggester == nil {
		respondWithError(w, http.StatusServiceUnavailable, "symptom search is not enabled")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			respondWithError(w, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = parsed
	}

	suggestions, err := h.suggester.Suggest(r.Context(), query, limit)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "symptom search failed")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"query":       query,
		"suggestions": suggestions,
	})
}
