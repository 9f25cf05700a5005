package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
)

// GetOdds returns the upstream games document unchanged
// Query params: sport, markets, regions, oddsFormat
func (h *Handler) GetOdds(w http.ResponseWriter, r *http.Request) {
	sport, present, allowed := h.sportParam(r)
	if !present {
		respondJSON(w, http.StatusOK, map[string]interface{}{"games": []interface{}{}})
		return
	}
	if !allowed {
		respondError(w, http.StatusBadRequest, "Invalid or missing sport", nil)
		return
	}

	q := r.URL.Query()
	data, err := h.source.FetchOdds(r.Context(), contracts.OddsQuery{
		Sport:      sport,
		Markets:    q.Get("markets"),
		Regions:    q.Get("regions"),
		OddsFormat: q.Get("oddsFormat"),
	})
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	if !isGamesDocument(data) {
		respondUpstreamError(w, fmt.Errorf("odds for %s: %w", sport, models.ErrInvalidDocument))
		return
	}

	respondJSON(w, http.StatusOK, map[string]json.RawMessage{"games": json.RawMessage(data)})
}

// isGamesDocument reports whether data is a well-formed JSON array
func isGamesDocument(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '[' && json.Valid(trimmed)
}
