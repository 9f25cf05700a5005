package handlers

import (
	"net/http"
	"strings"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
)

const bonusMarkets = "h2h,spreads,totals"

// Bonus ranks outcomes by the value of a sportsbook promotion
// Query params: sport, bonusType, bonusAmount, minOdds, marketType, book, regions
func (h *Handler) Bonus(w http.ResponseWriter, r *http.Request) {
	sport, present, allowed := h.sportParam(r)
	if !present || !allowed {
		respondError(w, http.StatusBadRequest, "Invalid or missing sport", nil)
		return
	}

	q := r.URL.Query()

	bonusType := models.BonusRiskFree
	if raw := q.Get("bonusType"); raw != "" {
		bonusType = models.BonusType(raw)
	}
	if !models.ValidBonusTypes[bonusType] {
		respondError(w, http.StatusBadRequest, "bonusType must be one of risk-free, deposit-match, odds-boost, profit-boost", nil)
		return
	}

	params := models.BonusParams{
		Sport:      sport,
		MarketType: marketTypeParam(r),
		Book:       strings.TrimSpace(q.Get("book")),
		Type:       bonusType,
		Amount:     parseFloatParam(r, "bonusAmount", 100, 0, 1000000),
		MinOdds:    parseIntParam(r, "minOdds", -200, -10000, 10000),
	}

	result, err := h.engine.Bonus(r.Context(), params, bonusMarkets, q.Get("regions"))
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
