package handlers

import (
	"net/http"
	"strings"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/detector"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
)

// Scan returns +EV rows and arbitrage opportunities for one sport
// Query params: sport, marketType, book, minEdge, minRoi, books, markets, regions
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	sport, present, allowed := h.sportParam(r)
	if !present {
		respondJSON(w, http.StatusOK, models.ScanResult{
			EV:      []models.EVRow{},
			Arbs:    []models.ArbOpportunity{},
			Message: detector.MessageNoGames,
		})
		return
	}
	if !allowed {
		respondError(w, http.StatusBadRequest, "Invalid or missing sport", nil)
		return
	}

	q := r.URL.Query()
	params := models.ScanParams{
		Sport:      sport,
		Markets:    q.Get("markets"),
		Regions:    q.Get("regions"),
		MarketType: marketTypeParam(r),
		Book:       strings.TrimSpace(q.Get("book")),
		Books:      parseListParam(r, "books"),
		MinEdge:    parseFloatParam(r, "minEdge", 0, -10, 100),
		MinROI:     parseFloatParam(r, "minRoi", 0, 0, 100),
		BaseStake:  h.baseStake,
	}

	result, err := h.engine.Scan(r.Context(), params)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// marketTypeParam returns all, main or props; anything else means all
func marketTypeParam(r *http.Request) string {
	switch mt := r.URL.Query().Get("marketType"); mt {
	case models.BucketMain, models.BucketProps:
		return mt
	default:
		return models.BucketAll
	}
}
