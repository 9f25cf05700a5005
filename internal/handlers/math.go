package handlers

import (
	"net/http"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/oddsmath"
)

// CLV returns the closing line value between an open and a close price
func (h *Handler) CLV(w http.ResponseWriter, r *http.Request) {
	var req models.CLVRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	respondJSON(w, http.StatusOK, models.CLVResponse{
		CLV: oddsmath.CLV(*req.OpenOdds, *req.CloseOdds),
	})
}

// Devig normalizes implied probabilities so they sum to 1
func (h *Handler) Devig(w http.ResponseWriter, r *http.Request) {
	var req models.DevigRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	fair, err := oddsmath.DevigMultiplicative(req.Probs)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	respondJSON(w, http.StatusOK, models.DevigResponse{
		Fair: fair,
		Vig:  oddsmath.VigPercentage(req.Probs),
	})
}

// Arb checks three decimal prices for a guaranteed profit and, given a stake, splits it
func (h *Handler) Arb(w http.ResponseWriter, r *http.Request) {
	var req models.ArbCheckRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	decimals := []float64{*req.P1, *req.P2, *req.P3}
	arb := oddsmath.Arbitrage(decimals)

	resp := models.ArbCheckResponse{
		Arb:        arb.IsArbitrage,
		ROIPercent: arb.ROIPercent,
		InverseSum: arb.InverseSum,
	}

	if req.Stake != nil && arb.IsArbitrage {
		plan, err := calculator.CalculateArbStakes(decimals, *req.Stake)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		resp.Plan = plan
	}

	respondJSON(w, http.StatusOK, resp)
}

// EV returns prob*payout - (1-prob)*stake
func (h *Handler) EV(w http.ResponseWriter, r *http.Request) {
	var req models.EVRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	respondJSON(w, http.StatusOK, models.EVResponse{
		EV: oddsmath.ExpectedValue(*req.Prob, *req.Payout, *req.Stake),
	})
}

// QuickEV evaluates each price on its own, without cross-book data
func (h *Handler) QuickEV(w http.ResponseWriter, r *http.Request) {
	var req models.QuickEVRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	results := make([]oddsmath.QuickEVResult, len(req.Prices))
	for i, price := range req.Prices {
		results[i] = oddsmath.QuickEV(price)
	}

	respondJSON(w, http.StatusOK, models.QuickEVResponse{Results: results})
}

// Parlay prices a parlay against the product of its legs' fair probabilities
func (h *Handler) Parlay(w http.ResponseWriter, r *http.Request) {
	var req models.ParlayRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := calculator.CalculateParlay(req.Legs, req.Stake)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
