package models

import "github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/oddsmath"

// CLVRequest asks for the closing line value between two American prices
type CLVRequest struct {
	OpenOdds  *int `json:"openOdds" validate:"required,ne=0"`
	CloseOdds *int `json:"closeOdds" validate:"required,ne=0"`
}

// CLVResponse is the implied-probability delta in cents per dollar
type CLVResponse struct {
	CLV float64 `json:"clv"`
}

// DevigRequest carries an arbitrary list of implied probabilities
type DevigRequest struct {
	Probs []float64 `json:"probs" validate:"required,min=1,max=64,dive,gte=0"`
}

// DevigResponse carries the normalized probabilities
type DevigResponse struct {
	Fair []float64 `json:"fair"`
	Vig  float64   `json:"vig_pct"`
}

// ArbCheckRequest carries three decimal prices, one per outcome of a three-way market
type ArbCheckRequest struct {
	P1 *float64 `json:"p1" validate:"required"`
	P2 *float64 `json:"p2" validate:"required"`
	P3 *float64 `json:"p3" validate:"required"`

	// Stake, when set, asks for a stake plan across the three legs
	Stake *float64 `json:"stake,omitempty" validate:"omitempty,gt=0"`
}

// ArbCheckResponse reports whether the three prices form an arbitrage
type ArbCheckResponse struct {
	Arb        bool    `json:"arb"`
	ROIPercent float64 `json:"roi_pct"`
	InverseSum float64 `json:"inverse_sum"`

	Plan *ArbStakePlan `json:"plan,omitempty"`
}

// ArbStakeLeg is the rounded stake for one leg of an arbitrage
type ArbStakeLeg struct {
	Decimal         float64 `json:"decimal"`
	Stake           float64 `json:"stake"`
	PotentialReturn float64 `json:"potential_return"`
}

// ArbStakePlan splits a total stake so every outcome returns the same amount
type ArbStakePlan struct {
	TotalStake       float64       `json:"total_stake"`
	GuaranteedProfit float64       `json:"guaranteed_profit"`
	ProfitPercent    float64       `json:"profit_pct"`
	Legs             []ArbStakeLeg `json:"legs"`
	Warnings         []string      `json:"warnings"`
}

// EVRequest computes the dollar EV of a single bet
type EVRequest struct {
	Prob   *float64 `json:"prob" validate:"required,gte=0,lte=1"`
	Payout *float64 `json:"payout" validate:"required,gte=0"`
	Stake  *float64 `json:"stake" validate:"required,gte=0"`
}

// EVResponse carries the dollar EV
type EVResponse struct {
	EV float64 `json:"ev"`
}

// QuickEVRequest lists American prices to evaluate without cross-book data
type QuickEVRequest struct {
	Prices []int `json:"prices" validate:"required,min=1,max=100"`
}

// QuickEVResponse carries one QuickEV result per requested price
type QuickEVResponse struct {
	Results []oddsmath.QuickEVResult `json:"results"`
}

// ParlayLeg is one leg of a parlay with its fair probability
type ParlayLeg struct {
	Price    int     `json:"price" validate:"required,ne=0"`
	FairProb float64 `json:"fair_prob" validate:"gt=0,lte=1"`
}

// ParlayRequest builds a parlay from 2 to 10 legs
type ParlayRequest struct {
	Legs  []ParlayLeg `json:"legs" validate:"required,min=2,max=10,dive"`
	Stake float64     `json:"stake" validate:"gt=0"`
}

// ParlayResult summarizes a parlay's price, payout and edge
type ParlayResult struct {
	Legs          int     `json:"legs"`
	BookDecimal   float64 `json:"book_decimal"`
	BookAmerican  int     `json:"book_american"`
	FairProb      float64 `json:"fair_prob"`
	FairDecimal   float64 `json:"fair_decimal"`
	FairAmerican  int     `json:"fair_american"`
	Stake         float64 `json:"stake"`
	Payout        float64 `json:"payout"`
	Profit        float64 `json:"profit"`
	EVPercent     float64 `json:"ev_pct"`
	ExpectedValue float64 `json:"expected_value"`
}
