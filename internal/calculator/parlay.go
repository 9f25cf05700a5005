package calculator

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/oddsmath"
)

// Parlay leg limits
const (
	MinParlayLegs = 2
	MaxParlayLegs = 10
)

// CalculateParlay prices a parlay from its legs' American odds and fair probabilities
//
// bookDecimal = Π decimal_i
// fairProb    = Π fairProb_i
// EV%         = (bookDecimal × fairProb - 1) × 100
func CalculateParlay(legs []models.ParlayLeg, stake float64) (*models.ParlayResult, error) {
	if len(legs) < MinParlayLegs {
		return nil, fmt.Errorf("parlay needs at least %d legs, got %d", MinParlayLegs, len(legs))
	}
	if len(legs) > MaxParlayLegs {
		return nil, fmt.Errorf("parlay supports up to %d legs, got %d", MaxParlayLegs, len(legs))
	}
	if stake <= 0 {
		return nil, fmt.Errorf("stake must be positive")
	}

	bookDecimal := 1.0
	fairProb := 1.0

	for i, leg := range legs {
		if leg.Price == 0 {
			return nil, fmt.Errorf("leg %d has no price", i+1)
		}
		if leg.FairProb <= 0 || leg.FairProb > 1 {
			return nil, fmt.Errorf("leg %d fair probability %.4f out of range", i+1, leg.FairProb)
		}

		bookDecimal *= oddsmath.AmericanToDecimal(leg.Price)
		fairProb *= leg.FairProb
	}

	payout := bookDecimal * stake
	evPercent := (bookDecimal*fairProb - 1.0) * 100.0
	fairDecimal := 1.0 / fairProb

	return &models.ParlayResult{
		Legs:          len(legs),
		BookDecimal:   bookDecimal,
		BookAmerican:  oddsmath.DecimalToAmerican(bookDecimal),
		FairProb:      fairProb,
		FairDecimal:   fairDecimal,
		FairAmerican:  oddsmath.DecimalToAmerican(fairDecimal),
		Stake:         round(stake),
		Payout:        round(payout),
		Profit:        round(payout - stake),
		EVPercent:     evPercent,
		ExpectedValue: round(evPercent / 100.0 * stake),
	}, nil
}
