package calculator

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/oddsmath"
)

// CalculateArbStakes splits totalStake across decimal prices so that every outcome
// returns the same amount. Stakes are rounded to cents.
func CalculateArbStakes(decimalOdds []float64, totalStake float64) (*models.ArbStakePlan, error) {
	if totalStake <= 0 {
		return nil, fmt.Errorf("stake must be positive")
	}

	arb := oddsmath.Arbitrage(decimalOdds)
	if !arb.IsArbitrage {
		return nil, fmt.Errorf("no arbitrage exists: inverse sum = %.4f", arb.InverseSum)
	}

	shares := oddsmath.StakeShares(decimalOdds)
	legs := make([]models.ArbStakeLeg, len(decimalOdds))
	for i, dec := range decimalOdds {
		stake := round(totalStake * shares[i])
		legs[i] = models.ArbStakeLeg{
			Decimal:         dec,
			Stake:           stake,
			PotentialReturn: round(stake * dec),
		}
	}

	guaranteedProfit := round(totalStake/arb.InverseSum - totalStake)

	warnings := []string{}
	if arb.ROIPercent < 1.0 {
		warnings = append(warnings, "Low profit margin - consider transaction costs")
	}
	if totalStake > 1000 {
		warnings = append(warnings, "Book limits may prevent full stake")
	}

	return &models.ArbStakePlan{
		TotalStake:       round(totalStake),
		GuaranteedProfit: guaranteedProfit,
		ProfitPercent:    arb.ROIPercent,
		Legs:             legs,
		Warnings:         warnings,
	}, nil
}
