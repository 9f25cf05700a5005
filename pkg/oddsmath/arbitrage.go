package oddsmath

// ArbitrageResult describes a basket of decimal prices, one per outcome.
type ArbitrageResult struct {
	InverseSum  float64
	ROIPercent  float64
	IsArbitrage bool
}

// Arbitrage checks whether backing every outcome at the given decimal odds guarantees a profit
// Arbitrage exists when: Σ(1/decimal_i) < 1
// ROI% = (1/Σ(1/decimal_i) - 1) * 100
//
// Fewer than two prices, or any price <= 1, is never an arbitrage.
func Arbitrage(decimalOdds []float64) ArbitrageResult {
	if len(decimalOdds) < 2 {
		return ArbitrageResult{}
	}

	inverseSum := 0.0
	for _, decimal := range decimalOdds {
		if !IsFinite(decimal) || decimal <= 1.0 {
			return ArbitrageResult{}
		}
		inverseSum += 1.0 / decimal
	}

	roi := (1.0/inverseSum - 1.0) * 100.0

	return ArbitrageResult{
		InverseSum:  inverseSum,
		ROIPercent:  roi,
		IsArbitrage: roi > 0,
	}
}

// StakeShares returns the fraction of the total stake to place on each leg so that
// every outcome pays the same amount. Shares sum to 1.0.
func StakeShares(decimalOdds []float64) []float64 {
	if len(decimalOdds) == 0 {
		return nil
	}

	inverseSum := 0.0
	for _, decimal := range decimalOdds {
		inverseSum += 1.0 / decimal
	}

	shares := make([]float64, len(decimalOdds))
	for i, decimal := range decimalOdds {
		shares[i] = (1.0 / decimal) / inverseSum
	}

	return shares
}
