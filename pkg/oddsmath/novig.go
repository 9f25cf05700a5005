package oddsmath

import (
	"errors"
	"fmt"
)

// ErrDegenerateMarket is returned when a set of probabilities cannot be normalized.
var ErrDegenerateMarket = errors.New("degenerate market: probabilities sum to <= 0")

// DevigMultiplicative removes vig from any number of outcomes using the multiplicative method
//
// Formula:
// 1. Sum the implied probabilities (the overround, typically > 1.0)
// 2. Normalize: fair_i = prob_i / sum
// 3. Fair probabilities now sum to 1.0
//
// Example:
// Side A: -110 (52.38% implied) | Side B: -110 (52.38% implied)
// Overround: 104.76% (4.76% vig)
// Fair: 50% / 50%
//
// Inputs that already sum to 1.0 come back unchanged.
func DevigMultiplicative(probabilities []float64) ([]float64, error) {
	if len(probabilities) == 0 {
		return nil, fmt.Errorf("need at least 1 probability")
	}

	total := 0.0
	for _, prob := range probabilities {
		if !IsFinite(prob) || prob < 0 {
			return nil, fmt.Errorf("invalid probability %v: must be finite and >= 0", prob)
		}
		total += prob
	}

	if !IsFinite(total) || total <= 0 {
		return nil, ErrDegenerateMarket
	}

	fair := make([]float64, len(probabilities))
	for i, prob := range probabilities {
		fair[i] = prob / total
	}

	return fair, nil
}

// NormalizeByName is the keyed form of DevigMultiplicative used by the fair-probability
// engine. It returns the normalized set and the raw sum.
func NormalizeByName(implied map[string]float64) (map[string]float64, float64) {
	total := 0.0
	for _, prob := range implied {
		total += prob
	}

	if !IsFinite(total) || total <= 0 {
		return nil, total
	}

	fair := make(map[string]float64, len(implied))
	for name, prob := range implied {
		fair[name] = prob / total
	}

	return fair, total
}

// VigPercentage calculates the vig (overround) percentage in a market
// Vig% = (TotalProb - 1.0) * 100
//
// Example:
// Outcome A: 52.38% | Outcome B: 52.38%
// Total: 104.76%
// Vig: 4.76%
func VigPercentage(probabilities []float64) float64 {
	total := 0.0
	for _, prob := range probabilities {
		total += prob
	}

	if total <= 1.0 {
		return 0
	}

	return (total - 1.0) * 100.0
}
