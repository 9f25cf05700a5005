package oddsmath

import (
	"errors"
	"fmt"
	"math"
)

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
// American 0 has no meaning and returns the sentinel 0.
func AmericanToDecimal(american int) float64 {
	if american == 0 {
		return 0
	}

	if american > 0 {
		return 1.0 + float64(american)/100.0
	}

	return 1.0 - 100.0/float64(american)
}

// ImpliedProbability converts American odds directly to implied probability
// American +100 → 0.50
// American -110 → 0.5238
func ImpliedProbability(american int) float64 {
	if american > 0 {
		return 100.0 / (float64(american) + 100.0)
	}

	return float64(-american) / (float64(-american) + 100.0)
}

// DecimalToAmerican converts decimal odds back to American odds
// Decimal 2.50 → American +150
// Decimal 1.67 → American -150
// Returns 0 when the decimal is non-finite or <= 1.
func DecimalToAmerican(decimal float64) int {
	if math.IsNaN(decimal) || math.IsInf(decimal, 0) || decimal <= 1.0 {
		return 0
	}

	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0))
	}

	return int(math.Round(-100.0 / (decimal - 1.0)))
}

// ErrProbabilityOutOfRange is returned for probabilities outside the open interval (0, 1)
var ErrProbabilityOutOfRange = errors.New("probability must be strictly between 0 and 1")

// ProbabilityToDecimal returns the fair decimal price of a probability, 1/p.
func ProbabilityToDecimal(p float64) (float64, error) {
	if !IsFinite(p) || p <= 0 || p >= 1 {
		return 0, fmt.Errorf("%w: %v", ErrProbabilityOutOfRange, p)
	}
	return 1.0 / p, nil
}

// ProbabilityToAmerican returns the fair American price of a probability
// 0.40 → +150, 0.60 → -150
func ProbabilityToAmerican(p float64) (int, error) {
	dec, err := ProbabilityToDecimal(p)
	if err != nil {
		return 0, err
	}
	return DecimalToAmerican(dec), nil
}

// IsFinite reports whether f is neither NaN nor an infinity.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
