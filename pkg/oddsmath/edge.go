package oddsmath

import "math"

// EdgePercent calculates the percentage by which offered decimal odds beat the fair decimal odds
// Edge% = (userDecimal / fairDecimal - 1) * 100
//
// Example:
// Fair Probability: 50% (fair decimal 2.00)
// Offered Odds: +110 (decimal 2.10)
// Edge: (2.10 / 2.00 - 1) * 100 = 5%
func EdgePercent(userDecimal, fairDecimal float64) float64 {
	if fairDecimal <= 0 {
		return 0
	}
	return (userDecimal/fairDecimal - 1.0) * 100.0
}

// QuickEVResult is the single-price EV triple used when only one book's price is known.
type QuickEVResult struct {
	Price              int      `json:"price"`
	ImpliedProbability float64  `json:"implied_probability"`
	FairOdds           *float64 `json:"fair_odds"`
	Edge               *float64 `json:"edge"`
	EVDollar           float64  `json:"ev_dollar"`
}

// QuickEV derives implied probability, fair odds and edge straight from one price.
// It never fails: a zero price yields a nil edge, a zero probability a nil fair odds.
func QuickEV(price int) QuickEVResult {
	result := QuickEVResult{Price: price}

	implied := ImpliedProbability(price)
	if !IsFinite(implied) {
		implied = 0
	}
	result.ImpliedProbability = implied

	if implied != 0 {
		fair := (1.0 / implied) * 100.0
		result.FairOdds = &fair
	}

	if result.FairOdds != nil && price != 0 {
		edge := ((*result.FairOdds - float64(price)) / math.Abs(float64(price))) * 100.0
		result.Edge = &edge
		if edge != 0 {
			result.EVDollar = edge / 100.0
		}
	}

	return result
}

// ExpectedValue returns the dollar EV of a bet
// EV$ = (P(win) × payout) - (P(lose) × stake)
func ExpectedValue(probability, payout, stake float64) float64 {
	return probability*payout - (1.0-probability)*stake
}

// CLV calculates closing line value in cents per dollar
// CLV = (impliedProb(close) - impliedProb(open)) * 100
// Positive means the line moved toward the side that was bet.
func CLV(openPrice, closePrice int) float64 {
	return (ImpliedProbability(closePrice) - ImpliedProbability(openPrice)) * 100.0
}
