package detector

import (
	"math"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/oddsmath"
)

// Fair probability bounds. Anything at or beyond them is treated as a clamp artifact.
const (
	MinFairProbability = 0.05
	MaxFairProbability = 0.95

	// pointTolerance is how close two spread/total lines must be to count as the same line
	pointTolerance = 0.01
)

// FallbackReason names the check that sent the engine back to the single-book price
type FallbackReason string

const (
	FallbackNone           FallbackReason = ""
	FallbackNoBookmakers   FallbackReason = "no_bookmakers"
	FallbackNoMarketData   FallbackReason = "no_market_data"
	FallbackDegenerateSum  FallbackReason = "degenerate_sum"
	FallbackMissingOutcome FallbackReason = "missing_outcome"
)

// FairQuery identifies the outcome whose fair probability is wanted
type FairQuery struct {
	MarketKey     string
	OutcomeName   string
	Point         *float64 // nil matches every line
	FallbackPrice int      // the quoting book's own price
}

// FairEstimate is the result of one fair-probability computation
type FairEstimate struct {
	Probability float64        // clamped to [MinFairProbability, MaxFairProbability]
	Unclamped   float64        // value before clamping
	Fallback    FallbackReason // FallbackNone when the pooled market was used
	Outcomes    int            // outcome names pooled across books
	Overround   float64        // sum of best-price implied probabilities
}

// pooledMarket is the cross-book view of one market line
type pooledMarket struct {
	best      map[string]int // outcome name -> best American price
	fair      map[string]float64
	overround float64
}

// fallbackCheck is one step of the ordered fallback chain. It returns FallbackNone to
// let the chain continue.
type fallbackCheck func(game models.Game, q FairQuery, m *pooledMarket) FallbackReason

// fallbackChain runs in order; the first check that fires decides the fallback.
var fallbackChain = []fallbackCheck{
	checkBookmakers,
	checkMarketData,
	checkDegenerateSum,
	checkTargetOutcome,
}

// FairProbability estimates the vig-free probability of one outcome by pooling the best
// price for every outcome of the market across all books and normalizing.
// When the pooled market cannot be used the quoting book's implied probability is used
// instead. The result is always clamped to [0.05, 0.95].
func FairProbability(game models.Game, q FairQuery) FairEstimate {
	market := &pooledMarket{}

	for _, check := range fallbackChain {
		if reason := check(game, q, market); reason != FallbackNone {
			return clampEstimate(FairEstimate{
				Unclamped: oddsmath.ImpliedProbability(q.FallbackPrice),
				Fallback:  reason,
				Outcomes:  len(market.best),
				Overround: market.overround,
			})
		}
	}

	return clampEstimate(FairEstimate{
		Unclamped: market.fair[q.OutcomeName],
		Outcomes:  len(market.best),
		Overround: market.overround,
	})
}

// checkBookmakers falls back when the game carries no bookmaker data at all.
func checkBookmakers(game models.Game, _ FairQuery, _ *pooledMarket) FallbackReason {
	if len(game.Bookmakers) == 0 {
		return FallbackNoBookmakers
	}
	return FallbackNone
}

// checkMarketData collects the best price per outcome name and falls back when no book
// quotes the market on the requested line.
func checkMarketData(game models.Game, q FairQuery, m *pooledMarket) FallbackReason {
	m.best = bestPrices(game, q.MarketKey, q.Point)
	if len(m.best) == 0 {
		return FallbackNoMarketData
	}
	return FallbackNone
}

// checkDegenerateSum normalizes the best-price implied probabilities and falls back
// when their sum is unusable.
func checkDegenerateSum(_ models.Game, _ FairQuery, m *pooledMarket) FallbackReason {
	implied := make(map[string]float64, len(m.best))
	for name, price := range m.best {
		implied[name] = oddsmath.ImpliedProbability(price)
	}

	m.fair, m.overround = oddsmath.NormalizeByName(implied)
	if m.fair == nil {
		return FallbackDegenerateSum
	}
	return FallbackNone
}

// checkTargetOutcome falls back when the normalized set has no usable value for the outcome.
func checkTargetOutcome(_ models.Game, q FairQuery, m *pooledMarket) FallbackReason {
	p, ok := m.fair[q.OutcomeName]
	if !ok || p == 0 || !oddsmath.IsFinite(p) {
		return FallbackMissingOutcome
	}
	return FallbackNone
}

// bestPrices returns the highest price per outcome name for the market key on the
// requested line across every bookmaker.
func bestPrices(game models.Game, marketKey string, point *float64) map[string]int {
	best := make(map[string]int)

	for _, bm := range game.Bookmakers {
		for _, mkt := range bm.Markets {
			if mkt.Key != marketKey {
				continue
			}

			for _, o := range mkt.Outcomes {
				if !o.HasPrice() || !samePoint(point, o.Point) {
					continue
				}

				if current, ok := best[o.Name]; !ok || o.Price > current {
					best[o.Name] = o.Price
				}
			}
		}
	}

	return best
}

// samePoint treats a missing line on either side as matching anything.
func samePoint(target, candidate *float64) bool {
	if target == nil || candidate == nil {
		return true
	}
	return math.Abs(*candidate-*target) < pointTolerance
}

func clampEstimate(est FairEstimate) FairEstimate {
	p := est.Unclamped
	if math.IsNaN(p) {
		p = MinFairProbability
	}
	est.Probability = math.Max(MinFairProbability, math.Min(MaxFairProbability, p))
	return est
}

// IsClampArtifact reports whether a fair probability sits at or beyond the clamp bounds.
func IsClampArtifact(p float64) bool {
	return p >= MaxFairProbability || p <= MinFairProbability
}
