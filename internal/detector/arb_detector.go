package detector

import (
	"sort"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/oddsmath"
)

// DefaultBaseStake is the reference total stake split across arbitrage legs
const DefaultBaseStake = 100.0

// ArbDetector finds head-to-head markets where the best cross-book prices guarantee a return
type ArbDetector struct {
	baseStake float64
	minROI    float64
	books     map[string]bool
}

// NewArbDetector creates an arbitrage detector. An empty books list allows every book.
func NewArbDetector(baseStake, minROI float64, books []string) *ArbDetector {
	if baseStake <= 0 {
		baseStake = DefaultBaseStake
	}

	allowed := make(map[string]bool, len(books))
	for _, b := range books {
		if b != "" {
			allowed[b] = true
		}
	}

	return &ArbDetector{
		baseStake: baseStake,
		minROI:    minROI,
		books:     allowed,
	}
}

// bestQuote is the best price seen for one outcome name
type bestQuote struct {
	name     string
	price    int
	bookKey  string
	bookName string
}

// Detect returns one opportunity per qualifying game, sorted by ROI, highest first.
func (d *ArbDetector) Detect(games []models.Game) []models.ArbOpportunity {
	results := make([]models.ArbOpportunity, 0)

	for _, game := range games {
		if opp, ok := d.DetectGame(game); ok {
			results = append(results, opp)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ROIPercent > results[j].ROIPercent
	})

	return results
}

// DetectGame checks the head-to-head market of one game.
func (d *ArbDetector) DetectGame(game models.Game) (models.ArbOpportunity, bool) {
	best := d.bestByOutcome(game)
	if len(best) < 2 {
		return models.ArbOpportunity{}, false
	}

	decimals := make([]float64, len(best))
	for i, q := range best {
		decimals[i] = oddsmath.AmericanToDecimal(q.price)
	}

	arb := oddsmath.Arbitrage(decimals)
	if !arb.IsArbitrage || arb.ROIPercent < d.minROI {
		return models.ArbOpportunity{}, false
	}

	shares := oddsmath.StakeShares(decimals)
	legs := make([]models.ArbLeg, len(best))
	for i, q := range best {
		stake := d.baseStake * shares[i]
		legs[i] = models.ArbLeg{
			OutcomeName:  q.name,
			Price:        q.price,
			Decimal:      decimals[i],
			BookKey:      q.bookKey,
			BookName:     q.bookName,
			SharePercent: shares[i] * 100,
			Stake:        stake,
			Payout:       stake * decimals[i],
		}
	}

	return models.ArbOpportunity{
		ID:         game.Identifier() + "-arb-" + models.MarketKeyH2H,
		EventID:    game.Identifier(),
		Match:      game.MatchLabel(),
		Time:       game.TimeLabel(),
		League:     league(game),
		MarketKey:  models.MarketKeyH2H,
		ROIPercent: arb.ROIPercent,
		InverseSum: arb.InverseSum,
		TotalStake: d.baseStake,
		Legs:       legs,
	}, true
}

// bestByOutcome keeps the highest price per outcome name across allowed books, in the
// order outcomes were first seen. On equal prices the first book wins.
func (d *ArbDetector) bestByOutcome(game models.Game) []bestQuote {
	var best []bestQuote
	index := make(map[string]int)

	for _, bm := range game.Bookmakers {
		if len(d.books) > 0 && !d.books[bm.Key] {
			continue
		}

		for _, mkt := range bm.Markets {
			if mkt.Key != models.MarketKeyH2H {
				continue
			}

			for _, o := range mkt.Outcomes {
				if !o.HasPrice() {
					continue
				}

				i, seen := index[o.Name]
				if !seen {
					index[o.Name] = len(best)
					best = append(best, bestQuote{name: o.Name, price: o.Price, bookKey: bm.Key, bookName: bm.Title})
					continue
				}

				if o.Price > best[i].price {
					best[i] = bestQuote{name: o.Name, price: o.Price, bookKey: bm.Key, bookName: bm.Title}
				}
			}
		}
	}

	return best
}
