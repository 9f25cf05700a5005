package detector

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/oddsmath"
)

// Promotion constants
const (
	freeBetConversion  = 0.7 // share of a free bet recovered when converting it
	depositMatchFactor = 2.0
	oddsBoostPlus      = 1.2 // plus-money prices are boosted 20%
	oddsBoostMinus     = 0.8
	profitBoostFactor  = 1.5
)

var bonusStrategies = map[models.BonusType]string{
	models.BonusRiskFree:     "Use full bonus on this bet. If it loses, convert the free bet at ~70% value.",
	models.BonusDepositMatch: "Deposit match doubles your effective edge. Use matched funds on this bet.",
	models.BonusOddsBoost:    "With 20% odds boost, this becomes a strong value play.",
	models.BonusProfitBoost:  "50% profit boost significantly increases value on positive odds.",
}

// BonusDetector ranks outcomes by the value of a sportsbook promotion applied to them
type BonusDetector struct {
	params models.BonusParams
}

// NewBonusDetector creates a bonus detector for one promotion type and amount
func NewBonusDetector(params models.BonusParams) *BonusDetector {
	return &BonusDetector{params: params}
}

// ExpectedValue returns the dollar value of the promotion on one price given the fair
// probability of the outcome.
func (d *BonusDetector) ExpectedValue(price int, fairProb float64) float64 {
	amount := d.params.Amount
	userDecimal := oddsmath.AmericanToDecimal(price)
	fairDecimal := 1.0 / fairProb

	switch d.params.Type {
	case models.BonusRiskFree:
		profit := userDecimal*amount - amount
		return fairProb*profit + (1-fairProb)*amount*freeBetConversion

	case models.BonusDepositMatch:
		edge := oddsmath.EdgePercent(userDecimal, fairDecimal)
		return edge / 100 * amount * depositMatchFactor

	case models.BonusOddsBoost:
		edge := oddsmath.EdgePercent(boostedDecimal(price), fairDecimal)
		return edge / 100 * amount

	case models.BonusProfitBoost:
		profit := (userDecimal - 1) * amount * profitBoostFactor
		return fairProb*profit - (1-fairProb)*amount
	}

	return 0
}

// Detect scores every priced outcome at or above the minimum odds and keeps those with
// positive promotion value, highest first.
func (d *BonusDetector) Detect(games []models.Game) []models.BonusRow {
	rows := make([]models.BonusRow, 0)

	for _, game := range games {
		for _, bm := range game.Bookmakers {
			if d.params.Book != "" && bm.Key != d.params.Book {
				continue
			}

			for _, mkt := range bm.Markets {
				if !bucketMatches(d.params.MarketType, models.ClassifyMarket(mkt.Key)) {
					continue
				}

				for _, o := range mkt.Outcomes {
					if !o.HasPrice() || o.Price < d.params.MinOdds {
						continue
					}

					fair := FairProbability(game, FairQuery{
						MarketKey:     mkt.Key,
						OutcomeName:   o.Name,
						Point:         o.Point,
						FallbackPrice: o.Price,
					})
					if IsClampArtifact(fair.Probability) {
						continue
					}

					ev := d.ExpectedValue(o.Price, fair.Probability)
					if ev <= 0 || !oddsmath.IsFinite(ev) {
						continue
					}

					rows = append(rows, models.BonusRow{
						ID:            rowID(game, "bonus", bm.Key, mkt.Key, o),
						EventID:       game.Identifier(),
						Match:         game.MatchLabel(),
						Time:          game.TimeLabel(),
						League:        league(game),
						BookKey:       bm.Key,
						BookName:      bm.Title,
						MarketKey:     mkt.Key,
						MarketLabel:   models.MarketLabel(mkt.Key),
						OutcomeName:   o.Name,
						Point:         o.Point,
						Price:         o.Price,
						FairProb:      fair.Probability,
						EdgePercent:   oddsmath.EdgePercent(oddsmath.AmericanToDecimal(o.Price), 1.0/fair.Probability),
						ExpectedValue: roundCents(ev),
						Strategy:      bonusStrategies[d.params.Type],
						BonusType:     d.params.Type,
					})
				}
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ExpectedValue > rows[j].ExpectedValue
	})

	return rows
}

// boostedDecimal applies the odds boost to an American price and returns the decimal
// odds of the unrounded boosted price.
func boostedDecimal(price int) float64 {
	if price > 0 {
		return 1.0 + float64(price)*oddsBoostPlus/100.0
	}
	return 1.0 - 100.0/(float64(price)*oddsBoostMinus)
}

func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
