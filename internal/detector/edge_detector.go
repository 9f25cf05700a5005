package detector

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/oddsmath"
)

// MaxAbsEdgePercent is the largest edge treated as real; anything beyond is a data error.
const MaxAbsEdgePercent = 80.0

// RejectReason explains why a quote produced no EV row
type RejectReason string

const (
	RejectNone          RejectReason = ""
	RejectNoPrice       RejectReason = "no_price"
	RejectClampArtifact RejectReason = "clamp_artifact"
	RejectBelowMinEdge  RejectReason = "below_min_edge"
	RejectImplausible   RejectReason = "implausible_edge"
)

// Evaluation is the edge of one quoted price against its fair probability
type Evaluation struct {
	UserDecimal  float64
	FairProb     float64
	FairDecimal  float64
	FairAmerican int
	EdgePercent  float64
	EVPerDollar  float64
	Rejected     RejectReason
}

// Accepted reports whether the quote should be emitted as an EV row.
func (e Evaluation) Accepted() bool {
	return e.Rejected == RejectNone
}

// EdgeDetector finds single-book prices that beat the pooled fair price
type EdgeDetector struct {
	minEdge float64
}

// NewEdgeDetector creates an edge detector with a minimum edge threshold in percent
func NewEdgeDetector(minEdge float64) *EdgeDetector {
	return &EdgeDetector{minEdge: minEdge}
}

// Evaluate computes the edge of an American price given the fair probability of the
// same outcome and applies the clamp, threshold and sanity filters.
func (d *EdgeDetector) Evaluate(price int, fairProb float64) Evaluation {
	if price == 0 {
		return Evaluation{FairProb: fairProb, Rejected: RejectNoPrice}
	}

	if IsClampArtifact(fairProb) {
		return Evaluation{FairProb: fairProb, Rejected: RejectClampArtifact}
	}

	fairDecimal, err := oddsmath.ProbabilityToDecimal(fairProb)
	if err != nil {
		return Evaluation{FairProb: fairProb, Rejected: RejectClampArtifact}
	}
	fairAmerican, _ := oddsmath.ProbabilityToAmerican(fairProb)

	userDecimal := oddsmath.AmericanToDecimal(price)
	edge := oddsmath.EdgePercent(userDecimal, fairDecimal)

	eval := Evaluation{
		UserDecimal:  userDecimal,
		FairProb:     fairProb,
		FairDecimal:  fairDecimal,
		FairAmerican: fairAmerican,
		EdgePercent:  edge,
		EVPerDollar:  edge / 100.0,
	}

	switch {
	case math.Abs(edge) > MaxAbsEdgePercent:
		eval.Rejected = RejectImplausible
	case edge < d.minEdge:
		eval.Rejected = RejectBelowMinEdge
	}

	return eval
}

// Detect runs the fair-probability engine and the evaluator over every
// (game, book, market, outcome) passing the book and bucket filters. Rows come back
// sorted by edge, highest first.
func (d *EdgeDetector) Detect(games []models.Game, book, marketType string) []models.EVRow {
	rows := make([]models.EVRow, 0)

	for _, game := range games {
		for _, bm := range game.Bookmakers {
			if book != "" && bm.Key != book {
				continue
			}

			for _, mkt := range bm.Markets {
				bucket := models.ClassifyMarket(mkt.Key)
				if !bucketMatches(marketType, bucket) {
					continue
				}

				for _, o := range mkt.Outcomes {
					if !o.HasPrice() {
						continue
					}

					fair := FairProbability(game, FairQuery{
						MarketKey:     mkt.Key,
						OutcomeName:   o.Name,
						Point:         o.Point,
						FallbackPrice: o.Price,
					})

					eval := d.Evaluate(o.Price, fair.Probability)
					if !eval.Accepted() {
						continue
					}

					rows = append(rows, models.EVRow{
						ID:           rowID(game, "", bm.Key, mkt.Key, o),
						EventID:      game.Identifier(),
						Match:        game.MatchLabel(),
						Time:         game.TimeLabel(),
						League:       league(game),
						BookKey:      bm.Key,
						BookName:     bm.Title,
						MarketKey:    mkt.Key,
						MarketLabel:  models.MarketLabel(mkt.Key),
						Bucket:       bucket,
						OutcomeName:  o.Name,
						Point:        o.Point,
						Price:        o.Price,
						UserDecimal:  eval.UserDecimal,
						FairProb:     eval.FairProb,
						FairDecimal:  eval.FairDecimal,
						FairAmerican: eval.FairAmerican,
						EdgePercent:  eval.EdgePercent,
						EVPerDollar:  eval.EVPerDollar,
					})
				}
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].EdgePercent > rows[j].EdgePercent
	})

	return rows
}

// bucketMatches applies the all/main/props market filter.
func bucketMatches(marketType, bucket string) bool {
	return marketType == "" || marketType == models.BucketAll || marketType == bucket
}

// rowID builds a stable row id: game-[tag-]book-market-outcome[-point].
func rowID(game models.Game, tag, bookKey, marketKey string, o models.Outcome) string {
	parts := []string{game.Identifier()}
	if tag != "" {
		parts = append(parts, tag)
	}
	parts = append(parts, bookKey, marketKey, o.Name)
	if o.Point != nil {
		parts = append(parts, strconv.FormatFloat(*o.Point, 'f', -1, 64))
	}
	return strings.Join(parts, "-")
}

func league(game models.Game) string {
	if game.SportTitle != "" {
		return game.SportTitle
	}
	return game.SportKey
}
