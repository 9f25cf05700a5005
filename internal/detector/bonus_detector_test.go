package detector_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/detector"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
)

func TestBonusExpectedValue(t *testing.T) {
	tests := []struct {
		name     string
		bonus    models.BonusType
		price    int
		fairProb float64
		want     float64
	}{
		{"Risk-free even money", models.BonusRiskFree, 100, 0.5, 85.0},
		{"Deposit match with 10% edge", models.BonusDepositMatch, 120, 0.5, 20.0},
		{"Odds boost plus money", models.BonusOddsBoost, 100, 0.5, 10.0},
		{"Odds boost keeps fractional price", models.BonusOddsBoost, 151, 0.5, (1.0+181.2/100.0)/2.0*100 - 100},
		{"Odds boost minus money", models.BonusOddsBoost, -110, 0.5, (1.0+100.0/88.0)/2.0*100 - 100},
		{"Profit boost even money", models.BonusProfitBoost, 100, 0.5, 25.0},
		{"Unknown promotion", models.BonusType("cashback"), 100, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := detector.NewBonusDetector(models.BonusParams{Type: tt.bonus, Amount: 100})

			got := d.ExpectedValue(tt.price, tt.fairProb)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ExpectedValue(%d, %f) = %f, want %f", tt.price, tt.fairProb, got, tt.want)
			}
		})
	}
}

func TestBonusDetect(t *testing.T) {
	games := []models.Game{newGame("evt1", newBook("fanduel", h2h(100, -120)))}

	rows := detector.NewBonusDetector(models.BonusParams{
		Type:    models.BonusRiskFree,
		Amount:  100,
		MinOdds: -200,
	}).Detect(games)

	require.Len(t, rows, 2)

	// Fair: Lakers 0.5/1.04545, Celtics 0.54545/1.04545
	assert.Equal(t, "Lakers", rows[0].OutcomeName)
	assert.InDelta(t, 84.35, rows[0].ExpectedValue, 1e-9)
	assert.Equal(t, "Celtics", rows[1].OutcomeName)
	assert.InDelta(t, 76.96, rows[1].ExpectedValue, 1e-9)

	assert.Equal(t, "evt1-bonus-fanduel-h2h-Lakers", rows[0].ID)
	assert.Equal(t, models.BonusRiskFree, rows[0].BonusType)
	assert.NotEmpty(t, rows[0].Strategy)
}

func TestBonusDetectFilters(t *testing.T) {
	games := []models.Game{newGame("evt1",
		newBook("fanduel", h2h(100, -120)),
		newBook("draftkings", h2h(-105, -115)),
	)}

	t.Run("min odds", func(t *testing.T) {
		rows := detector.NewBonusDetector(models.BonusParams{
			Type: models.BonusRiskFree, Amount: 100, MinOdds: -110,
		}).Detect(games)

		for _, row := range rows {
			assert.GreaterOrEqual(t, row.Price, -110)
		}
	})

	t.Run("single book", func(t *testing.T) {
		rows := detector.NewBonusDetector(models.BonusParams{
			Type: models.BonusRiskFree, Amount: 100, MinOdds: -10000, Book: "draftkings",
		}).Detect(games)

		require.Len(t, rows, 2)
		for _, row := range rows {
			assert.Equal(t, "draftkings", row.BookKey)
		}
	})

	t.Run("only positive value", func(t *testing.T) {
		rows := detector.NewBonusDetector(models.BonusParams{
			Type: models.BonusDepositMatch, Amount: 100, MinOdds: -10000,
		}).Detect(games)

		for _, row := range rows {
			assert.Greater(t, row.ExpectedValue, 0.0)
		}
	})

	t.Run("props bucket excludes main markets", func(t *testing.T) {
		rows := detector.NewBonusDetector(models.BonusParams{
			Type: models.BonusRiskFree, Amount: 100, MinOdds: -10000, MarketType: models.BucketProps,
		}).Detect(games)

		assert.Empty(t, rows)
	})
}
