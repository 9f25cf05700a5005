package detector

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
)

func TestCheckDegenerateSum(t *testing.T) {
	market := &pooledMarket{best: map[string]int{}}
	if got := checkDegenerateSum(models.Game{}, FairQuery{}, market); got != FallbackDegenerateSum {
		t.Errorf("checkDegenerateSum(empty) = %q, want %q", got, FallbackDegenerateSum)
	}

	market = &pooledMarket{best: map[string]int{"Lakers": -110, "Celtics": -110}}
	if got := checkDegenerateSum(models.Game{}, FairQuery{}, market); got != FallbackNone {
		t.Errorf("checkDegenerateSum(valid) = %q, want none", got)
	}
	if len(market.fair) != 2 {
		t.Errorf("expected normalized set with 2 outcomes, got %v", market.fair)
	}
}

func TestCheckTargetOutcome(t *testing.T) {
	market := &pooledMarket{fair: map[string]float64{"Lakers": 0.5, "Celtics": 0}}

	tests := []struct {
		outcome string
		want    FallbackReason
	}{
		{"Lakers", FallbackNone},
		{"Celtics", FallbackMissingOutcome},
		{"Draw", FallbackMissingOutcome},
	}

	for _, tt := range tests {
		if got := checkTargetOutcome(models.Game{}, FairQuery{OutcomeName: tt.outcome}, market); got != tt.want {
			t.Errorf("checkTargetOutcome(%q) = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}

func TestSamePoint(t *testing.T) {
	a, b, c := 220.5, 220.505, 221.0

	tests := []struct {
		name      string
		target    *float64
		candidate *float64
		want      bool
	}{
		{"no target line", nil, &a, true},
		{"no candidate line", &a, nil, true},
		{"within tolerance", &a, &b, true},
		{"different line", &a, &c, false},
	}

	for _, tt := range tests {
		if got := samePoint(tt.target, tt.candidate); got != tt.want {
			t.Errorf("%s: samePoint = %v, want %v", tt.name, got, tt.want)
		}
	}
}
