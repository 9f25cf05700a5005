package detector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
)

// Scan status messages
const (
	MessageNoGames     = "No games returned for this sport right now."
	MessageAllFiltered = "Games were found but no bets matched your filters."
)

// Engine fetches odds documents and runs the detectors over them
type Engine struct {
	source contracts.OddsSource

	// Metrics
	scanCount      int64
	errorCount     int64
	totalLatencyMs int64
	mu             sync.Mutex
}

// NewEngine creates a new scan engine
func NewEngine(source contracts.OddsSource) *Engine {
	return &Engine{source: source}
}

// FetchGames fetches and decodes the odds document for a scan.
func (e *Engine) FetchGames(ctx context.Context, query contracts.OddsQuery) ([]models.Game, error) {
	data, err := e.source.FetchOdds(ctx, query)
	if err != nil {
		return nil, err
	}

	games, err := models.DecodeGames(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode odds for %s: %w", query.Sport, err)
	}

	return games, nil
}

// Scan fetches the sport's odds and returns the EV rows and arbitrage opportunities.
func (e *Engine) Scan(ctx context.Context, params models.ScanParams) (models.ScanResult, error) {
	start := time.Now()

	games, err := e.FetchGames(ctx, contracts.OddsQuery{
		Sport:      params.Sport,
		Markets:    params.Markets,
		Regions:    params.Regions,
		OddsFormat: "american",
	})
	if err != nil {
		e.incrementErrorCount()
		return models.ScanResult{}, err
	}

	result := ScanGames(games, params)
	elapsed := time.Since(start)
	e.recordScan(elapsed)

	log.Info().
		Str("sport", params.Sport).
		Int("games", result.GamesScanned).
		Int("ev", result.EVCount).
		Int("arbs", result.ArbCount).
		Dur("elapsed", elapsed).
		Msg("scan complete")

	return result, nil
}

// Bonus fetches the sport's odds and ranks them for a promotion.
func (e *Engine) Bonus(ctx context.Context, params models.BonusParams, markets, regions string) (models.BonusResult, error) {
	games, err := e.FetchGames(ctx, contracts.OddsQuery{
		Sport:      params.Sport,
		Markets:    markets,
		Regions:    regions,
		OddsFormat: "american",
	})
	if err != nil {
		e.incrementErrorCount()
		return models.BonusResult{}, err
	}

	bets := NewBonusDetector(params).Detect(games)

	message := fmt.Sprintf("Found %d bonus bet opportunities. Top picks optimized for %s promos.", len(bets), params.Type)
	if len(bets) == 0 {
		message = "No bonus bet opportunities found with current filters."
	}

	return models.BonusResult{Bets: bets, Count: len(bets), Message: message}, nil
}

// ScanGames runs the edge and arbitrage detectors over an already decoded document.
func ScanGames(games []models.Game, params models.ScanParams) models.ScanResult {
	ev := NewEdgeDetector(params.MinEdge).Detect(games, params.Book, params.MarketType)
	arbs := NewArbDetector(params.BaseStake, params.MinROI, params.Books).Detect(games)

	return models.ScanResult{
		EV:           ev,
		Arbs:         arbs,
		EVCount:      len(ev),
		ArbCount:     len(arbs),
		GamesScanned: len(games),
		Message:      scanMessage(len(games), len(ev), len(arbs)),
	}
}

func scanMessage(games, ev, arbs int) string {
	switch {
	case games == 0:
		return MessageNoGames
	case ev == 0 && arbs == 0:
		return MessageAllFiltered
	default:
		return fmt.Sprintf("Found %d +EV bets and %d arbitrage opportunities.", ev, arbs)
	}
}

// recordScan records a successful scan and its latency
func (e *Engine) recordScan(elapsed time.Duration) {
	e.mu.Lock()
	e.scanCount++
	e.totalLatencyMs += elapsed.Milliseconds()
	e.mu.Unlock()
}

// incrementErrorCount increments the error counter
func (e *Engine) incrementErrorCount() {
	e.mu.Lock()
	e.errorCount++
	e.mu.Unlock()
}

// GetMetrics returns scan and error counts
func (e *Engine) GetMetrics() (scans, errors int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scanCount, e.errorCount
}

// GetAvgLatencyMs returns the mean scan latency
func (e *Engine) GetAvgLatencyMs() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.scanCount == 0 {
		return 0
	}
	return float64(e.totalLatencyMs) / float64(e.scanCount)
}
