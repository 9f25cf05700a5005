package warmer

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/contracts"
)

// specParser accepts five-field specs, an optional leading seconds field and descriptors like @every 30s
var specParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Warmer periodically fetches odds through the cached source so scans hit a warm cache
type Warmer struct {
	source  contracts.OddsSource
	sports  []string
	markets string
	regions string
	timeout time.Duration

	cron    *cron.Cron
	baseCtx context.Context
}

// New creates a warmer for the given sports
func New(baseCtx context.Context, source contracts.OddsSource, sports []string, markets, regions string) *Warmer {
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	return &Warmer{
		source:  source,
		sports:  sports,
		markets: markets,
		regions: regions,
		timeout: 30 * time.Second,
		cron: cron.New(
			cron.WithParser(specParser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		baseCtx: baseCtx,
	}
}

// ValidateSpec reports whether spec can be scheduled
func ValidateSpec(spec string) error {
	if _, err := specParser.Parse(spec); err != nil {
		return fmt.Errorf("invalid cache warm spec %q: %w", spec, err)
	}
	return nil
}

// Start schedules the warm-up job and starts the scheduler
func (w *Warmer) Start(spec string) error {
	if _, err := w.cron.AddFunc(spec, func() { w.WarmOnce(w.baseCtx) }); err != nil {
		return fmt.Errorf("invalid cache warm spec %q: %w", spec, err)
	}

	w.cron.Start()
	log.Info().Str("spec", spec).Strs("sports", w.sports).Msg("cache warmer started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
	log.Info().Msg("cache warmer stopped")
}

// WarmOnce fetches every configured sport and returns how many succeeded
func (w *Warmer) WarmOnce(ctx context.Context) int {
	warmed := 0

	for _, sport := range w.sports {
		if ctx.Err() != nil {
			break
		}

		fetchCtx, cancel := context.WithTimeout(ctx, w.timeout)
		_, err := w.source.FetchOdds(fetchCtx, contracts.OddsQuery{
			Sport:   sport,
			Markets: w.markets,
			Regions: w.regions,
		})
		cancel()

		if err != nil {
			log.Warn().Err(err).Str("sport", sport).Msg("cache warm failed")
			continue
		}
		warmed++
	}

	log.Debug().Int("warmed", warmed).Int("sports", len(w.sports)).Msg("cache warm pass complete")
	return warmed
}
