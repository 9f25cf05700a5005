package oddsapi

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/contracts"
)

// CachedSource serves odds documents from a cache and collapses concurrent misses for
// the same query into one upstream fetch.
type CachedSource struct {
	upstream contracts.OddsSource
	cache    contracts.Cache
	ttl      time.Duration
	group    singleflight.Group
}

// NewCachedSource wraps upstream with cache
func NewCachedSource(upstream contracts.OddsSource, cache contracts.Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
	}
}

// CacheKey joins the query parameters that identify one upstream document.
func CacheKey(q contracts.OddsQuery) string {
	q = NormalizeQuery(q)
	return strings.Join([]string{q.Sport, q.Markets, q.Regions, q.OddsFormat}, "|")
}

// FetchOdds returns the cached document for the query or fetches it once.
func (s *CachedSource) FetchOdds(ctx context.Context, query contracts.OddsQuery) ([]byte, error) {
	query = NormalizeQuery(query)
	key := CacheKey(query)

	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if ok {
		return data, nil
	}

	// The shared fetch must outlive any single caller's cancellation.
	ch := s.group.DoChan(key, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)

		data, err := s.upstream.FetchOdds(fetchCtx, query)
		if err != nil {
			return nil, err
		}

		if isArray(data) {
			if err := s.cache.Set(fetchCtx, key, data, s.ttl); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("cache write failed")
			}
		}

		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func isArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}
