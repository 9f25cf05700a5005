package contracts

import (
	"context"
	"time"
)

// OddsQuery identifies one upstream odds request
type OddsQuery struct {
	Sport      string
	Markets    string
	Regions    string
	OddsFormat string
}

// OddsSource fetches the raw odds document for a sport
type OddsSource interface {
	// FetchOdds returns the upstream payload (a JSON array of games)
	FetchOdds(ctx context.Context, query OddsQuery) ([]byte, error)
}

// Cache stores raw upstream documents for a short time
type Cache interface {
	// Get returns the cached value and whether it was present and unexpired
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL (0 uses the cache default)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// NonceStore remembers request nonces for replay protection
type NonceStore interface {
	// Remember records the nonce and reports whether it was new.
	// A false result means the nonce was already seen inside its window.
	Remember(ctx context.Context, nonce string) (bool, error)
}
