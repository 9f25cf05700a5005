package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/cache"
)

// adder is a cache that can store a key only if it is absent
type adder interface {
	Add(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
}

// CacheNonceStore remembers nonces in a memory or Redis cache.
//
// Timestamps are accepted up to one window on either side of now, so a nonce
// must outlive two windows or a future-dated request could be replayed after
// its first use expires.
type CacheNonceStore struct {
	store     adder
	retention time.Duration
}

// NewMemoryNonceStore creates a nonce store bounded to maxEntries, oldest evicted first
func NewMemoryNonceStore(maxEntries int, window time.Duration) *CacheNonceStore {
	return &CacheNonceStore{
		store:     cache.NewMemoryCache(maxEntries, 2*window),
		retention: 2 * window,
	}
}

// NewRedisNonceStore creates a nonce store shared by every instance using the same Redis
func NewRedisNonceStore(client *redis.Client, window time.Duration) *CacheNonceStore {
	return &CacheNonceStore{
		store:     cache.NewRedisCache(client, cache.DefaultKeyPrefix+"nonce:", 2*window),
		retention: 2 * window,
	}
}

// WithClock replaces the time source of a memory-backed store (tests)
func (s *CacheNonceStore) WithClock(now func() time.Time) *CacheNonceStore {
	if mem, ok := s.store.(*cache.MemoryCache); ok {
		mem.WithClock(now)
	}
	return s
}

// Remember records the nonce and reports whether it was new
func (s *CacheNonceStore) Remember(ctx context.Context, nonce string) (bool, error) {
	return s.store.Add(ctx, nonceKey(nonce), []byte("1"), s.retention)
}

// nonceKey hashes the signed message so keys stay short whatever the client sends
func nonceKey(nonce string) string {
	hash := sha256.Sum256([]byte(nonce))
	return hex.EncodeToString(hash[:16])
}
