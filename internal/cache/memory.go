package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryCache is a bounded in-process cache. Entries expire at an absolute time checked
// on read; when full, the oldest inserted entry is evicted first.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = oldest insertion
	maxEntries int
	defaultTTL time.Duration
	now        func() time.Time
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates a memory cache holding at most maxEntries values
func NewMemoryCache(maxEntries int, defaultTTL time.Duration) *MemoryCache {
	if maxEntries < 1 {
		maxEntries = 1
	}

	return &MemoryCache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// WithClock replaces the time source (tests)
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
	return c
}

// Get returns the value for key if present and not expired
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lookup(key)
	if !ok {
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores value under key. Updating an existing key keeps its insertion position.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store(key, value, ttl)
	return nil
}

// Add stores value only when key is absent or expired, reporting whether it did.
func (c *MemoryCache) Add(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.lookup(key); ok {
		return false, nil
	}

	c.store(key, value, ttl)
	return true, nil
}

// Len returns the number of stored entries, expired ones included until they are read
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes every entry
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// lookup returns a live entry, dropping it if it has expired. Caller holds mu.
func (c *MemoryCache) lookup(key string) (*memoryEntry, bool) {
	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*memoryEntry)
	if c.now().After(entry.expiresAt) {
		c.order.Remove(elem)
		delete(c.entries, key)
		return nil, false
	}

	return entry, true
}

// store inserts or updates key and evicts the oldest entries over capacity. Caller holds mu.
func (c *MemoryCache) store(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	expiresAt := c.now().Add(ttl)

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		return
	}

	c.entries[key] = c.order.PushBack(&memoryEntry{key: key, value: value, expiresAt: expiresAt})

	for c.order.Len() > c.maxEntries {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*memoryEntry).key)
	}
}
