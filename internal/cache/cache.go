// Package cache memoizes stats views until the underlying collections change.
package cache

import (
	"sync"
	"unsafe"

	"github.com/vytor/matchlog/internal/logger"
	"github.com/vytor/matchlog/internal/models"
)

// Cache holds one value per key. The whole cache is dropped whenever the
// deck collection, the tag collection or the mode differs from the last
// call. Collections are compared by identity, so callers must replace a
// collection instead of editing it in place.
type Cache[V any] struct {
	mu         sync.Mutex
	entries    map[string]V
	maxEntries int

	// Retained so their backing arrays cannot be reused by a later collection.
	decks  []models.Deck
	tags   []models.Tag
	mode   models.Mode
	primed bool

	hits   int
	misses int
	log    *logger.Logger
}

// Stats reports cache usage counters.
type Stats struct {
	Entries int
	Hits    int
	Misses  int
}

// New creates a cache. maxEntries <= 0 means unbounded; when the bound is
// reached the cache is cleared before the next insert.
func New[V any](maxEntries int) *Cache[V] {
	return &Cache[V]{
		entries:    make(map[string]V),
		maxEntries: maxEntries,
		log:        logger.Default().WithPrefix("cache"),
	}
}

// InvalidateIfChanged clears the cache when any of the sources changed since
// the previous call and reports whether it did.
func (c *Cache[V]) InvalidateIfChanged(decks []models.Deck, tags []models.Tag, mode models.Mode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidateIfChangedLocked(decks, tags, mode)
}

func (c *Cache[V]) invalidateIfChangedLocked(decks []models.Deck, tags []models.Tag, mode models.Mode) bool {
	if c.primed && sameSlice(c.decks, decks) && sameSlice(c.tags, tags) && c.mode == mode {
		return false
	}
	if c.primed {
		c.log.Debug("sources changed, dropping %d entries", len(c.entries))
	}
	c.entries = make(map[string]V)
	c.decks, c.tags, c.mode = decks, tags, mode
	c.primed = true
	return true
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

func (c *Cache[V]) getLocked(key string) (V, bool) {
	v, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

func (c *Cache[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, v)
}

func (c *Cache[V]) setLocked(key string, v V) {
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.log.Debug("cache full at %d entries, clearing", len(c.entries))
		c.entries = make(map[string]V)
	}
	c.entries[key] = v
}

// GetOrCompute runs invalidation, lookup and population as one step so a
// value computed from an older snapshot is never stored against a newer one.
func (c *Cache[V]) GetOrCompute(decks []models.Deck, tags []models.Tag, mode models.Mode, key string, compute func() V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidateIfChangedLocked(decks, tags, mode)
	if v, ok := c.getLocked(key); ok {
		return v, true
	}
	v := compute()
	c.setLocked(key, v)
	return v, false
}

// Clear drops every entry and forgets the last-seen sources.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]V)
	c.decks, c.tags, c.mode = nil, nil, ""
	c.primed = false
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}

func sameSlice[T any](a, b []T) bool {
	return len(a) == len(b) && unsafe.SliceData(a) == unsafe.SliceData(b)
}
