package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/maxaizer/opportunity-radar/internal/logger"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const searchCacheKey = "global_search_cache"

type keyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// expiringStore lets the backend drop the whole list once no write refreshed it for a ttl.
type expiringStore interface {
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type cacheEntry struct {
	Query     string               `json:"query"`
	Results   models.SearchResults `json:"results"`
	Timestamp time.Time            `json:"timestamp"`
}

// SearchCache keeps recent search envelopes as one list under a single store key.
// Queries are matched case-insensitively after trimming.
type SearchCache struct {
	mu         sync.Mutex
	store      keyValueStore
	ttl        time.Duration
	maxEntries int
	clock      func() time.Time
}

func NewSearchCache(store keyValueStore, ttl time.Duration, maxEntries int) *SearchCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &SearchCache{store: store, ttl: ttl, maxEntries: maxEntries, clock: time.Now}
}

func (c *SearchCache) Get(ctx context.Context, query string) (models.SearchResults, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := normalizeQuery(query)
	now := c.clock()

	entry, found := lo.Find(c.load(ctx), func(e cacheEntry) bool {
		return e.Query == key && c.isFresh(e, now)
	})
	if !found {
		return models.SearchResults{}, false
	}
	return entry.Results, true
}

// Set drops expired entries and any previous entry of the same query, then keeps at most maxEntries
// with the newest last.
func (c *SearchCache) Set(ctx context.Context, query string, results models.SearchResults) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := normalizeQuery(query)
	now := c.clock()

	entries := lo.Filter(c.load(ctx), func(e cacheEntry, _ int) bool {
		return e.Query != key && c.isFresh(e, now)
	})
	if len(entries) > c.maxEntries-1 {
		entries = entries[len(entries)-(c.maxEntries-1):]
	}
	entries = append(entries, cacheEntry{Query: key, Results: results, Timestamp: now})

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if expiring, ok := c.store.(expiringStore); ok {
		return expiring.SetWithTTL(ctx, searchCacheKey, data, c.ttl)
	}
	return c.store.Set(ctx, searchCacheKey, data)
}

func (c *SearchCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Remove(ctx, searchCacheKey)
}

func (c *SearchCache) isFresh(e cacheEntry, now time.Time) bool {
	return now.Sub(e.Timestamp) < c.ttl
}

// load never fails: store errors and corrupted data both read as an empty cache.
func (c *SearchCache) load(ctx context.Context) []cacheEntry {

	data, err := c.store.Get(ctx, searchCacheKey)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStore).
			Warnf("failed to read search cache: %v", err)
		return nil
	}
	if data == nil {
		return nil
	}

	var entries []cacheEntry
	if err = json.Unmarshal(data, &entries); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStore).
			Warnf("discarding corrupted search cache: %v", err)
		if removeErr := c.store.Remove(ctx, searchCacheKey); removeErr != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeStore).
				Errorf("failed to remove corrupted search cache: %v", removeErr)
		}
		return nil
	}
	return entries
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
