package services

import (
	"context"
	"testing"
	"time"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/maxaizer/opportunity-radar/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultsWithTitle(title string) models.SearchResults {
	results := models.EmptySearchResults()
	results.Opportunities = append(results.Opportunities, models.SearchResult{
		Type:     models.SearchResultOpportunity,
		ID:       title,
		Title:    title,
		Url:      "/opportunities/" + title,
		Metadata: map[string]any{"score": 0.5, "status": "new"},
	})
	results.Total = 1
	return results
}

func newTestCache(ttl time.Duration, maxEntries int) (*SearchCache, *repositories.MemoryStore, *time.Time) {
	store := repositories.NewMemoryStore()
	cache := NewSearchCache(store, ttl, maxEntries)
	current := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return current }
	return cache, store, &current
}

func Test_SearchCache_WhenSameQueryDifferentCase_ShouldHit(t *testing.T) {

	ctx := context.Background()
	cache, _, _ := newTestCache(5*time.Minute, 10)

	require.NoError(t, cache.Set(ctx, "React", resultsWithTitle("react")))

	cached, ok := cache.Get(ctx, "  rEACT ")
	require.True(t, ok)
	assert.Equal(t, resultsWithTitle("react"), cached)

	_, ok = cache.Get(ctx, "vue")
	assert.False(t, ok)
}

func Test_SearchCache_WhenExpired_ShouldMiss(t *testing.T) {

	ctx := context.Background()
	cache, _, current := newTestCache(5*time.Minute, 10)

	require.NoError(t, cache.Set(ctx, "react", resultsWithTitle("react")))

	*current = current.Add(5*time.Minute - time.Second)
	_, ok := cache.Get(ctx, "react")
	assert.True(t, ok)

	*current = current.Add(time.Second)
	_, ok = cache.Get(ctx, "react")
	assert.False(t, ok)
}

func Test_SearchCache_WhenFull_ShouldEvictOldest(t *testing.T) {

	ctx := context.Background()
	cache, _, current := newTestCache(5*time.Minute, 3)

	for _, query := range []string{"one", "two", "three", "four"} {
		require.NoError(t, cache.Set(ctx, query, resultsWithTitle(query)))
		*current = current.Add(time.Second)
	}

	_, ok := cache.Get(ctx, "one")
	assert.False(t, ok)
	for _, query := range []string{"two", "three", "four"} {
		_, ok = cache.Get(ctx, query)
		assert.True(t, ok, query)
	}
}

func Test_SearchCache_WhenSameQueryStoredAgain_ShouldKeepOneEntry(t *testing.T) {

	ctx := context.Background()
	cache, _, _ := newTestCache(5*time.Minute, 2)

	require.NoError(t, cache.Set(ctx, "go", resultsWithTitle("old")))
	require.NoError(t, cache.Set(ctx, "other", resultsWithTitle("other")))
	require.NoError(t, cache.Set(ctx, "GO", resultsWithTitle("new")))

	cached, ok := cache.Get(ctx, "go")
	require.True(t, ok)
	assert.Equal(t, "new", cached.Opportunities[0].Title)

	_, ok = cache.Get(ctx, "other")
	assert.True(t, ok)
}

func Test_SearchCache_WhenCorrupted_ShouldMissAndDiscard(t *testing.T) {

	ctx := context.Background()
	cache, store, _ := newTestCache(5*time.Minute, 10)

	require.NoError(t, store.Set(ctx, searchCacheKey, []byte("{not json")))

	_, ok := cache.Get(ctx, "react")
	assert.False(t, ok)

	data, err := store.Get(ctx, searchCacheKey)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, cache.Set(ctx, "react", resultsWithTitle("react")))
	_, ok = cache.Get(ctx, "react")
	assert.True(t, ok)
}

func Test_SearchCache_Clear_ShouldDropEverything(t *testing.T) {

	ctx := context.Background()
	cache, _, _ := newTestCache(5*time.Minute, 10)

	require.NoError(t, cache.Set(ctx, "react", resultsWithTitle("react")))
	require.NoError(t, cache.Clear(ctx))

	_, ok := cache.Get(ctx, "react")
	assert.False(t, ok)
}

func Test_SearchCache_WhenIdleLongerThanTtl_ShouldExpireStoredList(t *testing.T) {

	store := repositories.NewMemoryStore()
	cache := NewSearchCache(store, 30*time.Millisecond, 10)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "golang", resultsWithTitle("golang")))
	stored, err := store.Get(ctx, searchCacheKey)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Eventually(t, func() bool {
		stored, err := store.Get(ctx, searchCacheKey)
		return err == nil && stored == nil
	}, time.Second, 5*time.Millisecond)

	_, hit := cache.Get(ctx, "golang")
	assert.False(t, hit)
}
