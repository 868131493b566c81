package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/maxaizer/opportunity-radar/internal/logger"
	"github.com/maxaizer/opportunity-radar/internal/metrics"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

var ErrSearchFailed = errors.New("failed to perform search")

type opportunityLister interface {
	ListOpportunities(ctx context.Context, query models.ListQuery) ([]models.Opportunity, error)
}

type keywordSearchLister interface {
	ListKeywordSearches(ctx context.Context) ([]models.KeywordSearch, error)
}

type SearchOptions struct {
	MinQueryLength     int
	MaxOpportunities   int
	MaxKeywordSearches int
	FetchLimit         int
}

func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		MinQueryLength:     2,
		MaxOpportunities:   10,
		MaxKeywordSearches: 5,
		FetchLimit:         100,
	}
}

// UnifiedSearch queries opportunities and keyword searches at once and merges them into one envelope.
type UnifiedSearch struct {
	opportunities   opportunityLister
	keywordSearches keywordSearchLister
	cache           *SearchCache
	options         SearchOptions
}

func NewUnifiedSearch(opportunities opportunityLister, keywordSearches keywordSearchLister,
	cache *SearchCache, options SearchOptions) *UnifiedSearch {
	return &UnifiedSearch{
		opportunities:   opportunities,
		keywordSearches: keywordSearches,
		cache:           cache,
		options:         options,
	}
}

// Search returns an empty envelope without any fetch when the trimmed query is too short.
// A failing collection degrades to no results; only cancellation and unexpected faults return an error.
func (s *UnifiedSearch) Search(ctx context.Context, query string) (models.SearchResults, error) {

	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < s.options.MinQueryLength {
		metrics.SearchRequestsCounter.WithLabelValues(metrics.OutcomeTooShort).Inc()
		return models.EmptySearchResults(), nil
	}

	if cached, ok := s.cache.Get(ctx, trimmed); ok {
		metrics.SearchRequestsCounter.WithLabelValues(metrics.OutcomeCacheHit).Inc()
		return cached, nil
	}

	requestID := uuid.NewString()
	entry := log.WithField("request_id", requestID)
	entry.Debugf("searching for %q", trimmed)

	start := time.Now()
	needle := strings.ToLower(trimmed)

	var (
		wg                 sync.WaitGroup
		opportunities      []models.SearchResult
		keywordSearches    []models.SearchResult
		oppsFault, ksFault error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		opportunities, oppsFault = s.collect(ctx, entry, metrics.CollectionOpps, func() ([]models.SearchResult, error) {
			return s.searchOpportunities(ctx, needle)
		})
	}()
	go func() {
		defer wg.Done()
		keywordSearches, ksFault = s.collect(ctx, entry, metrics.CollectionKeyword, func() ([]models.SearchResult, error) {
			return s.searchKeywordSearches(ctx, needle)
		})
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		metrics.SearchRequestsCounter.WithLabelValues(metrics.OutcomeCancelled).Inc()
		return models.EmptySearchResults(), err
	}

	if fault := errors.Join(oppsFault, ksFault); fault != nil {
		metrics.SearchRequestsCounter.WithLabelValues(metrics.OutcomeFailed).Inc()
		entry.WithField(logger.ErrorTypeField, logger.ErrorTypeSearch).Errorf("search failed: %v", fault)
		return models.EmptySearchResults(), fmt.Errorf("%w: %v", ErrSearchFailed, fault)
	}

	results := models.SearchResults{
		Opportunities:   opportunities,
		KeywordSearches: keywordSearches,
		Total:           len(opportunities) + len(keywordSearches),
	}

	metrics.SearchRequestsCounter.WithLabelValues(metrics.OutcomeCacheMiss).Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	if err := s.cache.Set(ctx, trimmed, results); err != nil {
		entry.WithField(logger.ErrorTypeField, logger.ErrorTypeStore).Warnf("failed to cache search results: %v", err)
	}

	return results, nil
}

// collect turns a collection error into an empty result and a panic into a fault.
func (s *UnifiedSearch) collect(ctx context.Context, entry *log.Entry, collection string,
	search func() ([]models.SearchResult, error)) (results []models.SearchResult, fault error) {

	defer func() {
		if r := recover(); r != nil {
			results = []models.SearchResult{}
			fault = fmt.Errorf("%s search panicked: %v", collection, r)
		}
	}()

	results, err := search()
	if err != nil {
		if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
			metrics.SubSearchFailuresCounter.WithLabelValues(collection).Inc()
			entry.WithField(logger.ErrorTypeField, logger.ErrorTypeRemoteApi).
				Warnf("%s search failed, continuing without it: %v", collection, err)
		}
		return []models.SearchResult{}, nil
	}
	return results, nil
}

func (s *UnifiedSearch) searchOpportunities(ctx context.Context, needle string) ([]models.SearchResult, error) {

	opportunities, err := s.opportunities.ListOpportunities(ctx, models.ListQuery{Limit: s.options.FetchLimit})
	if err != nil {
		return nil, err
	}

	matched := lo.Filter(opportunities, func(o models.Opportunity, _ int) bool {
		return containsFold(o.Title, needle) || containsFold(o.Content, needle) ||
			containsFold(o.Author, needle) || containsFold(strings.Join(o.MatchedKeywords, " "), needle)
	})
	slices.SortStableFunc(matched, func(a, b models.Opportunity) int {
		return cmp.Compare(b.TotalScore, a.TotalScore)
	})
	if len(matched) > s.options.MaxOpportunities {
		matched = matched[:s.options.MaxOpportunities]
	}

	return lo.Map(matched, func(o models.Opportunity, _ int) models.SearchResult {
		return opportunityResult(o)
	}), nil
}

func (s *UnifiedSearch) searchKeywordSearches(ctx context.Context, needle string) ([]models.SearchResult, error) {

	searches, err := s.keywordSearches.ListKeywordSearches(ctx)
	if err != nil {
		return nil, err
	}

	matched := lo.Filter(searches, func(k models.KeywordSearch, _ int) bool {
		return containsFold(k.Name, needle) || containsFold(strings.Join(k.Keywords, " "), needle)
	})
	if len(matched) > s.options.MaxKeywordSearches {
		matched = matched[:s.options.MaxKeywordSearches]
	}

	return lo.Map(matched, func(k models.KeywordSearch, _ int) models.SearchResult {
		return keywordSearchResult(k)
	}), nil
}

// Metadata holds only strings, floats and bools so an envelope reads back from the cache unchanged.
func opportunityResult(o models.Opportunity) models.SearchResult {
	return models.SearchResult{
		Type:     models.SearchResultOpportunity,
		ID:       o.ID,
		Title:    o.Title,
		Subtitle: fmt.Sprintf("%s · %s", o.Source, o.Status),
		Url:      "/opportunities/" + o.ID,
		Metadata: map[string]any{
			"source":    o.Source,
			"author":    o.Author,
			"status":    string(o.Status),
			"score":     o.TotalScore,
			"createdAt": o.CreatedAt.UTC().Format(time.RFC3339),
		},
	}
}

func keywordSearchResult(k models.KeywordSearch) models.SearchResult {
	return models.SearchResult{
		Type:     models.SearchResultKeywordSearch,
		ID:       k.ID,
		Title:    k.Name,
		Subtitle: strings.Join(k.Keywords, ", "),
		Url:      "/keyword-searches/" + k.ID,
		Metadata: map[string]any{
			"enabled": k.Enabled,
		},
	}
}
