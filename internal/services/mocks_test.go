package services

import (
	"context"
	"sync"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/stretchr/testify/mock"
)

type mockOpportunities struct {
	mock.Mock
}

func (m *mockOpportunities) ListOpportunities(ctx context.Context, query models.ListQuery) ([]models.Opportunity, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Opportunity), args.Error(1)
}

type mockKeywordSearches struct {
	mock.Mock
}

func (m *mockKeywordSearches) ListKeywordSearches(ctx context.Context) ([]models.KeywordSearch, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.KeywordSearch), args.Error(1)
}

type panickingKeywordSearches struct{}

func (panickingKeywordSearches) ListKeywordSearches(ctx context.Context) ([]models.KeywordSearch, error) {
	panic("keyword searches exploded")
}

// pagedOpportunities serves items in pages the way the remote collection does.
type pagedOpportunities struct {
	mu      sync.Mutex
	items   []models.Opportunity
	queries []models.ListQuery
}

func (p *pagedOpportunities) ListOpportunities(ctx context.Context, query models.ListQuery) ([]models.Opportunity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queries = append(p.queries, query)

	if query.Offset >= len(p.items) {
		return []models.Opportunity{}, nil
	}
	end := min(query.Offset+query.Limit, len(p.items))
	return p.items[query.Offset:end], nil
}

// fakeSearcher answers from fixed tables. A query with a gate waits for it to close, ignoring cancellation.
// A query marked as blocking waits until its context is cancelled.
type fakeSearcher struct {
	mu       sync.Mutex
	queries  []string
	results  map[string]models.SearchResults
	errs     map[string]error
	gates    map[string]chan struct{}
	blocking map[string]bool
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		results:  map[string]models.SearchResults{},
		errs:     map[string]error{},
		gates:    map[string]chan struct{}{},
		blocking: map[string]bool{},
	}
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (models.SearchResults, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	results, found := f.results[query]
	err := f.errs[query]
	gate := f.gates[query]
	blocking := f.blocking[query]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if blocking {
		<-ctx.Done()
		return models.EmptySearchResults(), ctx.Err()
	}
	if !found {
		results = models.EmptySearchResults()
	}
	return results, err
}

func (f *fakeSearcher) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}
