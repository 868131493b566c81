package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/opportunity-radar/internal/domain/events"
	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/maxaizer/opportunity-radar/pkg/debounce"
)

type searcher interface {
	Search(ctx context.Context, query string) (models.SearchResults, error)
}

type GlobalSearchState struct {
	Query     string
	IsOpen    bool
	IsLoading bool
	Results   models.SearchResults
	Err       error
}

// GlobalSearch drives the search box: the result panel opens as soon as the query is long enough,
// while the fetch waits for typing to settle. Only the latest issued fetch may update the state.
type GlobalSearch struct {
	searcher       searcher
	bus            EventBus.Bus
	debouncer      *debounce.Debouncer[string]
	minQueryLength int

	mu         sync.Mutex
	state      GlobalSearchState
	generation uint64
	cancel     context.CancelFunc
	closed     bool
	wg         sync.WaitGroup
}

func NewGlobalSearch(searcher searcher, bus EventBus.Bus, debounceDelay time.Duration, minQueryLength int) *GlobalSearch {

	g := &GlobalSearch{
		searcher:       searcher,
		bus:            bus,
		debouncer:      debounce.New("", debounceDelay),
		minQueryLength: minQueryLength,
		state:          GlobalSearchState{Results: models.EmptySearchResults()},
	}
	g.debouncer.OnSettle(g.onSettled)
	return g
}

func (g *GlobalSearch) SetQuery(query string) {
	g.mu.Lock()
	g.state.Query = query
	g.state.IsOpen = g.isSearchable(query)
	g.mu.Unlock()

	g.debouncer.Set(query)
}

func (g *GlobalSearch) State() GlobalSearchState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *GlobalSearch) IsDebouncing() bool {
	return g.debouncer.IsDebouncing()
}

// Flush starts the fetch for a query still waiting out the debounce delay. When nothing is
// debouncing no timer is pending either, so Wait may follow safely.
func (g *GlobalSearch) Flush() {
	if g.debouncer.IsDebouncing() {
		g.debouncer.Flush()
	}
}

// Wait blocks until the current fetch returns. No query may be set while waiting.
func (g *GlobalSearch) Wait() {
	g.wg.Wait()
}

// Close cancels the in-flight fetch and waits for it to return.
func (g *GlobalSearch) Close() {
	g.debouncer.Stop()

	g.mu.Lock()
	g.closed = true
	g.generation++
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.mu.Unlock()

	g.wg.Wait()
}

func (g *GlobalSearch) isSearchable(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= g.minQueryLength
}

func (g *GlobalSearch) onSettled(query string) {

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}

	g.generation++
	generation := g.generation
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}

	if !g.isSearchable(query) {
		g.state.Results = models.EmptySearchResults()
		g.state.IsLoading = false
		g.state.Err = nil
		g.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.state.IsLoading = true
	g.state.Err = nil
	g.wg.Add(1)
	g.mu.Unlock()

	go g.fetch(ctx, cancel, generation, query)
}

func (g *GlobalSearch) fetch(ctx context.Context, cancel context.CancelFunc, generation uint64, query string) {
	defer g.wg.Done()
	defer cancel()

	results, err := g.searcher.Search(ctx, query)

	g.mu.Lock()
	if generation != g.generation {
		g.mu.Unlock()
		return
	}
	g.cancel = nil
	g.state.IsLoading = false

	if err != nil {
		if errors.Is(err, context.Canceled) {
			g.mu.Unlock()
			return
		}
		g.state.Err = ErrSearchFailed
		g.mu.Unlock()

		g.bus.Publish(events.SearchFailedTopic, events.SearchFailed{Query: query, Error: err})
		return
	}

	g.state.Results = results
	g.mu.Unlock()

	g.bus.Publish(events.SearchResultsUpdatedTopic, events.SearchResultsUpdated{Query: query, Results: results})
}
