package services

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/maxaizer/opportunity-radar/pkg/debounce"
	"github.com/samber/lo"
)

const maxKeywordFacets = 20

// FilterOpportunities applies spec conjunctively and orders the result by score, highest first.
// Equal scores keep their input order. The input slice is never modified.
func FilterOpportunities(opportunities []models.Opportunity, spec models.FilterSpecification, now time.Time) []models.Opportunity {

	spec = spec.Normalized()
	query := strings.ToLower(strings.TrimSpace(spec.Query))
	since, hasWindow := windowStart(spec.DateRange, now)
	minScore := float64(spec.MinScore) / 100

	filtered := lo.Filter(opportunities, func(o models.Opportunity, _ int) bool {
		if query != "" && !matchesQuery(o, query) {
			return false
		}
		if spec.Status != models.FilterAll && string(o.Status) != spec.Status {
			return false
		}
		if spec.Source != models.FilterAll && o.Source != spec.Source {
			return false
		}
		if spec.MinScore > 0 && o.TotalScore < minScore {
			return false
		}
		if hasWindow && (o.CreatedAt.Before(since) || o.CreatedAt.After(now)) {
			return false
		}
		if len(spec.HasKeywords) > 0 && !o.HasAnyKeyword(spec.HasKeywords) {
			return false
		}
		return true
	})

	slices.SortStableFunc(filtered, func(a, b models.Opportunity) int {
		return cmp.Compare(b.TotalScore, a.TotalScore)
	})

	return filtered
}

// ExtractFacets collects the distinct sources and the first twenty distinct keywords in order of appearance.
func ExtractFacets(opportunities []models.Opportunity) models.Facets {

	sources := lo.Uniq(lo.FilterMap(opportunities, func(o models.Opportunity, _ int) (string, bool) {
		return o.Source, o.Source != ""
	}))
	slices.Sort(sources)

	keywords := lo.Uniq(lo.Flatten(lo.Map(opportunities, func(o models.Opportunity, _ int) []string {
		return o.MatchedKeywords
	})))
	if len(keywords) > maxKeywordFacets {
		keywords = keywords[:maxKeywordFacets]
	}

	return models.Facets{Sources: sources, Keywords: keywords}
}

func matchesQuery(o models.Opportunity, query string) bool {
	if containsFold(o.Title, query) || containsFold(o.Content, query) || containsFold(o.Author, query) {
		return true
	}
	return lo.ContainsBy(o.MatchedKeywords, func(keyword string) bool {
		return containsFold(keyword, query)
	})
}

// containsFold expects needle to be lower case already.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func windowStart(dateRange models.DateRange, now time.Time) (time.Time, bool) {
	switch dateRange {
	case models.DateRangeToday:
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
	case models.DateRange7d:
		return now.Add(-7 * 24 * time.Hour), true
	case models.DateRange30d:
		return now.Add(-30 * 24 * time.Hour), true
	default:
		return time.Time{}, false
	}
}

// OpportunityFilter keeps a working set and a filter specification whose text query is debounced.
type OpportunityFilter struct {
	mu            sync.RWMutex
	opportunities []models.Opportunity
	spec          models.FilterSpecification
	query         *debounce.Debouncer[string]
	clock         func() time.Time
}

func NewOpportunityFilter(opportunities []models.Opportunity, debounceDelay time.Duration) *OpportunityFilter {
	return &OpportunityFilter{
		opportunities: opportunities,
		spec:          models.DefaultFilterSpecification(),
		query:         debounce.New("", debounceDelay),
		clock:         time.Now,
	}
}

func (f *OpportunityFilter) SetOpportunities(opportunities []models.Opportunity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opportunities = opportunities
}

// SetSpecification replaces every facet at once, the text query still goes through the debounce.
func (f *OpportunityFilter) SetSpecification(spec models.FilterSpecification) {
	f.mu.Lock()
	f.spec = spec
	f.mu.Unlock()

	f.query.Set(spec.Query)
}

func (f *OpportunityFilter) SetQuery(query string) {
	f.mu.Lock()
	f.spec.Query = query
	f.mu.Unlock()

	f.query.Set(query)
}

func (f *OpportunityFilter) IsDebouncing() bool {
	return f.query.IsDebouncing()
}

// Results filters with the last settled query, not the one being typed.
func (f *OpportunityFilter) Results() []models.Opportunity {
	f.mu.RLock()
	spec := f.spec
	opportunities := f.opportunities
	f.mu.RUnlock()

	spec.Query = f.query.Value()
	return FilterOpportunities(opportunities, spec, f.clock())
}

func (f *OpportunityFilter) Facets() models.Facets {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return ExtractFacets(f.opportunities)
}

func (f *OpportunityFilter) Close() {
	f.query.Stop()
}
