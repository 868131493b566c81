package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

var filterNow = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

func sampleOpportunities() []models.Opportunity {
	return []models.Opportunity{
		{
			ID: "1", Title: "Go developer wanted", Content: "Backend role", Author: "alice", Source: "reddit",
			Status: models.StatusNew, TotalScore: 0.82, MatchedKeywords: []string{"golang"},
			CreatedAt: filterNow.Add(-2 * time.Hour),
		},
		{
			ID: "2", Title: "Rust contract", Content: "Systems work", Author: "bob", Source: "hackernews",
			Status: models.StatusContacted, TotalScore: 0.40, MatchedKeywords: []string{"rust"},
			CreatedAt: filterNow.Add(-3 * 24 * time.Hour),
		},
		{
			ID: "3", Title: "Scraper in golang", Content: "Crawl listings", Author: "carol", Source: "reddit",
			Status: models.StatusNew, TotalScore: 0.95, MatchedKeywords: []string{"golang", "scraper"},
			CreatedAt: filterNow.Add(-20 * 24 * time.Hour),
		},
		{
			ID: "4", Title: "Frontend help", Content: "React dashboard", Author: "GOpher dan", Source: "twitter",
			Status: models.StatusWon, TotalScore: 0.30, MatchedKeywords: []string{},
			CreatedAt: filterNow.Add(-40 * 24 * time.Hour),
		},
	}
}

func ids(opportunities []models.Opportunity) []string {
	return lo.Map(opportunities, func(o models.Opportunity, _ int) string { return o.ID })
}

func Test_FilterOpportunities_WhenDefaultSpec_ShouldSortByScore(t *testing.T) {
	result := FilterOpportunities(sampleOpportunities(), models.DefaultFilterSpecification(), filterNow)
	assert.Equal(t, []string{"3", "1", "2", "4"}, ids(result))
}

func Test_FilterOpportunities_WhenCombined_ShouldApplyEveryFacet(t *testing.T) {

	spec := models.DefaultFilterSpecification()
	spec.Query = "GO"
	spec.Status = string(models.StatusNew)
	spec.MinScore = 50

	result := FilterOpportunities(sampleOpportunities(), spec, filterNow)
	assert.Equal(t, []string{"3", "1"}, ids(result))
}

func Test_FilterOpportunities_QueryMatching(t *testing.T) {

	tests := []struct {
		query    string
		expected []string
	}{
		{query: "gopher", expected: []string{"4"}},
		{query: "  dashboard ", expected: []string{"4"}},
		{query: "scraper", expected: []string{"3"}},
		{query: "rust", expected: []string{"2"}},
		{query: "nothing like this", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			spec := models.DefaultFilterSpecification()
			spec.Query = tt.query
			assert.Equal(t, tt.expected, ids(FilterOpportunities(sampleOpportunities(), spec, filterNow)))
		})
	}
}

func Test_FilterOpportunities_DateRanges(t *testing.T) {

	tests := []struct {
		dateRange models.DateRange
		expected  []string
	}{
		{dateRange: models.DateRangeToday, expected: []string{"1"}},
		{dateRange: models.DateRange7d, expected: []string{"1", "2"}},
		{dateRange: models.DateRange30d, expected: []string{"3", "1", "2"}},
		{dateRange: models.DateRangeAll, expected: []string{"3", "1", "2", "4"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.dateRange), func(t *testing.T) {
			spec := models.DefaultFilterSpecification()
			spec.DateRange = tt.dateRange
			assert.Equal(t, tt.expected, ids(FilterOpportunities(sampleOpportunities(), spec, filterNow)))
		})
	}
}

func Test_FilterOpportunities_WhenKeywords_ShouldMatchAny(t *testing.T) {

	spec := models.DefaultFilterSpecification()
	spec.HasKeywords = []string{"rust", "scraper"}

	assert.Equal(t, []string{"3", "2"}, ids(FilterOpportunities(sampleOpportunities(), spec, filterNow)))
}

func Test_FilterOpportunities_WhenSource_ShouldMatchExactly(t *testing.T) {

	spec := models.DefaultFilterSpecification()
	spec.Source = "reddit"
	assert.Equal(t, []string{"3", "1"}, ids(FilterOpportunities(sampleOpportunities(), spec, filterNow)))

	spec.Source = "Reddit"
	assert.Empty(t, FilterOpportunities(sampleOpportunities(), spec, filterNow))
}

func Test_FilterOpportunities_WhenScoresEqual_ShouldKeepInputOrder(t *testing.T) {

	opportunities := []models.Opportunity{
		{ID: "a", TotalScore: 0.5},
		{ID: "b", TotalScore: 0.9},
		{ID: "c", TotalScore: 0.5},
		{ID: "d", TotalScore: 0.5},
	}

	result := FilterOpportunities(opportunities, models.DefaultFilterSpecification(), filterNow)
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids(result))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(opportunities))
}

func Test_FilterOpportunities_ShouldBeIdempotent(t *testing.T) {

	spec := models.DefaultFilterSpecification()
	spec.Query = "go"
	spec.DateRange = models.DateRange30d

	once := FilterOpportunities(sampleOpportunities(), spec, filterNow)
	twice := FilterOpportunities(once, spec, filterNow)

	assert.Equal(t, once, twice)
	assert.Subset(t, ids(sampleOpportunities()), ids(once))
}

func Test_FilterOpportunities_WhenMinScoreOutOfRange_ShouldClamp(t *testing.T) {

	spec := models.DefaultFilterSpecification()
	spec.MinScore = 250
	assert.Empty(t, FilterOpportunities(sampleOpportunities(), spec, filterNow))

	spec.MinScore = -10
	assert.Len(t, FilterOpportunities(sampleOpportunities(), spec, filterNow), 4)
}

func Test_ExtractFacets_ShouldCollectSourcesAndFirstKeywords(t *testing.T) {

	facets := ExtractFacets(sampleOpportunities())
	assert.Equal(t, []string{"hackernews", "reddit", "twitter"}, facets.Sources)
	assert.Equal(t, []string{"golang", "rust", "scraper"}, facets.Keywords)

	many := make([]models.Opportunity, 0, 30)
	for i := 0; i < 30; i++ {
		many = append(many, models.Opportunity{ID: fmt.Sprint(i), MatchedKeywords: []string{fmt.Sprintf("kw%02d", i)}})
	}
	facets = ExtractFacets(many)
	assert.Len(t, facets.Keywords, 20)
	assert.Equal(t, "kw00", facets.Keywords[0])
	assert.Equal(t, "kw19", facets.Keywords[19])
	assert.Empty(t, facets.Sources)
}

func Test_OpportunityFilter_WhenQueryTyped_ShouldApplyAfterSettling(t *testing.T) {

	filter := NewOpportunityFilter(sampleOpportunities(), time.Hour)
	defer filter.Close()
	filter.clock = func() time.Time { return filterNow }

	filter.SetQuery("rust")
	assert.True(t, filter.IsDebouncing())
	assert.Len(t, filter.Results(), 4)

	filter.query.Flush()
	assert.False(t, filter.IsDebouncing())
	assert.Equal(t, []string{"2"}, ids(filter.Results()))

	spec := models.DefaultFilterSpecification()
	spec.Status = string(models.StatusWon)
	filter.SetSpecification(spec)
	filter.query.Flush()
	assert.Equal(t, []string{"4"}, ids(filter.Results()))

	assert.Equal(t, []string{"hackernews", "reddit", "twitter"}, filter.Facets().Sources)
}
