package events

import "github.com/maxaizer/opportunity-radar/internal/domain/models"

var SearchResultsUpdatedTopic = "SearchResultsUpdatedEvent"

type SearchResultsUpdated struct {
	Query   string
	Results models.SearchResults
}
