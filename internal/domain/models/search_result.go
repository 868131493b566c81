package models

type SearchResultType string

const (
	SearchResultOpportunity   SearchResultType = "opportunity"
	SearchResultKeywordSearch SearchResultType = "keyword_search"
)

type SearchResult struct {
	Type     SearchResultType `json:"type"`
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Subtitle string           `json:"subtitle"`
	Url      string           `json:"url"`
	Metadata map[string]any   `json:"metadata"`
}

type SearchResults struct {
	Opportunities   []SearchResult `json:"opportunities"`
	KeywordSearches []SearchResult `json:"keywordSearches"`
	Total           int            `json:"total"`
}

func EmptySearchResults() SearchResults {
	return SearchResults{
		Opportunities:   []SearchResult{},
		KeywordSearches: []SearchResult{},
		Total:           0,
	}
}
