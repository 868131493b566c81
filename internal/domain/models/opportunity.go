package models

import (
	"errors"
	"strings"
	"time"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusViewed    Status = "viewed"
	StatusContacted Status = "contacted"
	StatusApplied   Status = "applied"
	StatusRejected  Status = "rejected"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
)

var Statuses = []Status{StatusNew, StatusViewed, StatusContacted, StatusApplied, StatusRejected, StatusWon, StatusLost}

func ToStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case StatusNew, StatusViewed, StatusContacted, StatusApplied, StatusRejected, StatusWon, StatusLost:
		return status, nil
	default:
		return "", errors.New("invalid opportunity status")
	}
}

type Opportunity struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Author          string    `json:"author"`
	Source          string    `json:"source"`
	Status          Status    `json:"status"`
	MatchedKeywords []string  `json:"matched_keywords"`
	TotalScore      float64   `json:"total_score"`
	CreatedAt       time.Time `json:"created_at"`
	KeywordSearchID string    `json:"keyword_search_id"`
}

// HasAnyKeyword reports whether at least one of keywords is among the matched keywords.
func (o *Opportunity) HasAnyKeyword(keywords []string) bool {
	for _, matched := range o.MatchedKeywords {
		for _, keyword := range keywords {
			if matched == keyword {
				return true
			}
		}
	}
	return false
}

type KeywordSearch struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Enabled  bool     `json:"enabled"`
}

// ListQuery is the paging window passed to the remote opportunities listing.
type ListQuery struct {
	Limit  int
	Offset int
}
