package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
)

type opportunity struct {
	ID              flexibleID `json:"id"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Author          string     `json:"author"`
	Source          string     `json:"source"`
	Status          string     `json:"status"`
	MatchedKeywords []string   `json:"matched_keywords"`
	TotalScore      *float64   `json:"total_score"`
	CreatedAt       CustomTime `json:"created_at"`
	KeywordSearchID flexibleID `json:"keyword_search_id"`
}

func (o opportunity) toModel() models.Opportunity {
	status, err := models.ToStatus(o.Status)
	if err != nil {
		// kept verbatim so it matches no funnel stage or status filter
		status = models.Status(o.Status)
	}

	var score float64
	if o.TotalScore != nil {
		score = *o.TotalScore
	}

	keywords := o.MatchedKeywords
	if keywords == nil {
		keywords = []string{}
	}

	return models.Opportunity{
		ID:              string(o.ID),
		Title:           o.Title,
		Content:         o.Content,
		Author:          o.Author,
		Source:          o.Source,
		Status:          status,
		MatchedKeywords: keywords,
		TotalScore:      score,
		CreatedAt:       o.CreatedAt.Time,
		KeywordSearchID: string(o.KeywordSearchID),
	}
}

type keywordSearch struct {
	ID       flexibleID `json:"id"`
	Name     string     `json:"name"`
	Keywords []string   `json:"keywords"`
	Enabled  bool       `json:"enabled"`
}

func (k keywordSearch) toModel() models.KeywordSearch {
	keywords := k.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return models.KeywordSearch{ID: string(k.ID), Name: k.Name, Keywords: keywords, Enabled: k.Enabled}
}

// flexibleID accepts identifiers sent either as JSON strings or numbers.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*id = flexibleID(str)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(b, &number); err != nil {
		return fmt.Errorf("parsing id %s: %v", string(b), err)
	}
	*id = flexibleID(number.String())
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

type CustomTime struct {
	time.Time
}

func (dt *CustomTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		dt.Time = time.Time{}
		return nil
	}

	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		var millis int64
		if numErr := json.Unmarshal(b, &millis); numErr != nil {
			return err
		}
		dt.Time = time.UnixMilli(millis)
		return nil
	}

	for _, layout := range timeLayouts {
		// timestamps without a zone are treated as UTC
		if t, err := time.Parse(layout, str); err == nil {
			dt.Time = t
			return nil
		}
	}

	if seconds, err := strconv.ParseInt(str, 10, 64); err == nil {
		dt.Time = time.Unix(seconds, 0)
		return nil
	}

	return fmt.Errorf("parsing time %s: unsupported format", str)
}
