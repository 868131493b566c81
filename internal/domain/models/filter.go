package models

import (
	"strings"
)

const FilterAll = "all"

type DateRange string

const (
	DateRangeAll   DateRange = "all"
	DateRangeToday DateRange = "today"
	DateRange7d    DateRange = "7d"
	DateRange30d   DateRange = "30d"
)

// ParseDateRange never fails: unknown values fall back to DateRangeAll.
func ParseDateRange(s string) DateRange {
	switch DateRange(strings.ToLower(strings.TrimSpace(s))) {
	case DateRangeToday:
		return DateRangeToday
	case DateRange7d:
		return DateRange7d
	case DateRange30d:
		return DateRange30d
	default:
		return DateRangeAll
	}
}

// ParseStatusFilter returns FilterAll for anything that is not a known status.
func ParseStatusFilter(s string) string {
	status, err := ToStatus(s)
	if err != nil {
		return FilterAll
	}
	return string(status)
}

type FilterSpecification struct {
	Query       string
	Status      string
	Source      string
	MinScore    int
	DateRange   DateRange
	HasKeywords []string
}

func DefaultFilterSpecification() FilterSpecification {
	return FilterSpecification{
		Status:    FilterAll,
		Source:    FilterAll,
		DateRange: DateRangeAll,
	}
}

// Normalized makes the specification safe to apply: unknown enum values become "all",
// the score floor is clamped to the 0..100 scale.
func (f FilterSpecification) Normalized() FilterSpecification {
	f.Status = ParseStatusFilter(f.Status)
	if strings.TrimSpace(f.Source) == "" {
		f.Source = FilterAll
	}
	f.DateRange = ParseDateRange(string(f.DateRange))
	if f.MinScore < 0 {
		f.MinScore = 0
	}
	if f.MinScore > 100 {
		f.MinScore = 100
	}
	return f
}

type Facets struct {
	Sources  []string `json:"sources"`
	Keywords []string `json:"keywords"`
}
