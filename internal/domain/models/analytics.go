package models

import "time"

const SnapshotDateLayout = "2006-01-02"

type DailySnapshot struct {
	Date               string  `json:"date"`
	TotalOpportunities int     `json:"totalOpportunities"`
	NewOpportunities   int     `json:"newOpportunities"`
	ContactedCount     int     `json:"contactedCount"`
	AppliedCount       int     `json:"appliedCount"`
	WonCount           int     `json:"wonCount"`
	AverageScore       float64 `json:"averageScore"`
	TotalScore         float64 `json:"totalScore"`
}

func SnapshotDate(t time.Time) string {
	return t.Format(SnapshotDateLayout)
}

type SnapshotField string

const (
	FieldTotalOpportunities SnapshotField = "totalOpportunities"
	FieldNewOpportunities   SnapshotField = "newOpportunities"
	FieldContactedCount     SnapshotField = "contactedCount"
	FieldAppliedCount       SnapshotField = "appliedCount"
	FieldWonCount           SnapshotField = "wonCount"
	FieldAverageScore       SnapshotField = "averageScore"
	FieldTotalScore         SnapshotField = "totalScore"
)

var SnapshotFields = []SnapshotField{
	FieldTotalOpportunities, FieldNewOpportunities, FieldContactedCount,
	FieldAppliedCount, FieldWonCount, FieldAverageScore, FieldTotalScore,
}

// Value returns the numeric value of field, ok is false for an unknown field.
func (s DailySnapshot) Value(field SnapshotField) (value float64, ok bool) {
	switch field {
	case FieldTotalOpportunities:
		return float64(s.TotalOpportunities), true
	case FieldNewOpportunities:
		return float64(s.NewOpportunities), true
	case FieldContactedCount:
		return float64(s.ContactedCount), true
	case FieldAppliedCount:
		return float64(s.AppliedCount), true
	case FieldWonCount:
		return float64(s.WonCount), true
	case FieldAverageScore:
		return s.AverageScore, true
	case FieldTotalScore:
		return s.TotalScore, true
	default:
		return 0, false
	}
}

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

type Trend struct {
	Field         SnapshotField  `json:"field"`
	Average       float64        `json:"average"`
	Direction     TrendDirection `json:"trend"`
	ChangePercent float64        `json:"changePercent"`
}

type PeriodComparison struct {
	Current       int     `json:"current"`
	Previous      int     `json:"previous"`
	Change        int     `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

type FunnelStage struct {
	Name        string   `json:"name"`
	Statuses    []Status `json:"statuses"`
	Count       int      `json:"count"`
	Percentage  float64  `json:"percentage"`
	DropoffRate *float64 `json:"dropoffRate,omitempty"`
}

type FunnelSummary struct {
	TotalOpportunities int     `json:"totalOpportunities"`
	ConversionRate     float64 `json:"conversionRate"`
	AverageDropoff     float64 `json:"averageDropoff"`
	WonCount           int     `json:"wonCount"`
}

type Funnel struct {
	Stages  []FunnelStage `json:"stages"`
	Summary FunnelSummary `json:"summary"`
}

// IsEmpty is true when there was nothing to classify; callers render a no-data state.
func (f Funnel) IsEmpty() bool {
	return len(f.Stages) == 0
}
