package analytics

import (
	"fmt"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/samber/lo"
)

// a half-over-half change within this many percent is reported as stable
const trendThresholdPercent = 5.0

// CalculateTrend compares the mean of the second half of the series against the first half.
// An odd-length series puts the extra snapshot into the second half.
func CalculateTrend(snapshots []models.DailySnapshot, field models.SnapshotField) (models.Trend, error) {

	if !lo.Contains(models.SnapshotFields, field) {
		return models.Trend{}, fmt.Errorf("unknown snapshot field %q", field)
	}

	trend := models.Trend{Field: field, Direction: models.TrendStable}
	if len(snapshots) == 0 {
		return trend, nil
	}

	values := lo.Map(snapshots, func(s models.DailySnapshot, _ int) float64 {
		value, _ := s.Value(field)
		return value
	})

	mid := len(values) / 2
	firstHalf := mean(values[:mid])
	secondHalf := mean(values[mid:])

	trend.Average = mean(values)
	if firstHalf != 0 {
		trend.ChangePercent = (secondHalf - firstHalf) / firstHalf * 100
	}

	switch {
	case trend.ChangePercent > trendThresholdPercent:
		trend.Direction = models.TrendUp
	case trend.ChangePercent < -trendThresholdPercent:
		trend.Direction = models.TrendDown
	}

	return trend, nil
}

func CalculateTrends(snapshots []models.DailySnapshot) map[models.SnapshotField]models.Trend {
	trends := make(map[models.SnapshotField]models.Trend, len(models.SnapshotFields))
	for _, field := range models.SnapshotFields {
		trends[field], _ = CalculateTrend(snapshots, field)
	}
	return trends
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return lo.Sum(values) / float64(len(values))
}
