package analytics

import (
	"time"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/samber/lo"
)

const day = 24 * time.Hour

// ComparePeriods counts opportunities created in [now-currentDays, now] against
// [now-currentDays-previousDays, now-currentDays).
func ComparePeriods(opportunities []models.Opportunity, currentDays, previousDays int, now time.Time) models.PeriodComparison {

	currentStart := now.Add(-time.Duration(currentDays) * day)
	previousStart := currentStart.Add(-time.Duration(previousDays) * day)

	current := lo.CountBy(opportunities, func(o models.Opportunity) bool {
		return !o.CreatedAt.Before(currentStart) && !o.CreatedAt.After(now)
	})
	previous := lo.CountBy(opportunities, func(o models.Opportunity) bool {
		return !o.CreatedAt.Before(previousStart) && o.CreatedAt.Before(currentStart)
	})

	comparison := models.PeriodComparison{
		Current:  current,
		Previous: previous,
		Change:   current - previous,
	}

	switch {
	case previous == 0 && current > 0:
		comparison.ChangePercent = 100
	case previous == 0:
		comparison.ChangePercent = 0
	default:
		comparison.ChangePercent = float64(current-previous) / float64(previous) * 100
	}

	return comparison
}
