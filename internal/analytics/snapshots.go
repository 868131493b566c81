package analytics

import (
	"time"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/samber/lo"
)

const DefaultSnapshotDays = 30

// GenerateDailySnapshots partitions opportunities into local-midnight day buckets for the
// trailing window of days ending today, oldest day first.
func GenerateDailySnapshots(opportunities []models.Opportunity, days int, now time.Time) []models.DailySnapshot {

	if days <= 0 {
		days = DefaultSnapshotDays
	}

	today := StartOfDay(now)
	snapshots := make([]models.DailySnapshot, 0, days)

	for i := days - 1; i >= 0; i-- {
		dayStart := today.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)
		snapshots = append(snapshots, snapshotForDay(opportunities, dayStart, dayEnd))
	}

	return snapshots
}

// StartOfDay returns local midnight of t in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func snapshotForDay(opportunities []models.Opportunity, dayStart, dayEnd time.Time) models.DailySnapshot {

	dayOpportunities := lo.Filter(opportunities, func(o models.Opportunity, _ int) bool {
		return !o.CreatedAt.Before(dayStart) && o.CreatedAt.Before(dayEnd)
	})

	snapshot := models.DailySnapshot{
		Date:               models.SnapshotDate(dayStart),
		TotalOpportunities: len(dayOpportunities),
	}

	scored := 0
	for _, o := range dayOpportunities {
		switch o.Status {
		case models.StatusNew:
			snapshot.NewOpportunities++
		case models.StatusContacted:
			snapshot.ContactedCount++
		case models.StatusApplied:
			snapshot.AppliedCount++
		case models.StatusWon:
			snapshot.WonCount++
		}

		if o.TotalScore > 0 {
			snapshot.TotalScore += o.TotalScore
			scored++
		}
	}

	if scored > 0 {
		snapshot.AverageScore = snapshot.TotalScore / float64(scored)
	}

	return snapshot
}
