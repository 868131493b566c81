package analytics

import (
	"math"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/samber/lo"
)

type funnelStageDefinition struct {
	name     string
	statuses []models.Status
}

// Stages are cumulative: an opportunity is counted in every milestone it has reached.
var funnelStages = []funnelStageDefinition{
	{name: "New", statuses: []models.Status{models.StatusNew}},
	{name: "Viewed", statuses: []models.Status{models.StatusViewed, models.StatusContacted, models.StatusApplied, models.StatusWon}},
	{name: "Contacted", statuses: []models.Status{models.StatusContacted, models.StatusApplied, models.StatusWon}},
	{name: "Applied", statuses: []models.Status{models.StatusApplied, models.StatusWon}},
	{name: "Won", statuses: []models.Status{models.StatusWon}},
}

// CalculateFunnel returns an empty stage list for an empty input.
func CalculateFunnel(opportunities []models.Opportunity) models.Funnel {

	total := len(opportunities)
	if total == 0 {
		return models.Funnel{Stages: []models.FunnelStage{}}
	}

	stages := make([]models.FunnelStage, 0, len(funnelStages))
	var dropoffs []float64

	for i, definition := range funnelStages {
		count := lo.CountBy(opportunities, func(o models.Opportunity) bool {
			return lo.Contains(definition.statuses, o.Status)
		})

		stage := models.FunnelStage{
			Name:       definition.name,
			Statuses:   definition.statuses,
			Count:      count,
			Percentage: round(float64(count)/float64(total)*100, 2),
		}

		if i > 0 {
			previousCount := stages[i-1].Count
			dropoff := 0.0
			if previousCount > 0 {
				dropoff = float64(previousCount-count) / float64(previousCount) * 100
			}
			dropoffs = append(dropoffs, dropoff)
			rounded := round(dropoff, 2)
			stage.DropoffRate = &rounded
		}

		stages = append(stages, stage)
	}

	final := stages[len(stages)-1]

	return models.Funnel{
		Stages: stages,
		Summary: models.FunnelSummary{
			TotalOpportunities: total,
			ConversionRate:     round(float64(final.Count)/float64(total)*100, 1),
			AverageDropoff:     round(mean(dropoffs), 1),
			WonCount:           final.Count,
		},
	}
}

func round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
