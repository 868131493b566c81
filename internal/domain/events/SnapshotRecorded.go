package events

import "github.com/maxaizer/opportunity-radar/internal/domain/models"

var SnapshotRecordedTopic = "SnapshotRecordedEvent"

type SnapshotRecorded struct {
	Snapshot   models.DailySnapshot
	Backfilled int
	Pruned     int
}
