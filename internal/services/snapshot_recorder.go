package services

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/opportunity-radar/internal/analytics"
	"github.com/maxaizer/opportunity-radar/internal/domain/events"
	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/maxaizer/opportunity-radar/internal/logger"
	"github.com/maxaizer/opportunity-radar/internal/metrics"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const pruneWindowDays = 30

type snapshotStore interface {
	Save(ctx context.Context, snapshot models.DailySnapshot) error
	Get(ctx context.Context, date string) (*models.DailySnapshot, error)
	Prune(ctx context.Context, retentionDays, window int) (int, error)
}

type RecorderOptions struct {
	Days          int
	RetentionDays int
	PageSize      int
	MaxPages      int
}

// SnapshotRecorder periodically rebuilds the daily snapshots from the full opportunity set.
// Today's snapshot is always overwritten, past days are only filled in when missing.
type SnapshotRecorder struct {
	opportunities opportunityLister
	snapshots     snapshotStore
	bus           EventBus.Bus
	cron          *cron.Cron
	options       RecorderOptions
	clock         func() time.Time
}

func NewSnapshotRecorder(opportunities opportunityLister, snapshots snapshotStore, bus EventBus.Bus,
	schedule string, options RecorderOptions) (*SnapshotRecorder, error) {

	if options.Days <= 0 {
		return nil, errors.New("snapshot days must be greater than zero")
	}
	if options.RetentionDays < options.Days {
		return nil, errors.New("retention days can't be shorter than snapshot days")
	}

	r := &SnapshotRecorder{
		opportunities: opportunities,
		snapshots:     snapshots,
		bus:           bus,
		cron:          cron.New(),
		options:       options,
		clock:         time.Now,
	}

	if _, err := r.cron.AddFunc(schedule, r.recordScheduled); err != nil {
		return nil, errors.Wrapf(err, "invalid snapshot schedule %q", schedule)
	}
	return r, nil
}

func (r *SnapshotRecorder) Start() {
	r.cron.Start()
	log.Infof("snapshot recorder started, keeping %d days", r.options.RetentionDays)
}

// Stop waits for a running recording to finish.
func (r *SnapshotRecorder) Stop() {
	<-r.cron.Stop().Done()
}

func (r *SnapshotRecorder) recordScheduled() {
	if _, err := r.Record(context.Background()); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAnalytics).
			Errorf("failed to record snapshots: %v", err)
	}
}

func (r *SnapshotRecorder) Record(ctx context.Context) (models.DailySnapshot, error) {

	start := time.Now()
	defer func() {
		metrics.SnapshotRecordDuration.Observe(time.Since(start).Seconds())
	}()

	opportunities, err := FetchAllOpportunities(ctx, r.opportunities, r.options.PageSize, r.options.MaxPages)
	if err != nil {
		return models.DailySnapshot{}, errors.Wrap(err, "failed to fetch opportunities")
	}

	generated := analytics.GenerateDailySnapshots(opportunities, r.options.Days, r.clock())
	today := generated[len(generated)-1]

	backfilled := 0
	for _, snapshot := range generated[:len(generated)-1] {
		existing, err := r.snapshots.Get(ctx, snapshot.Date)
		if err != nil {
			return models.DailySnapshot{}, errors.Wrapf(err, "failed to read snapshot %s", snapshot.Date)
		}
		if existing != nil {
			continue
		}
		if err = r.snapshots.Save(ctx, snapshot); err != nil {
			return models.DailySnapshot{}, errors.Wrapf(err, "failed to backfill snapshot %s", snapshot.Date)
		}
		backfilled++
	}

	if err = r.snapshots.Save(ctx, today); err != nil {
		return models.DailySnapshot{}, errors.Wrap(err, "failed to save today's snapshot")
	}
	metrics.RecordedSnapshotsCounter.Add(float64(backfilled + 1))

	pruned, err := r.snapshots.Prune(ctx, r.options.RetentionDays, pruneWindowDays)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStore).
			Warnf("failed to prune old snapshots: %v", err)
	}

	log.Infof("snapshot %s recorded: %d opportunities, %d backfilled, %d pruned",
		today.Date, today.TotalOpportunities, backfilled, pruned)

	r.bus.Publish(events.SnapshotRecordedTopic, events.SnapshotRecorded{
		Snapshot:   today,
		Backfilled: backfilled,
		Pruned:     pruned,
	})
	return today, nil
}

// FetchAllOpportunities pages through the collection until a short page or maxPages is reached.
func FetchAllOpportunities(ctx context.Context, lister opportunityLister, pageSize, maxPages int) ([]models.Opportunity, error) {

	if pageSize <= 0 {
		pageSize = 100
	}
	if maxPages <= 0 {
		maxPages = 50
	}

	var all []models.Opportunity
	for page := 0; page < maxPages; page++ {
		batch, err := lister.ListOpportunities(ctx, models.ListQuery{Limit: pageSize, Offset: page * pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			return all, nil
		}
	}

	log.Warnf("stopped paging opportunities after %d pages", maxPages)
	return all, nil
}
