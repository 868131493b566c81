package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/maxaizer/opportunity-radar/internal/logger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const snapshotKeyPrefix = "snapshot_"

type keyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// SnapshotStore persists daily snapshots keyed by ISO date.
type SnapshotStore struct {
	store keyValueStore
	clock func() time.Time
}

func NewSnapshotStore(store keyValueStore) *SnapshotStore {
	return &SnapshotStore{store: store, clock: time.Now}
}

func SnapshotKey(date string) string {
	return snapshotKeyPrefix + date
}

func (s *SnapshotStore) Save(ctx context.Context, snapshot models.DailySnapshot) error {
	if _, err := time.Parse(models.SnapshotDateLayout, snapshot.Date); err != nil {
		return errors.Wrapf(err, "invalid snapshot date %q", snapshot.Date)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, SnapshotKey(snapshot.Date), data)
}

func (s *SnapshotStore) SaveAll(ctx context.Context, snapshots []models.DailySnapshot) error {
	for _, snapshot := range snapshots {
		if err := s.Save(ctx, snapshot); err != nil {
			return err
		}
	}
	return nil
}

// Get returns nil when nothing is stored for date. A corrupted entry is discarded and reported as missing.
func (s *SnapshotStore) Get(ctx context.Context, date string) (*models.DailySnapshot, error) {

	key := SnapshotKey(date)
	data, err := s.store.Get(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}

	var snapshot models.DailySnapshot
	if err = json.Unmarshal(data, &snapshot); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStore).
			Warnf("discarding corrupted snapshot %v: %v", key, err)
		if removeErr := s.store.Remove(ctx, key); removeErr != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeStore).
				Errorf("failed to remove corrupted snapshot %v: %v", key, removeErr)
		}
		return nil, nil
	}

	return &snapshot, nil
}

// Load returns stored snapshots of the trailing window of days, oldest first.
// Days without a stored entry are omitted.
func (s *SnapshotStore) Load(ctx context.Context, days int) ([]models.DailySnapshot, error) {

	if days <= 0 {
		days = DefaultSnapshotDays
	}

	today := StartOfDay(s.clock())
	snapshots := make([]models.DailySnapshot, 0, days)

	for i := days - 1; i >= 0; i-- {
		snapshot, err := s.Get(ctx, models.SnapshotDate(today.AddDate(0, 0, -i)))
		if err != nil {
			return nil, err
		}
		if snapshot != nil {
			snapshots = append(snapshots, *snapshot)
		}
	}

	return snapshots, nil
}

func (s *SnapshotStore) Remove(ctx context.Context, date string) error {
	return s.store.Remove(ctx, SnapshotKey(date))
}

// Prune removes snapshots that are between retentionDays and retentionDays+window days old
// and returns how many existed.
func (s *SnapshotStore) Prune(ctx context.Context, retentionDays, window int) (int, error) {

	today := StartOfDay(s.clock())
	removed := 0

	for i := retentionDays; i < retentionDays+window; i++ {
		date := models.SnapshotDate(today.AddDate(0, 0, -i))
		data, err := s.store.Get(ctx, SnapshotKey(date))
		if err != nil {
			return removed, err
		}
		if data == nil {
			continue
		}
		if err = s.Remove(ctx, date); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}
