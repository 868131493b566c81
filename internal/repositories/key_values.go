package repositories

import (
	"context"
	"time"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValues is the sqlite-backed durable key-value surface.
type KeyValues struct {
	db *gorm.DB
}

func NewKeyValuesRepository(db *gorm.DB) *KeyValues {
	return &KeyValues{db: db}
}

func (repo *KeyValues) Set(ctx context.Context, key string, value []byte) error {
	return repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models.StoredValue{Key: key, Value: value, UpdatedAt: time.Now()}).Error
}

// Get returns nil, nil when the key is absent.
func (repo *KeyValues) Get(ctx context.Context, key string) ([]byte, error) {
	stored := &models.StoredValue{}
	err := repo.db.WithContext(ctx).First(stored, "store_key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return stored.Value, nil
}

func (repo *KeyValues) Remove(ctx context.Context, key string) error {
	return repo.db.WithContext(ctx).Delete(&models.StoredValue{}, "store_key = ?", key).Error
}
