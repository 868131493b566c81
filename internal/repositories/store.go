package repositories

import (
	"context"
	"fmt"

	"github.com/maxaizer/opportunity-radar/internal/config"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// NewStore opens the key-value backend chosen in cfg. The returned close func releases it.
func NewStore(ctx context.Context, cfg config.StoreConfig) (Store, func() error, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemoryStore(), func() error { return nil }, nil
	case config.DriverSqlite:
		dbContext, err := NewDbContext(cfg.ConnectionString)
		if err != nil {
			return nil, nil, fmt.Errorf("can't create db context: %w", err)
		}
		if err = dbContext.Migrate(); err != nil {
			_ = dbContext.Close()
			return nil, nil, fmt.Errorf("can't migrate db context: %w", err)
		}
		return NewKeyValuesRepository(dbContext.DB), dbContext.Close, nil
	case config.DriverRedis:
		client, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client, cfg.KeyPrefix), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("invalid store driver: %s", cfg.Driver)
	}
}
