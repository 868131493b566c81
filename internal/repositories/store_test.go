package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxaizer/opportunity-radar/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {

	assert := assert.New(t)
	ctx := context.Background()

	value, err := store.Get(ctx, "snapshot_2024-03-15")
	assert.NoError(err)
	assert.Nil(value)

	assert.NoError(store.Set(ctx, "snapshot_2024-03-15", []byte(`{"date":"2024-03-15"}`)))
	assert.NoError(store.Set(ctx, "global_search_cache", []byte(`[]`)))

	value, err = store.Get(ctx, "snapshot_2024-03-15")
	assert.NoError(err)
	assert.Equal(`{"date":"2024-03-15"}`, string(value))

	assert.NoError(store.Set(ctx, "snapshot_2024-03-15", []byte(`{"date":"2024-03-15","totalOpportunities":2}`)))
	value, err = store.Get(ctx, "snapshot_2024-03-15")
	assert.NoError(err)
	assert.Equal(`{"date":"2024-03-15","totalOpportunities":2}`, string(value))

	assert.NoError(store.Remove(ctx, "snapshot_2024-03-15"))
	value, err = store.Get(ctx, "snapshot_2024-03-15")
	assert.NoError(err)
	assert.Nil(value)

	value, err = store.Get(ctx, "global_search_cache")
	assert.NoError(err)
	assert.Equal(`[]`, string(value))

	assert.NoError(store.Remove(ctx, "never_stored"))
}

func Test_MemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func Test_MemoryStore_ShouldNotAliasCallerBuffer(t *testing.T) {
	store := NewMemoryStore()
	buffer := []byte("abc")
	require.NoError(t, store.Set(context.Background(), "key", buffer))
	buffer[0] = 'x'

	value, _ := store.Get(context.Background(), "key")
	assert.Equal(t, "abc", string(value))
}

func Test_MemoryStore_SetWithTTL_ShouldExpire(t *testing.T) {

	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetWithTTL(ctx, "global_search_cache", []byte(`[]`), 20*time.Millisecond))
	require.NoError(t, store.SetWithTTL(ctx, "snapshot_2024-03-15", []byte(`{}`), 0))

	value, err := store.Get(ctx, "global_search_cache")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(value))

	assert.Eventually(t, func() bool {
		value, err := store.Get(ctx, "global_search_cache")
		return err == nil && value == nil
	}, time.Second, 5*time.Millisecond)

	value, err = store.Get(ctx, "snapshot_2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(value))
}

func Test_KeyValues_Sqlite(t *testing.T) {

	dbContext, err := NewDbContext(filepath.Join(t.TempDir(), "radar.db"))
	require.NoError(t, err)
	defer dbContext.Close()
	require.NoError(t, dbContext.Migrate())

	exerciseStore(t, NewKeyValuesRepository(dbContext.DB))
}

func Test_NewStore_WhenSqliteDriver_ShouldMigrate(t *testing.T) {

	store, closeStore, err := NewStore(context.Background(), config.StoreConfig{
		Driver:           config.DriverSqlite,
		ConnectionString: filepath.Join(t.TempDir(), "nested", "radar.db"),
	})
	require.NoError(t, err)
	defer closeStore()

	exerciseStore(t, store)
}

func Test_NewStore_WhenUnknownDriver_ShouldFail(t *testing.T) {
	_, _, err := NewStore(context.Background(), config.StoreConfig{Driver: "etcd"})
	assert.Error(t, err)
}
