package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"meteoalerte/internal/model"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(context.Background(), client, 8, zap.NewNop().Sugar()), mr
}

func loc(name string) model.Location {
	return model.Location{Name: name, Latitude: 48.85, Longitude: 2.35}
}

func TestSaveIsDeduplicatedByName(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, loc("Paris, Île-de-France, France"))
	store.Save(ctx, loc("Paris, Île-de-France, France"))

	assert.Len(t, store.List(), 1)
}

func TestSaveOrdersMostRecentFirst(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, loc("Paris"))
	store.Save(ctx, loc("Lyon"))
	store.Save(ctx, loc("Paris")) // no-op, does not reorder

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Lyon", list[0].Name)
	assert.Equal(t, "Paris", list[1].Name)
}

func TestSaveEvictsOldestAtCapacity(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		store.Save(ctx, loc(fmt.Sprintf("City %d", i)))
	}

	list := store.List()
	require.Len(t, list, 8)
	assert.Equal(t, "City 8", list[0].Name)
	for _, it := range list {
		assert.NotEqual(t, "City 0", it.Name, "oldest entry should have been evicted")
	}
}

func TestRemove(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, loc("Paris"))
	store.Save(ctx, loc("Lyon"))
	store.Remove(ctx, "Paris")

	list := store.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Lyon", list[0].Name)

	// removing a missing name is harmless
	store.Remove(ctx, "Atlantis")
	assert.Len(t, store.List(), 1)
}

func TestMutationsArePersisted(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, loc("Paris"))
	store.Save(ctx, loc("Lyon"))

	val, err := mr.Get(Key)
	require.NoError(t, err)
	var persisted []model.Location
	require.NoError(t, json.Unmarshal([]byte(val), &persisted))
	require.Len(t, persisted, 2)
	assert.Equal(t, "Lyon", persisted[0].Name)

	store.Remove(ctx, "Lyon")
	val, err = mr.Get(Key)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(val), &persisted))
	assert.Len(t, persisted, 1)
}

func TestLoadRestoresPersistedFavorites(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	defer client.Close()

	saved := []model.Location{loc("Marseille"), loc("Bordeaux")}
	b, _ := json.Marshal(saved)
	require.NoError(t, mr.Set(Key, string(b)))

	store := NewStore(context.Background(), client, 8, zap.NewNop().Sugar())
	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Marseille", list[0].Name)
}

func TestLoadRecoversFromCorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, mr.Set(Key, "not-json"))

	store := NewStore(context.Background(), client, 8, zap.NewNop().Sugar())
	assert.Empty(t, store.List(), "corrupt value should yield an empty collection")

	// the store stays usable afterwards
	store.Save(context.Background(), loc("Paris"))
	assert.Len(t, store.List(), 1)
}

func TestLoadTruncatesOversizedValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	defer client.Close()

	var many []model.Location
	for i := 0; i < 12; i++ {
		many = append(many, loc(fmt.Sprintf("City %d", i)))
	}
	b, _ := json.Marshal(many)
	require.NoError(t, mr.Set(Key, string(b)))

	store := NewStore(context.Background(), client, 8, zap.NewNop().Sugar())
	assert.Len(t, store.List(), 8)
}

func TestPersistenceFailureIsNotFatal(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	mr.Close()
	store.Save(ctx, loc("Paris"))

	// the in-memory collection is still the source of truth
	assert.Len(t, store.List(), 1)
}
