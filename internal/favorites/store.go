// Package favorites holds the bounded, ordered, persisted collection of
// saved locations.
package favorites

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"meteoalerte/internal/metrics"
	"meteoalerte/internal/model"
)

// Key is the persisted-store key holding the favorites JSON array.
const Key = "favorites"

type redisClient interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redisv9.StatusCmd
}

// Store keeps favorites most-recently-added first, deduplicated by exact
// name, capped at a fixed capacity. The in-memory slice is the source of
// truth for the session; redis is a write-through side effect.
type Store struct {
	client   redisClient
	capacity int
	log      *zap.SugaredLogger

	mu    sync.Mutex
	items []model.Location
}

// NewStore loads the persisted favorites. A missing or corrupt value is
// recovered as an empty collection, never a fatal condition.
func NewStore(ctx context.Context, client *redisv9.Client, capacity int, log *zap.SugaredLogger) *Store {
	s := &Store{client: client, capacity: capacity, log: log}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	val, err := s.client.Get(ctx, Key).Result()
	if err != nil {
		if err != redisv9.Nil {
			s.log.Warnw("could not load favorites, starting empty", "error", err)
		}
		return
	}
	var items []model.Location
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		s.log.Warnw("corrupt favorites value, starting empty", "error", err)
		return
	}
	if len(items) > s.capacity {
		items = items[:s.capacity]
	}
	s.items = items
	metrics.FavoritesCount.Set(float64(len(s.items)))
}

// Save prepends the location. Saving an already-saved name is a no-op;
// overflowing the capacity evicts the oldest entry.
func (s *Store) Save(ctx context.Context, loc model.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.Name == loc.Name {
			return
		}
	}
	s.items = append([]model.Location{loc}, s.items...)
	if len(s.items) > s.capacity {
		s.items = s.items[:s.capacity]
	}
	s.persist(ctx)
}

// Remove deletes every entry with that exact name.
func (s *Store) Remove(ctx context.Context, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, it := range s.items {
		if it.Name != name {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.persist(ctx)
}

// List returns the favorites, most-recent-first. The returned slice is a
// copy; callers cannot mutate the store through it.
func (s *Store) List() []model.Location {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Location, len(s.items))
	copy(out, s.items)
	return out
}

// persist writes the collection through to redis. Serialization or write
// failures are logged and swallowed; the in-memory state stays valid.
// Callers must hold s.mu.
func (s *Store) persist(ctx context.Context) {
	metrics.FavoritesCount.Set(float64(len(s.items)))
	b, err := json.Marshal(s.items)
	if err != nil {
		s.log.Warnw("could not serialize favorites", "error", model.PersistenceError(err))
		return
	}
	if err := s.client.Set(ctx, Key, b, 0).Err(); err != nil {
		s.log.Warnw("could not persist favorites", "error", model.PersistenceError(err))
	}
}
