package notify

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"meteoalerte/internal/model"
)

// Sink is one delivery channel for notifications. Sinks replace any prior
// notification sharing the same tag instead of stacking a new one.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n model.Notification) error
}

type streamRedisClient interface {
	XAdd(ctx context.Context, a *redisv9.XAddArgs) *redisv9.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redisv9.StatusCmd
}

// StreamSink is the background-capable channel: it publishes to a redis
// stream so a detached consumer can deliver while the app is not in the
// foreground. The per-tag key gives same-tag notifications replace
// semantics.
type StreamSink struct {
	client streamRedisClient
	stream string
}

func NewStreamSink(client *redisv9.Client, stream string) *StreamSink {
	return &StreamSink{client: client, stream: stream}
}

func (s *StreamSink) Name() string { return "stream" }

func (s *StreamSink) Deliver(ctx context.Context, n model.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := s.client.XAdd(ctx, &redisv9.XAddArgs{
		Stream: s.stream,
		MaxLen: 500,
		Approx: true,
		Values: map[string]interface{}{"data": string(payload)},
	}).Err(); err != nil {
		return err
	}
	return s.client.Set(ctx, "notify:tag:"+n.Tag, payload, 0).Err()
}

// DirectSink is the foreground channel: an in-memory per-tag registry the
// UI layer reads back. Used when the background channel is unavailable.
type DirectSink struct {
	mu    sync.Mutex
	byTag map[string]model.Notification
}

func NewDirectSink() *DirectSink {
	return &DirectSink{byTag: make(map[string]model.Notification)}
}

func (s *DirectSink) Name() string { return "direct" }

func (s *DirectSink) Deliver(_ context.Context, n model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byTag[n.Tag] = n
	return nil
}

// Active returns the currently displayed notifications, newest first.
func (s *DirectSink) Active() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, 0, len(s.byTag))
	for _, n := range s.byTag {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
