package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/studio-scheduler/internal/logger"
)

const processedEventPrefix = "stripe:event:"

// NewClient connects to Redis and pings it once.
func NewClient(addr, password string, db int, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Error("REDIS", fmt.Sprintf("failed to connect to %s: %v", addr, err))
		_ = client.Close()
		return nil, err
	}

	log.Info("REDIS", "connected to "+addr)
	return client, nil
}

// EventStore remembers provider event ids so redelivered webhooks can be
// acknowledged without touching the database.
type EventStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEventStore(client *redis.Client, ttl time.Duration) *EventStore {
	return &EventStore{client: client, ttl: ttl}
}

// Seen reports whether eventID was already settled.
func (s *EventStore) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, processedEventPrefix+eventID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkProcessed records a settled eventID until the TTL expires.
func (s *EventStore) MarkProcessed(ctx context.Context, eventID string) error {
	return s.client.Set(ctx, processedEventPrefix+eventID, time.Now().UTC().Unix(), s.ttl).Err()
}
