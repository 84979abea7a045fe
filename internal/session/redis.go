package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skillhive/skillhive-go/internal/model"
)

// RedisStore keeps sessions as JSON under session:<id> with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context, id string) (*model.Session, error) {
	data, err := r.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *model.Session) error {
	s.UpdatedAt = time.Now()
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key(s.ID), b, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, key(id)).Err()
}

func key(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Open connects to redisURL and returns a RedisStore. If the URL is empty,
// invalid or unreachable it logs why and returns a MemoryStore plus a nil
// client.
func Open(redisURL string, ttl time.Duration, log zerolog.Logger) (Store, *redis.Client) {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, sessions kept in memory")
		return NewMemoryStore(ttl), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis: invalid URL, sessions kept in memory")
		return NewMemoryStore(ttl), nil
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, sessions kept in memory")
		_ = rdb.Close()
		return NewMemoryStore(ttl), nil
	}

	log.Info().Msg("redis: connected, sessions stored in redis")
	return NewRedisStore(rdb, ttl), rdb
}
