package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisStore backs the cache with Redis when shared state across instances
// is wanted. Prefix clearing scans the keyspace, so prefixes stay short.
type RedisStore struct {
	client   *redis.Client
	keyspace string
}

func NewRedisStore(client *redis.Client, keyspace string) *RedisStore {
	if keyspace == "" {
		keyspace = "concierge"
	}

	return &RedisStore{
		client:   client,
		keyspace: keyspace,
	}
}

func (s *RedisStore) Get(ctx context.Context, prefix, key string) ([]byte, bool) {
	value, err := s.client.Get(ctx, s.key(prefix, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("Redis cache read failed")
		}
		return nil, false
	}

	return value, true
}

func (s *RedisStore) Set(ctx context.Context, prefix, key string, value []byte, ttl time.Duration) {
	if err := s.client.Set(ctx, s.key(prefix, key), value, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("Redis cache write failed")
	}
}

func (s *RedisStore) ClearPrefix(ctx context.Context, prefix string) error {
	pattern := s.key(prefix, "*")

	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key %s: %w", iter.Val(), err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan failed for prefix %s: %w", prefix, err)
	}

	return nil
}

func (s *RedisStore) Close() {
	if err := s.client.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close Redis client")
	}
}

func (s *RedisStore) key(prefix, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.keyspace, prefix, key)
}

// Connect dials Redis with bounded retries and exponential backoff.
func Connect(ctx context.Context, addr string, password string, maxRetries int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              0,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})

	var err error
	for i := range maxRetries {
		if i > 0 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Info().Dur("backoff", backoff).Msg("Waiting before Redis retry")
			time.Sleep(backoff)
		}

		log.Info().Int("attempt", i+1).Int("max_retries", maxRetries).Msg("Connecting to Redis")

		err = client.Ping(ctx).Err()
		if err == nil {
			log.Info().Int("attempts_needed", i+1).Msg("Redis connected")
			return client, nil
		}

		log.Warn().Err(err).Int("attempt", i+1).Msg("Redis ping failed")
	}

	return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", maxRetries, err)
}
