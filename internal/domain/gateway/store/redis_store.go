package store

import (
	"context"

	"healthwatch/pkg/redis"
)

// RedisStore persists health cache fields in Redis. Writes of multiple fields
// go through a transaction pipeline so the record is applied as one unit.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store backed by the given Redis client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) GetInt64(ctx context.Context, key string) (int64, bool, error) {
	return s.client.GetInt(ctx, key)
}

func (s *RedisStore) GetString(ctx context.Context, key string) (string, bool, error) {
	return s.client.Get(ctx, key)
}

func (s *RedisStore) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	return s.client.GetBytes(ctx, key)
}

func (s *RedisStore) SetValues(ctx context.Context, values map[string]any) error {
	pipe := s.client.TxPipeline()
	for key, value := range values {
		pipe.Set(ctx, key, value, 0)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	return s.client.Delete(ctx, keys...)
}
