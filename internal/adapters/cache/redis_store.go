package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"truck-status-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a KVStore kept in Redis under a key namespace.
// Keys are stored without a Redis TTL; expiry is decided by TruckCache.
type RedisStore struct {
	client    redis.UniversalClient
	namespace string
}

func NewRedisStore(client redis.UniversalClient, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) key(k string) string { return s.namespace + k }

func (s *RedisStore) Read(ctx context.Context, key string) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "redis.store.Read")(&err)

	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis store: get %q: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Write(ctx context.Context, key string, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis store: set %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis store: del %q: %w", key, err)
	}
	return nil
}

// ListKeys scans the namespace; it does not block the server like KEYS would.
func (s *RedisStore) ListKeys(ctx context.Context) (_ []string, err error) {
	defer obs.Time(ctx, "redis.store.ListKeys")(&err)

	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, s.namespace+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis store: scan: %w", err)
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, s.namespace))
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return keys, nil
}
