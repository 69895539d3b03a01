package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of a shared go-redis client.
// The client is created once by the process and injected here.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session: get %s: %w", key, err)
	}
	return val, true, nil
}

func (r *RedisStore) SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("session: ttl must be > 0 for %s", key)
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("session: set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("session: del %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("session: expire %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) AddToOrderedSet(ctx context.Context, setKey, member string, score float64) error {
	if err := r.client.ZAdd(ctx, setKey, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return fmt.Errorf("session: zadd %s: %w", setKey, err)
	}
	return nil
}

func (r *RedisStore) RemoveFromOrderedSet(ctx context.Context, setKey, member string) error {
	if err := r.client.ZRem(ctx, setKey, member).Err(); err != nil {
		return fmt.Errorf("session: zrem %s: %w", setKey, err)
	}
	return nil
}

func (r *RedisStore) RemoveFromOrderedSetByScore(ctx context.Context, setKey string, min, max float64) (int64, error) {
	n, err := r.client.ZRemRangeByScore(ctx, setKey, formatScore(min), formatScore(max)).Result()
	if err != nil {
		return 0, fmt.Errorf("session: zremrangebyscore %s: %w", setKey, err)
	}
	return n, nil
}

func (r *RedisStore) OrderedSetSize(ctx context.Context, setKey string) (int64, error) {
	n, err := r.client.ZCard(ctx, setKey).Result()
	if err != nil {
		return 0, fmt.Errorf("session: zcard %s: %w", setKey, err)
	}
	return n, nil
}

func (r *RedisStore) OrderedSetRangeAscending(ctx context.Context, setKey string, start, stop int64) ([]string, error) {
	members, err := r.client.ZRange(ctx, setKey, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("session: zrange %s: %w", setKey, err)
	}
	return members, nil
}

func (r *RedisStore) DeleteOrderedSet(ctx context.Context, setKey string) error {
	return r.Delete(ctx, setKey)
}

func formatScore(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsInf(v, 1):
		return "+inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
