package wispaycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dean3213321/pos-go/internal/domain"
)

// ErrCacheMiss means the account list is not cached; callers fall through to
// the backend.
var ErrCacheMiss = errors.New("wispay accounts not in cache")

// usersKey is fixed: the whole account list is cached as one value.
const usersKey = "wispay:users"

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 5 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context) ([]domain.WispayAccount, error) {
	data, err := r.client.Get(ctx, usersKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var users []domain.WispayAccount
	if err2 := json.Unmarshal(data, &users); err2 != nil {
		return nil, fmt.Errorf("unmarshal wispay accounts failed: %w", err2)
	}
	return users, nil
}

func (r *RedisCache) Set(ctx context.Context, users []domain.WispayAccount) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal wispay accounts failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(30)) * time.Second
	ttl := r.baseTTL + jitter
	if err := r.client.Set(ctx, usersKey, string(data), ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, usersKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
