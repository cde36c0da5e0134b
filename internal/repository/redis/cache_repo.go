package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// cacheOpTimeout ограничивает одно обращение к кешу
const cacheOpTimeout = 2 * time.Second

// CacheRepo реализует repository.CacheRepository поверх Redis (отозванные токены).
// Все ключи получают префикс, чтобы несколько окружений могли делить один Redis.
type CacheRepo struct {
	client redis.UniversalClient
	prefix string
}

// NewCacheRepo создает кеш с префиксом ключей (например, "tutorconnect:cache:")
func NewCacheRepo(client redis.UniversalClient, prefix string) (*CacheRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for CacheRepo")
	}
	return &CacheRepo{client: client, prefix: prefix}, nil
}

func (r *CacheRepo) op() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cacheOpTimeout)
}

// Set сохраняет значение с TTL (0 - без срока жизни)
func (r *CacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	ctx, cancel := r.op()
	defer cancel()
	return r.client.Set(ctx, r.prefix+key, value, expiration).Err()
}

// Exists проверяет наличие ключа
func (r *CacheRepo) Exists(key string) (bool, error) {
	ctx, cancel := r.op()
	defer cancel()
	n, err := r.client.Exists(ctx, r.prefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
