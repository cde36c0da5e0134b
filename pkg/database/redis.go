package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/yourusername/tutorconnect-api/internal/config"
)

const redisConnectTimeout = 5 * time.Second

// RedisOptions переводит конфигурацию в опции go-redis.
// Для sentinel обязателен MasterName, cluster определяется клиентом по числу адресов.
func RedisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, error) {
	addrs := cfg.Addrs
	if len(addrs) == 0 && cfg.Addr != "" {
		addrs = []string{cfg.Addr}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("redis: no address configured")
	}

	opts := &redis.UniversalOptions{
		Addrs:    addrs,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.MaxRetries != 0 {
		opts.MaxRetries = cfg.MaxRetries
	}
	if cfg.MinRetryBackoff != 0 {
		opts.MinRetryBackoff = time.Duration(cfg.MinRetryBackoff) * time.Millisecond
	}
	if cfg.MaxRetryBackoff != 0 {
		opts.MaxRetryBackoff = time.Duration(cfg.MaxRetryBackoff) * time.Millisecond
	}

	switch cfg.Mode {
	case "", "single", "cluster":
	case "sentinel":
		if cfg.MasterName == "" {
			return nil, fmt.Errorf("redis: sentinel mode requires master_name")
		}
		opts.MasterName = cfg.MasterName
	default:
		return nil, fmt.Errorf("redis: unsupported mode %q", cfg.Mode)
	}
	return opts, nil
}

// NewUniversalRedisClient подключается к Redis и проверяет соединение
func NewUniversalRedisClient(cfg config.RedisConfig) (redis.UniversalClient, error) {
	opts, err := RedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewUniversalClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis %v: %w", opts.Addrs, err)
	}
	return client, nil
}
