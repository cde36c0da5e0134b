package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests - максимальное количество запросов за Window
	MaxRequests int
	// Window - временное окно для подсчета запросов
	Window time.Duration
	// KeyPrefix - префикс для ключей счетчиков
	KeyPrefix string
}

// StrictAuthRateLimitConfig - строгий лимит для login/register (защита от brute-force)
func StrictAuthRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 5,
		Window:      1 * time.Minute,
		KeyPrefix:   "rl:auth:strict",
	}
}

// RewardClaimRateLimitConfig ограничивает частоту запросов на начисление наград
func RewardClaimRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 10,
		Window:      1 * time.Minute,
		KeyPrefix:   "rl:claim",
	}
}

// Counter считает запросы в фиксированном окне
type Counter interface {
	// Incr увеличивает счетчик ключа и возвращает новое значение и оставшееся время окна
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisCounter реализует Counter на Incr/Expire/TTL
type RedisCounter struct {
	client redis.UniversalClient
}

// NewRedisCounter создает счетчик поверх Redis
func NewRedisCounter(client redis.UniversalClient) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	// Если это первый запрос в окне - устанавливаем TTL
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			log.Printf("[RateLimiter] Failed to set TTL for key %s: %v", key, err)
		}
	}
	ttl, _ := r.client.TTL(ctx, key).Result()
	return count, ttl, nil
}

// counterSweepInterval - как часто Incr удаляет истекшие окна
const counterSweepInterval = time.Minute

// MemoryCounter реализует Counter в памяти процесса
type MemoryCounter struct {
	mu        sync.Mutex
	windows   map[string]memoryWindow
	lastSweep time.Time
	now       func() time.Time
}

type memoryWindow struct {
	count   int64
	resetAt time.Time
}

// NewMemoryCounter создает счетчик в памяти
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{windows: make(map[string]memoryWindow), now: time.Now}
}

func (m *MemoryCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= counterSweepInterval {
		for k, w := range m.windows {
			if !now.Before(w.resetAt) {
				delete(m.windows, k)
			}
		}
		m.lastSweep = now
	}

	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = memoryWindow{resetAt: now.Add(window)}
	}
	w.count++
	m.windows[key] = w
	return w.count, w.resetAt.Sub(now), nil
}

// RateLimiter создает middleware для rate limiting
type RateLimiter struct {
	counter Counter
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(counter Counter) *RateLimiter {
	return &RateLimiter{counter: counter}
}

// Limit возвращает Gin middleware с заданной конфигурацией.
// Ключ формируется из IP + endpoint path.
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := fmt.Sprintf("%s:%s:%s", cfg.KeyPrefix, clientIP, path)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, ttl, err := rl.counter.Incr(ctx, key, cfg.Window)
		if err != nil {
			// При ошибке хранилища пропускаем запрос (fail-open), но логируем
			log.Printf("[RateLimiter] Counter error for key %s: %v. Allowing request (fail-open).", key, err)
			c.Next()
			return
		}

		remaining := cfg.MaxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		retryAfter := int(ttl.Seconds())
		if retryAfter < 0 {
			retryAfter = int(cfg.Window.Seconds())
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", retryAfter))

		if int(count) > cfg.MaxRequests {
			log.Printf("[RateLimiter] Rate limit exceeded for IP=%s path=%s. Count=%d, Limit=%d",
				clientIP, path, count, cfg.MaxRequests)

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Please try again later.",
				"error_type":  "rate_limited",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
