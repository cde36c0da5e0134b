package memory

import (
	"fmt"
	"sync"
	"time"
)

// sweepInterval - как часто Set вычищает просроченные записи
const sweepInterval = time.Minute

type cacheItem struct {
	value     string
	expiresAt time.Time // нулевое значение - без срока жизни
}

func (i cacheItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// CacheRepo реализует repository.CacheRepository в памяти процесса
type CacheRepo struct {
	mu        sync.RWMutex
	items     map[string]cacheItem
	lastSweep time.Time
	now       func() time.Time
}

// NewCacheRepo создает пустой кеш
func NewCacheRepo() *CacheRepo {
	return &CacheRepo{items: make(map[string]cacheItem), now: time.Now}
}

// Set сохраняет значение с TTL (0 - без срока жизни)
func (r *CacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	now := r.now()
	item := cacheItem{value: fmt.Sprint(value)}
	if expiration > 0 {
		item.expiresAt = now.Add(expiration)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = item
	if now.Sub(r.lastSweep) >= sweepInterval {
		for k, it := range r.items {
			if it.expired(now) {
				delete(r.items, k)
			}
		}
		r.lastSweep = now
	}
	return nil
}

// Exists проверяет наличие непросроченного ключа
func (r *CacheRepo) Exists(key string) (bool, error) {
	r.mu.RLock()
	item, ok := r.items[key]
	r.mu.RUnlock()
	return ok && !item.expired(r.now()), nil
}

