package redis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/tutorconnect-api/internal/domain/repository"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
)

const (
	// defaultUpdateTimeout ограничивает Update, если у ctx нет дедлайна
	defaultUpdateTimeout = 30 * time.Second

	minUpdateBackoff = time.Millisecond
	maxUpdateBackoff = 50 * time.Millisecond
)

// KVStore реализует repository.KeyValueStore поверх Redis.
// Update использует WATCH/MULTI/EXEC: конкурентная запись в тот же ключ приводит к повтору, а не к потере обновления.
type KVStore struct {
	client redis.UniversalClient
	prefix string
}

// NewKVStore создает хранилище. prefix добавляется ко всем ключам (например, "tutorapp:").
func NewKVStore(client redis.UniversalClient, prefix string) (*KVStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for KVStore")
	}
	return &KVStore{client: client, prefix: prefix}, nil
}

func (s *KVStore) key(k string) string {
	return s.prefix + k
}

// Get возвращает значение ключа или ErrNotFound
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", err
	}
	return val, nil
}

// Set записывает значение без срока жизни
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

// Update атомарно применяет fn к значению ключа. fn может быть вызвана несколько раз.
// При конфликте WATCH транзакция повторяется со случайной паузой, пока не истечет ctx.
func (s *KVStore) Update(ctx context.Context, key string, fn repository.UpdateFunc) error {
	fullKey := s.key(key)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultUpdateTimeout)
		defer cancel()
	}

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, fullKey).Result()
		found := true
		if errors.Is(err, redis.Nil) {
			current, found = "", false
		} else if err != nil {
			return err
		}

		next, err := fn(current, found)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, fullKey, next, 0)
			return nil
		})
		return err
	}

	backoff := minUpdateBackoff
	for attempt := 1; ; attempt++ {
		err := s.client.Watch(ctx, txf, fullKey)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		if attempt%10 == 0 {
			log.Printf("[KVStore] Конфликт WATCH для ключа %s, попытка %d", fullKey, attempt)
		}

		// пауза в [backoff/2, backoff]
		pause := backoff/2 + time.Duration(rand.Int63n(int64(backoff/2)+1))
		timer := time.NewTimer(pause)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("update of key %s gave up after %d attempts: %w", fullKey, attempt, ctx.Err())
		}
		backoff = min(backoff*2, maxUpdateBackoff)
	}
}
