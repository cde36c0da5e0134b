// Package memory содержит in-memory реализации хранилищ для демо-режима и тестов.
package memory

import (
	"context"
	"sync"

	"github.com/yourusername/tutorconnect-api/internal/domain/repository"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
)

// KVStore реализует repository.KeyValueStore в памяти процесса
type KVStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewKVStore создает пустое хранилище
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]string)}
}

// Get возвращает значение ключа или ErrNotFound
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.data[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return val, nil
}

// Set записывает значение
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Update выполняет read-modify-write под мьютексом
func (s *KVStore) Update(ctx context.Context, key string, fn repository.UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, found := s.data[key]
	next, err := fn(current, found)
	if err != nil {
		return err
	}
	s.data[key] = next
	return nil
}
