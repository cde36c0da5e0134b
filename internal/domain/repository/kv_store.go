package repository

import "context"

// UpdateFunc получает текущее значение ключа (found=false, если ключа нет)
// и возвращает новое значение. Ошибка отменяет запись.
type UpdateFunc func(current string, found bool) (string, error)

// KeyValueStore - строковое key-value хранилище с JSON-значениями.
type KeyValueStore interface {
	// Get возвращает apperrors.ErrNotFound, если ключа нет
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Update атомарно выполняет read-modify-write над одним ключом.
	// fn может вызываться повторно при конфликте, поэтому не должна иметь побочных эффектов.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}
