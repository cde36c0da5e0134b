package repository

import (
	"context"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
)

// ProfileBackend - удаленная таблица профилей.
// Любой метод может вернуть ошибку недоступности; вызывающий код деградирует до локального режима.
type ProfileBackend interface {
	GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *entity.UserProfile) error
	UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error
}
