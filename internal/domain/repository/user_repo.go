package repository

import (
	"context"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с учетными записями
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
