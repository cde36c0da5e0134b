package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
)

// UserRepo хранит учетные записи в памяти процесса (storage.driver=memory, без PostgreSQL)
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]entity.User
	byEmail map[string]string
}

// NewUserRepo создает пустой репозиторий учетных записей
func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]entity.User),
		byEmail: make(map[string]string),
	}
}

// Create сохраняет учетную запись, хешируя пароль так же, как GORM-хук
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	if err := user.BeforeSave(nil); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	user := r.byID[id]
	return &user, nil
}
