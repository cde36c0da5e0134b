package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
)

// ProfileRepo реализует repository.ProfileBackend поверх таблицы profiles
type ProfileRepo struct {
	db *gorm.DB
}

// NewProfileRepo создает новый репозиторий профилей
func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// GetProfile возвращает профиль по ID пользователя
func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile вставляет профиль или полностью перезаписывает существующий
func (r *ProfileRepo) UpsertProfile(ctx context.Context, profile *entity.UserProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "role", "subjects", "availability", "bio", "hourly_rate", "updated_at"}),
		}).
		Create(profile).Error
}

// UpdateProfile обновляет только переданные колонки
func (r *ProfileRepo) UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).Model(&entity.UserProfile{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
