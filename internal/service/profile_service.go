package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	"github.com/yourusername/tutorconnect-api/internal/domain/repository"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
)

// ProfileKeyPrefix - префикс локального ключа профиля, полный ключ tutorapp_user:<id>
const ProfileKeyPrefix = "tutorapp_user"

// ProfileKey возвращает локальный ключ профиля пользователя
func ProfileKey(userID string) string {
	return ProfileKeyPrefix + ":" + userID
}

// ProfileService сверяет профиль в локальном хранилище и в удаленной таблице.
// При недоступности удаленной стороны работает только с локальной копией (демо-режим).
type ProfileService struct {
	local  repository.KeyValueStore
	remote repository.ProfileBackend
	now    func() time.Time
}

// NewProfileService создает сервис профилей. remote может быть nil, тогда сервис всегда в демо-режиме.
func NewProfileService(local repository.KeyValueStore, remote repository.ProfileBackend) *ProfileService {
	return &ProfileService{
		local:  local,
		remote: remote,
		now:    time.Now,
	}
}

func (s *ProfileService) readLocal(ctx context.Context, userID string) (*entity.UserProfile, error) {
	raw, err := s.local.Get(ctx, ProfileKey(userID))
	if err != nil {
		return nil, err
	}
	var profile entity.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		log.Printf("[ProfileService] Поврежденный локальный профиль %s: %v", userID, err)
		return nil, apperrors.ErrNotFound
	}
	profile.Normalize()
	return &profile, nil
}

func (s *ProfileService) writeLocal(ctx context.Context, profile *entity.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.local.Set(ctx, ProfileKey(profile.ID), string(data))
}

func (s *ProfileService) fetchRemote(ctx context.Context, userID string) (*entity.UserProfile, error) {
	if s.remote == nil {
		return nil, fmt.Errorf("%w: remote profile backend is not configured", apperrors.ErrExternalService)
	}
	return s.remote.GetProfile(ctx, userID)
}

// GetCurrentUser возвращает профиль пользователя. demoMode=true, если профиль взят из локальной копии.
func (s *ProfileService) GetCurrentUser(ctx context.Context, userID string) (*entity.UserProfile, bool, error) {
	profile, err := s.fetchRemote(ctx, userID)
	if err == nil {
		profile.Normalize()
		if werr := s.writeLocal(ctx, profile); werr != nil {
			log.Printf("[ProfileService] Не удалось обновить локальную копию профиля %s: %v", userID, werr)
		}
		return profile, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[ProfileService] Удаленный профиль %s недоступен, демо-режим: %v", userID, err)
	}

	local, lerr := s.readLocal(ctx, userID)
	if lerr != nil {
		if errors.Is(lerr, apperrors.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: profile %s", apperrors.ErrNotFound, userID)
		}
		log.Printf("[ProfileService] Ошибка чтения локального профиля %s: %v", userID, lerr)
		return nil, false, fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, lerr)
	}
	return local, true, nil
}

// UpdateUserProfile применяет частичное обновление. Локальная копия пишется всегда,
// удаленная по возможности; remoteOK=false означает демо-режим.
func (s *ProfileService) UpdateUserProfile(ctx context.Context, userID string, update entity.ProfileUpdate) (*entity.UserProfile, bool, error) {
	current, _, err := s.GetCurrentUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	updated := update.Apply(*current)
	if err := updated.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	updated.UpdatedAt = s.now()

	if err := s.writeLocal(ctx, &updated); err != nil {
		log.Printf("[ProfileService] Ошибка записи локального профиля %s: %v", userID, err)
		return nil, false, fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}

	remoteOK := s.pushRemote(ctx, &updated, update.Columns(updated))
	return &updated, remoteOK, nil
}

func (s *ProfileService) pushRemote(ctx context.Context, profile *entity.UserProfile, columns map[string]interface{}) bool {
	if s.remote == nil {
		return false
	}
	err := s.remote.UpdateProfile(ctx, profile.ID, columns)
	if errors.Is(err, apperrors.ErrNotFound) {
		err = s.remote.UpsertProfile(ctx, profile)
	}
	if err != nil {
		log.Printf("[ProfileService] Профиль %s сохранен только локально: %v", profile.ID, err)
		return false
	}
	return true
}

// SaveProfile сохраняет новый профиль локально и в удаленной таблице.
// Ошибка удаленной записи не прерывает регистрацию.
func (s *ProfileService) SaveProfile(ctx context.Context, profile *entity.UserProfile) (bool, error) {
	profile.Normalize()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = s.now()
	}
	if err := profile.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.writeLocal(ctx, profile); err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}

	if s.remote == nil {
		return false, nil
	}
	if err := s.remote.UpsertProfile(ctx, profile); err != nil {
		log.Printf("[ProfileService] Аккаунт %s создан, но профиль сохранен не полностью: %v", profile.ID, err)
		return false, nil
	}
	return true, nil
}
