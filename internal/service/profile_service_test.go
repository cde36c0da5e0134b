package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
	"github.com/yourusername/tutorconnect-api/internal/repository/memory"
)

var errBackendDown = errors.New("connection refused")

func storeLocalProfile(t *testing.T, store *memory.KVStore, p entity.UserProfile) {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), ProfileKey(p.ID), string(data)))
}

func TestProfileService_GetCurrentUser_RemoteWriteThrough(t *testing.T) {
	store := memory.NewKVStore()
	remote := new(MockProfileBackend)
	remote.On("GetProfile", mock.Anything, "u1").Return(&entity.UserProfile{ID: "u1", Email: "a@b.c"}, nil)
	svc := NewProfileService(store, remote)

	p, demo, err := svc.GetCurrentUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, demo)
	assert.Equal(t, entity.RoleLearner, p.Role, "Роль по умолчанию learner")

	raw, err := store.Get(context.Background(), "tutorapp_user:u1")
	require.NoError(t, err, "Профиль должен быть записан в локальное хранилище")
	assert.Contains(t, raw, `"email":"a@b.c"`)
}

func TestProfileService_GetCurrentUser_FallsBackToLocal(t *testing.T) {
	store := memory.NewKVStore()
	storeLocalProfile(t, store, entity.UserProfile{ID: "u1", Email: "a@b.c", Role: entity.RoleTutor})
	remote := new(MockProfileBackend)
	remote.On("GetProfile", mock.Anything, "u1").Return(nil, errBackendDown)
	svc := NewProfileService(store, remote)

	p, demo, err := svc.GetCurrentUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, demo)
	assert.Equal(t, entity.RoleTutor, p.Role)
}

func TestProfileService_GetCurrentUser_NotFoundAnywhere(t *testing.T) {
	remote := new(MockProfileBackend)
	remote.On("GetProfile", mock.Anything, "u1").Return(nil, apperrors.ErrNotFound)
	svc := NewProfileService(memory.NewKVStore(), remote)

	_, _, err := svc.GetCurrentUser(context.Background(), "u1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProfileService_UpdateUserProfile_RemoteUnavailable(t *testing.T) {
	store := memory.NewKVStore()
	storeLocalProfile(t, store, entity.UserProfile{ID: "u1", Email: "a@b.c", Role: entity.RoleLearner})
	remote := new(MockProfileBackend)
	remote.On("GetProfile", mock.Anything, "u1").Return(nil, errBackendDown)
	remote.On("UpdateProfile", mock.Anything, "u1", mock.Anything).Return(errBackendDown)
	svc := NewProfileService(store, remote)

	rate := 25.0
	updated, remoteOK, err := svc.UpdateUserProfile(context.Background(), "u1", entity.ProfileUpdate{
		Subjects:   []string{"Math", "Math", " Physics "},
		HourlyRate: &rate,
	})
	require.NoError(t, err)
	assert.False(t, remoteOK, "Недоступный бэкенд означает демо-режим")
	assert.Equal(t, entity.StringArray{"Math", "Physics"}, updated.Subjects)

	local, _, err := NewProfileService(store, nil).GetCurrentUser(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, local.HourlyRate)
	assert.Equal(t, 25.0, *local.HourlyRate)
}

func TestProfileService_UpdateUserProfile_Validation(t *testing.T) {
	store := memory.NewKVStore()
	storeLocalProfile(t, store, entity.UserProfile{ID: "u1", Role: entity.RoleLearner})
	svc := NewProfileService(store, nil)

	badRole := "admin"
	_, _, err := svc.UpdateUserProfile(context.Background(), "u1", entity.ProfileUpdate{Role: &badRole})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	negative := -1.0
	_, _, err = svc.UpdateUserProfile(context.Background(), "u1", entity.ProfileUpdate{HourlyRate: &negative})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestProfileService_UpdateUserProfile_UpsertsMissingRemoteRow(t *testing.T) {
	store := memory.NewKVStore()
	storeLocalProfile(t, store, entity.UserProfile{ID: "u1", Role: entity.RoleLearner})
	remote := new(MockProfileBackend)
	remote.On("GetProfile", mock.Anything, "u1").Return(nil, apperrors.ErrNotFound)
	remote.On("UpdateProfile", mock.Anything, "u1", mock.Anything).Return(apperrors.ErrNotFound)
	remote.On("UpsertProfile", mock.Anything, mock.AnythingOfType("*entity.UserProfile")).Return(nil)
	svc := NewProfileService(store, remote)

	role := entity.RoleTutor
	_, remoteOK, err := svc.UpdateUserProfile(context.Background(), "u1", entity.ProfileUpdate{Role: &role})
	require.NoError(t, err)
	assert.True(t, remoteOK)
	remote.AssertExpectations(t)
}

func TestProfileService_SaveProfile_RemoteFailureIsNotFatal(t *testing.T) {
	store := memory.NewKVStore()
	remote := new(MockProfileBackend)
	remote.On("UpsertProfile", mock.Anything, mock.Anything).Return(errBackendDown)
	svc := NewProfileService(store, remote)

	remoteOK, err := svc.SaveProfile(context.Background(), &entity.UserProfile{ID: "u1", Email: "a@b.c"})
	require.NoError(t, err)
	assert.False(t, remoteOK)

	_, err = store.Get(context.Background(), ProfileKey("u1"))
	assert.NoError(t, err)
}
