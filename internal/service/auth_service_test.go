package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
	"github.com/yourusername/tutorconnect-api/internal/repository/memory"
	"github.com/yourusername/tutorconnect-api/pkg/auth"
)

func newTestAuthService(t *testing.T, userRepo *MockUserRepository) (*AuthService, *auth.JWTService, *memory.KVStore) {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret", 1, 60, memory.NewCacheRepo())
	require.NoError(t, err)
	store := memory.NewKVStore()
	svc, err := NewAuthService(userRepo, jwtService, NewProfileService(store, nil), nil)
	require.NoError(t, err)
	return svc, jwtService, store
}

func TestAuthService_Register(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)
	svc, jwtService, store := newTestAuthService(t, userRepo)

	resp, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  New@Example.com ",
		Password: "secret1",
		Subjects: []string{"Math"},
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, entity.RoleLearner, resp.Profile.Role)
	assert.True(t, resp.DemoMode, "Без удаленного бэкенда профиль сохраняется только локально")

	claims, err := jwtService.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, err = store.Get(context.Background(), ProfileKey(resp.User.ID))
	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService(t, new(MockUserRepository))
	negative := -10.0

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"короткий пароль", RegisterInput{Email: "a@b.c", Password: "123"}},
		{"неверный email", RegisterInput{Email: "nope", Password: "secret1"}},
		{"неверная роль", RegisterInput{Email: "a@b.c", Password: "secret1", Role: "admin"}},
		{"отрицательная ставка", RegisterInput{Email: "a@b.c", Password: "secret1", HourlyRate: &negative}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("GetByEmail", mock.Anything, "a@b.c").Return(&entity.User{ID: "u1"}, nil)
	svc, _, _ := newTestAuthService(t, userRepo)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAuthService_LoginAndLogout(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &entity.User{ID: "u1", Email: "a@b.c", Password: string(hash)}

	userRepo := new(MockUserRepository)
	userRepo.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)
	svc, jwtService, store := newTestAuthService(t, userRepo)
	storeLocalProfile(t, store, entity.UserProfile{ID: "u1", Email: "a@b.c", Role: entity.RoleTutor})

	_, err = svc.Login(context.Background(), "a@b.c", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	resp, err := svc.Login(context.Background(), "A@B.C", "secret1")
	require.NoError(t, err)

	claims, err := jwtService.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleTutor, claims.Role)

	require.NoError(t, svc.Logout(claims))
	_, err = jwtService.ParseToken(resp.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("GetByEmail", mock.Anything, "ghost@b.c").Return(nil, apperrors.ErrNotFound)
	svc, _, _ := newTestAuthService(t, userRepo)

	_, err := svc.Login(context.Background(), "ghost@b.c", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
