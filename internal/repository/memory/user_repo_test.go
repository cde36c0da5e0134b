package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
)

func TestUserRepo_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo()

	user := &entity.User{ID: "u1", Email: "ann@example.com", Password: "secret1"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, "secret1", user.Password, "Пароль хешируется")
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.True(t, byEmail.CheckPassword("secret1"))

	byID, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", byID.Email)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo()

	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Email: "a@b.c", Password: "secret1"}))
	err := repo.Create(ctx, &entity.User{ID: "u2", Email: "a@b.c", Password: "secret2"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
