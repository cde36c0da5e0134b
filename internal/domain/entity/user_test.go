package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BeforeSave не использует tx, достаточно nil
var noTx *gorm.DB

func TestUser_BeforeSave_HashesPlainPassword(t *testing.T) {
	user := &User{ID: "u-1", Email: "learner@example.com", Password: "secret123"}

	require.NoError(t, user.BeforeSave(noTx))

	assert.NotEqual(t, "secret123", user.Password, "Пароль должен быть захеширован")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
}

func TestUser_BeforeSave_KeepsExistingHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &User{ID: "u-1", Email: "learner@example.com", Password: string(hash)}

	require.NoError(t, user.BeforeSave(noTx))

	assert.Equal(t, string(hash), user.Password, "Уже хешированный пароль не должен изменяться")
}

func TestUser_BeforeSave_EmptyPassword(t *testing.T) {
	user := &User{ID: "u-1", Email: "learner@example.com"}

	require.NoError(t, user.BeforeSave(noTx))
	assert.Empty(t, user.Password)
}

func TestUser_CheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &User{Password: string(hash)}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"правильный пароль", "correct-horse", true},
		{"неправильный пароль", "battery-staple", false},
		{"пустой пароль", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, user.CheckPassword(tt.password))
		})
	}
}

func TestUser_TableName(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
}
