package service

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	"github.com/yourusername/tutorconnect-api/internal/domain/repository"
)

// ============================================================================
// Моки для тестирования сервисов
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// MockProfileBackend реализует repository.ProfileBackend
type MockProfileBackend struct {
	mock.Mock
}

func (m *MockProfileBackend) GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserProfile), args.Error(1)
}

func (m *MockProfileBackend) UpsertProfile(ctx context.Context, profile *entity.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileBackend) UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error {
	args := m.Called(ctx, userID, updates)
	return args.Error(0)
}

// MockRewardBackend реализует RewardBackend
type MockRewardBackend struct {
	mock.Mock
}

func (m *MockRewardBackend) Claim(ctx context.Context, resultID string) error {
	args := m.Called(ctx, resultID)
	return args.Error(0)
}

// recordingNotifier запоминает отправленные уведомления
type recordingNotifier struct {
	mu      sync.Mutex
	claimed []string
	failed  []string
}

func (n *recordingNotifier) NotifyRewardClaimed(userID string, result *entity.QuizResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.claimed = append(n.claimed, result.ID)
}

func (n *recordingNotifier) NotifyRewardClaimFailed(userID, resultID string, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, resultID)
}

// failingKVStore возвращает ошибку на любую операцию
type failingKVStore struct{}

var errStoreDown = errors.New("store down")

func (failingKVStore) Get(ctx context.Context, key string) (string, error) { return "", errStoreDown }
func (failingKVStore) Set(ctx context.Context, key, value string) error    { return errStoreDown }
func (failingKVStore) Update(ctx context.Context, key string, fn repository.UpdateFunc) error {
	return errStoreDown
}
