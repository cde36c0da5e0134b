package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	"github.com/yourusername/tutorconnect-api/internal/domain/repository"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
	"github.com/yourusername/tutorconnect-api/pkg/auth"
)

// MinPasswordLength - минимальная длина пароля
const MinPasswordLength = 6

// AuthService предоставляет методы для регистрации, входа и выхода
type AuthService struct {
	userRepo     repository.UserRepository
	jwtService   *auth.JWTService
	profiles     *ProfileService
	emailService EmailService
}

// RegisterInput содержит все данные для регистрации
type RegisterInput struct {
	Email        string
	Password     string
	Role         string
	Subjects     []string
	Availability []string
	Bio          string
	HourlyRate   *float64
}

// AuthResponse содержит данные для ответа на запрос авторизации
type AuthResponse struct {
	User        *entity.User        `json:"user"`
	Profile     *entity.UserProfile `json:"profile,omitempty"`
	AccessToken string              `json:"access_token"`
	DemoMode    bool                `json:"demo_mode"`
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	profiles *ProfileService,
	emailService EmailService,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	if profiles == nil {
		return nil, fmt.Errorf("ProfileService is required for AuthService")
	}
	if emailService == nil {
		emailService = &NoopEmailService{}
	}

	return &AuthService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		profiles:     profiles,
		emailService: emailService,
	}, nil
}

// Register создает учетную запись, ее профиль и выдает токен доступа
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	input.Email = normalizeEmail(input.Email)
	input.Role = strings.TrimSpace(input.Role)
	if input.Role == "" {
		input.Role = entity.RoleLearner
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", apperrors.ErrValidation)
	}
	if len(input.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, MinPasswordLength)
	}
	if !entity.IsValidRole(input.Role) {
		return nil, fmt.Errorf("%w: invalid role '%s'", apperrors.ErrValidation, input.Role)
	}
	if input.HourlyRate != nil && *input.HourlyRate < 0 {
		return nil, fmt.Errorf("%w: hourly rate must be non-negative", apperrors.ErrValidation)
	}

	// Проверяем, существует ли пользователь с таким email
	_, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}

	user := &entity.User{
		ID:       uuid.NewString(),
		Email:    input.Email,
		Password: input.Password,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile := &entity.UserProfile{
		ID:           user.ID,
		Email:        user.Email,
		Role:         input.Role,
		Subjects:     entity.StringArray(input.Subjects),
		Availability: entity.StringArray(input.Availability),
		Bio:          strings.TrimSpace(input.Bio),
		HourlyRate:   input.HourlyRate,
		CreatedAt:    user.CreatedAt,
	}
	remoteOK, err := s.profiles.SaveProfile(ctx, profile)
	if err != nil {
		log.Printf("[AuthService] Аккаунт ID=%s создан, но профиль не сохранен: %v", user.ID, err)
	}

	s.sendWelcome(user.Email, profile.Role)

	token, err := s.jwtService.GenerateToken(user, profile.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("[AuthService] Зарегистрирован пользователь ID=%s (%s), роль %s", user.ID, user.Email, profile.Role)
	return &AuthResponse{
		User:        user,
		Profile:     profile,
		AccessToken: token,
		DemoMode:    !remoteOK,
	}, nil
}

// sendWelcome отправляет приветственное письмо в фоне; ошибка не влияет на регистрацию
func (s *AuthService) sendWelcome(email, role string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.emailService.SendWelcome(ctx, email, role); err != nil {
			log.Printf("[AuthService] Ошибка отправки приветственного письма на %s: %v", email, err)
		}
	}()
}

// Login проверяет email и пароль и выдает токен доступа
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[AuthService] Попытка входа с неизвестным email %s", email)
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.CheckPassword(password) {
		log.Printf("[AuthService] Неверный пароль для пользователя ID=%s", user.ID)
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	role := entity.RoleLearner
	profile, demo, err := s.profiles.GetCurrentUser(ctx, user.ID)
	if err == nil {
		role = profile.Role
	} else {
		log.Printf("[AuthService] Профиль пользователя ID=%s не найден, используется роль %s: %v", user.ID, role, err)
		profile = nil
		demo = true
	}

	token, err := s.jwtService.GenerateToken(user, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("[AuthService] Пользователь ID=%s (%s) успешно вошел в систему", user.ID, user.Email)
	return &AuthResponse{
		User:        user,
		Profile:     profile,
		AccessToken: token,
		DemoMode:    demo,
	}, nil
}

// Logout отзывает текущий токен доступа
func (s *AuthService) Logout(claims *auth.JWTCustomClaims) error {
	if err := s.jwtService.RevokeToken(claims); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	return nil
}

// IssueWSTicket выдает короткоживущий тикет для подключения к уведомлениям
func (s *AuthService) IssueWSTicket(claims *auth.JWTCustomClaims) (string, error) {
	return s.jwtService.GenerateWSTicket(claims.UserID, claims.Email, claims.Role)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
