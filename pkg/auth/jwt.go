package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	"github.com/yourusername/tutorconnect-api/internal/domain/repository"
)

// UsageWebsocket помечает короткоживущий тикет для подключения к /ws
const UsageWebsocket = "websocket_auth"

const revokedTokenKeyPrefix = "revoked_token:"

// Ошибки проверки токена
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token is expired")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenRevoked   = errors.New("token has been revoked")
)

// JWTCustomClaims содержит пользовательские поля для токена
type JWTCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Usage  string `json:"usage,omitempty"`
	jwt.RegisteredClaims
}

// JWTService выпускает и проверяет HS256-токены.
// Отозванные токены хранятся в кеше по jti до истечения их срока.
type JWTService struct {
	secret         []byte
	expiration     time.Duration
	wsTicketExpiry time.Duration
	cacheRepo      repository.CacheRepository
	now            func() time.Time
}

// NewJWTService создает новый сервис JWT и возвращает ошибку при проблемах
func NewJWTService(secret string, expirationHrs int, wsTicketExpirySec int, cacheRepo repository.CacheRepository) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required for JWTService")
	}
	if cacheRepo == nil {
		return nil, fmt.Errorf("CacheRepository is required for JWTService")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	wsExpiry := time.Duration(wsTicketExpirySec) * time.Second
	if wsExpiry <= 0 {
		wsExpiry = 60 * time.Second
	}

	return &JWTService{
		secret:         []byte(secret),
		expiration:     time.Duration(expirationHrs) * time.Hour,
		wsTicketExpiry: wsExpiry,
		cacheRepo:      cacheRepo,
		now:            time.Now,
	}, nil
}

// GenerateToken создает токен доступа для пользователя
func (s *JWTService) GenerateToken(user *entity.User, role string) (string, error) {
	return s.sign(user, role, "", s.expiration)
}

// GenerateWSTicket создает короткоживущий тикет для WebSocket-подключения
func (s *JWTService) GenerateWSTicket(userID, email, role string) (string, error) {
	return s.sign(&entity.User{ID: userID, Email: email}, role, UsageWebsocket, s.wsTicketExpiry)
}

func (s *JWTService) sign(user *entity.User, role, usage string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &JWTCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   role,
		Usage:  usage,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "tutorconnect-api",
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		log.Printf("[JWT] Ошибка генерации токена для пользователя ID=%s: %v", user.ID, err)
		return "", err
	}
	return tokenString, nil
}

// ParseToken проверяет подпись, срок действия и отзыв токена
func (s *JWTService) ParseToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, ErrTokenMalformed
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				log.Printf("[JWT] Токен истек для пользователя ID=%s", claims.UserID)
				return nil, ErrTokenExpired
			}
		}
		log.Printf("[JWT] Ошибка при разборе токена: %v", err)
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	if claims.Usage == UsageWebsocket {
		return claims, nil
	}

	revoked, err := s.cacheRepo.Exists(revokedTokenKeyPrefix + claims.ID)
	if err != nil {
		// Недоступный кеш не блокирует аутентификацию
		log.Printf("[JWT] Не удалось проверить отзыв токена %s: %v", claims.ID, err)
	} else if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// RevokeToken отзывает токен до конца его срока действия
func (s *JWTService) RevokeToken(claims *JWTCustomClaims) error {
	if claims == nil || claims.ID == "" {
		return ErrTokenInvalid
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.cacheRepo.Set(revokedTokenKeyPrefix+claims.ID, "1", ttl); err != nil {
		log.Printf("[JWT] Ошибка отзыва токена %s: %v", claims.ID, err)
		return err
	}
	log.Printf("[JWT] Токен %s пользователя ID=%s отозван", claims.ID, claims.UserID)
	return nil
}
