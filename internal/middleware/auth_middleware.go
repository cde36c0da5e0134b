package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/tutorconnect-api/pkg/auth"
)

// Ключи контекста gin
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
	ContextClaims = "claims"
)

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth проверяет токен из заголовка Authorization: Bearer {token}
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_missing"})
			return
		}
		m.authenticate(c, token, false)
	}
}

// RequireWSTicket проверяет тикет из query-параметра token (браузер не передает заголовки в WebSocket)
func (m *AuthMiddleware) RequireWSTicket() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token query parameter is required", "error_type": "token_missing"})
			return
		}
		m.authenticate(c, token, true)
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, token string, allowTicket bool) {
	claims, err := m.jwtService.ParseToken(token)
	if err != nil {
		errorType := "token_invalid"
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			errorType = "token_expired"
		case errors.Is(err, auth.ErrTokenRevoked):
			errorType = "token_revoked"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": errorType})
		return
	}
	// Тикет WebSocket не дает доступа к REST API
	if claims.Usage == auth.UsageWebsocket && !allowTicket {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token usage", "error_type": "token_invalid"})
		return
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextClaims, claims)
	c.Next()
}

// RequireRole пропускает только пользователей с указанной ролью из токена.
// Сервисный слой дополнительно сверяет роль с актуальным профилем.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserID) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if c.GetString(ContextRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": role + " role required"})
			return
		}
		c.Next()
	}
}
