package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/tutorconnect-api/internal/handler/dto"
	"github.com/yourusername/tutorconnect-api/internal/middleware"
	"github.com/yourusername/tutorconnect-api/internal/service"
	"github.com/yourusername/tutorconnect-api/pkg/auth"
)

// AuthHandler обрабатывает запросы, связанные с аутентификацией
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register обрабатывает запрос на регистрацию
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req.ToRegisterInput())
	if err != nil {
		handleError(c, "AuthHandler", err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login обрабатывает запрос на вход
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, "AuthHandler", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func claimsFromContext(c *gin.Context) (*auth.JWTCustomClaims, bool) {
	value, exists := c.Get(middleware.ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.JWTCustomClaims)
	return claims, ok
}

// Logout отзывает текущий токен
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.authService.Logout(claims); err != nil {
		handleError(c, "AuthHandler", err)
		return
	}

	log.Printf("[AuthHandler] Пользователь %s вышел из системы", claims.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// GetWSTicket выдает короткоживущий тикет для подключения к /ws
func (h *AuthHandler) GetWSTicket(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ticket, err := h.authService.IssueWSTicket(claims)
	if err != nil {
		handleError(c, "AuthHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}
