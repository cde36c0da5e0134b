package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/tutorconnect-api/internal/handler/dto"
	"github.com/yourusername/tutorconnect-api/internal/middleware"
	"github.com/yourusername/tutorconnect-api/internal/service"
)

// ProfileHandler обрабатывает запросы профиля текущего пользователя
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler создает обработчик профиля
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetMe возвращает профиль текущего пользователя
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	profile, demo, err := h.profiles.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, "ProfileHandler", err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{Profile: profile, DemoMode: demo})
}

// UpdateMe частично обновляет профиль. При недоступной удаленной таблице отвечает demo_mode=true.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	profile, remoteOK, err := h.profiles.UpdateUserProfile(c.Request.Context(), userID, req.ToProfileUpdate())
	if err != nil {
		handleError(c, "ProfileHandler", err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{Profile: profile, DemoMode: !remoteOK})
}
