package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/tutorconnect-api/internal/middleware"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
	"github.com/yourusername/tutorconnect-api/internal/pkg/report"
)

// handleError преобразует ошибку сервисного слоя в HTTP-ответ
func handleError(c *gin.Context, tag string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "error_type": "validation"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "conflict"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "error_type": "unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "error_type": "forbidden"})
	case errors.Is(err, apperrors.ErrExternalService):
		log.Printf("[%s] Ошибка внешнего сервиса: %v", tag, err)
		report.Error(err, requestFields(c, tag))
		c.JSON(http.StatusBadGateway, gin.H{"error": "External service failed, please try again", "error_type": "external_service"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Printf("[%s] Запрос прерван: %v", tag, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Request cancelled", "error_type": "cancelled"})
	default:
		log.Printf("[%s] Внутренняя ошибка: %v", tag, err)
		report.Error(err, requestFields(c, tag))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_error"})
	}
}

// bindError отвечает 400 на некорректное тело запроса
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
}

func requestFields(c *gin.Context, tag string) map[string]interface{} {
	fields := map[string]interface{}{
		"handler": tag,
		"method":  c.Request.Method,
		"path":    c.FullPath(),
	}
	if userID := c.GetString(middleware.ContextUserID); userID != "" {
		fields["user_id"] = userID
	}
	return fields
}
