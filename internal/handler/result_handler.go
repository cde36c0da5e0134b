package handler

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/tutorconnect-api/internal/export"
	"github.com/yourusername/tutorconnect-api/internal/handler/dto"
	"github.com/yourusername/tutorconnect-api/internal/middleware"
	"github.com/yourusername/tutorconnect-api/internal/service"
)

// ResultHandler обрабатывает историю результатов и начисление наград
type ResultHandler struct {
	quizService *service.QuizService
}

// NewResultHandler создает обработчик результатов
func NewResultHandler(quizService *service.QuizService) *ResultHandler {
	return &ResultHandler{quizService: quizService}
}

// ListResults возвращает результаты текущего пользователя в порядке прохождения
func (h *ResultHandler) ListResults(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	results, err := h.quizService.ListResults(c.Request.Context(), userID)
	if err != nil {
		handleError(c, "ResultHandler", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResultResponse(results))
}

// ExportResults выгружает результаты пользователя в CSV или XLSX (?format=csv|xlsx)
func (h *ResultHandler) ExportResults(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	format := strings.ToLower(c.DefaultQuery("format", export.FormatCSV))
	if !export.IsSupported(format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format, use csv or xlsx"})
		return
	}

	results, err := h.quizService.ListResults(c.Request.Context(), userID)
	if err != nil {
		handleError(c, "ResultHandler", err)
		return
	}

	filename := fmt.Sprintf("quiz_results_%s", time.Now().Format("20060102"))
	c.Header("Content-Type", export.ContentType(format))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.%s\"", filename, format))

	if err := export.Write(c.Writer, format, results, h.quizService.QuizTitles()); err != nil {
		// Заголовки уже отправлены, остается только залогировать
		log.Printf("[ResultHandler] Ошибка выгрузки результатов пользователя %s: %v", userID, err)
	}
}

// ClaimReward начисляет награду по результату
func (h *ResultHandler) ClaimReward(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	resultID := c.GetString("resultID")

	result, err := h.quizService.ClaimReward(c.Request.Context(), userID, resultID)
	if err != nil {
		handleError(c, "ResultHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Blockchain reward claimed successfully!",
		"result":  dto.NewResultResponse(result),
	})
}
