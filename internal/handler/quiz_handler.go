package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/tutorconnect-api/internal/handler/dto"
	"github.com/yourusername/tutorconnect-api/internal/middleware"
	"github.com/yourusername/tutorconnect-api/internal/service"
	"github.com/yourusername/tutorconnect-api/internal/service/quizgen"
)

// QuizHandler обрабатывает запросы каталога и прохождения викторин
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// ListQuizzes возвращает викторины по предметам пользователя
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	quizzes := h.quizService.ListQuizzesForUser(c.Request.Context(), userID)
	c.JSON(http.StatusOK, dto.NewListQuizResponse(quizzes))
}

// GetQuiz возвращает викторину с вопросами, без правильных ответов
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.quizService.GetQuiz(c.GetString("quizID"))
	if err != nil {
		handleError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, true))
}

// SubmitQuiz принимает ответы, считает результат и сохраняет его
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	quizID := c.GetString("quizID")

	var req dto.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	submission, err := h.quizService.SubmitQuiz(c.Request.Context(), userID, quizID, req.Answers, req.TimeTaken)
	if err != nil {
		handleError(c, "QuizHandler", err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSubmissionResponse(submission))
}

// GenerateQuiz создает викторину генератором (только для репетиторов)
func (h *QuizHandler) GenerateQuiz(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req dto.GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	quiz, err := h.quizService.GenerateQuiz(c.Request.Context(), userID, quizgen.Request{
		Subject:       req.Subject,
		Difficulty:    req.Difficulty,
		QuestionCount: req.QuestionCount,
	})
	if err != nil {
		handleError(c, "QuizHandler", err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuizResponse(quiz, true))
}
