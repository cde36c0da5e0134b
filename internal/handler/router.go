package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	"github.com/yourusername/tutorconnect-api/internal/middleware"
)

// Handlers объединяет обработчики HTTP API
type Handlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Quiz    *QuizHandler
	Result  *ResultHandler
	WS      *WSHandler
}

// RegisterRoutes регистрирует маршруты API. limiter может быть nil.
func RegisterRoutes(r *gin.Engine, h Handlers, authMW *middleware.AuthMiddleware, limiter *middleware.RateLimiter) {
	strict := func(c *gin.Context) { c.Next() }
	claimLimit := strict
	if limiter != nil {
		strict = limiter.Limit(middleware.StrictAuthRateLimitConfig())
		claimLimit = limiter.Limit(middleware.RewardClaimRateLimitConfig())
	}

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", strict, h.Auth.Register)
		authGroup.POST("/login", strict, h.Auth.Login)
		authGroup.POST("/logout", authMW.RequireAuth(), h.Auth.Logout)
		authGroup.POST("/ws-ticket", authMW.RequireAuth(), h.Auth.GetWSTicket)
	}

	users := api.Group("/users", authMW.RequireAuth())
	{
		users.GET("/me", h.Profile.GetMe)
		users.PUT("/me", h.Profile.UpdateMe)
	}

	quizzes := api.Group("/quizzes", authMW.RequireAuth())
	{
		quizzes.GET("", h.Quiz.ListQuizzes)
		quizzes.POST("/generate", authMW.RequireRole(entity.RoleTutor), h.Quiz.GenerateQuiz)
		quizzes.GET("/:id", middleware.ExtractSlugParam("id", "quizID"), h.Quiz.GetQuiz)
		quizzes.POST("/:id/submit", middleware.ExtractSlugParam("id", "quizID"), h.Quiz.SubmitQuiz)
	}

	results := api.Group("/results", authMW.RequireAuth())
	{
		results.GET("", h.Result.ListResults)
		results.GET("/export", h.Result.ExportResults)
		results.POST("/:id/claim", claimLimit, middleware.ExtractUUIDParam("id", "resultID"), h.Result.ClaimReward)
	}

	if h.WS != nil {
		r.GET("/ws", authMW.RequireWSTicket(), h.WS.HandleConnection)
	}
}
