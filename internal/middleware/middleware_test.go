package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	"github.com/yourusername/tutorconnect-api/internal/repository/memory"
	"github.com/yourusername/tutorconnect-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT(t *testing.T) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService("middleware-secret", 1, 60, memory.NewCacheRepo())
	require.NoError(t, err)
	return svc
}

func newAuthRouter(m *AuthMiddleware) *gin.Engine {
	r := gin.New()
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})
	r.GET("/tutor", m.RequireAuth(), m.RequireRole(entity.RoleTutor), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/ws", m.RequireWSTicket(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doRequest(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	jwtService := newTestJWT(t)
	r := newAuthRouter(NewAuthMiddleware(jwtService))

	token, err := jwtService.GenerateToken(&entity.User{ID: "u1", Email: "a@b.c"}, entity.RoleLearner)
	require.NoError(t, err)

	w := doRequest(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/me", "garbage").Code)
}

func TestRequireAuth_RejectsWSTicket(t *testing.T) {
	jwtService := newTestJWT(t)
	r := newAuthRouter(NewAuthMiddleware(jwtService))

	ticket, err := jwtService.GenerateWSTicket("u1", "a@b.c", entity.RoleLearner)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/me", ticket).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, "/ws?token="+ticket, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/ws", "").Code)
}

func TestRequireRole(t *testing.T) {
	jwtService := newTestJWT(t)
	r := newAuthRouter(NewAuthMiddleware(jwtService))

	learner, _ := jwtService.GenerateToken(&entity.User{ID: "u1"}, entity.RoleLearner)
	tutor, _ := jwtService.GenerateToken(&entity.User{ID: "u2"}, entity.RoleTutor)

	assert.Equal(t, http.StatusForbidden, doRequest(r, "/tutor", learner).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, "/tutor", tutor).Code)
}

func TestExtractParams(t *testing.T) {
	r := gin.New()
	r.GET("/quizzes/:id", ExtractSlugParam("id", "quizID"), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("quizID"))
	})
	r.GET("/results/:id", ExtractUUIDParam("id", "resultID"), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("resultID"))
	})

	assert.Equal(t, http.StatusOK, doRequest(r, "/quizzes/math-basics", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, "/quizzes/-bad", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, "/results/6f1c2e1a-8d7b-4b7a-9b1e-0c2a5d9e4f11", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, "/results/not-a-uuid", "").Code)
}

func TestRateLimiter_MemoryCounter(t *testing.T) {
	counter := NewMemoryCounter()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	counter.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/login", NewRateLimiter(counter).Limit(RateLimitConfig{MaxRequests: 2, Window: time.Minute, KeyPrefix: "rl:test"}),
		func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, doRequest(r, "/login", "").Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, "/login", "").Code)
	w := doRequest(r, "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, http.StatusNoContent, doRequest(r, "/login", "").Code, "Новое окно сбрасывает счетчик")
}

func TestMemoryCounter_DropsExpiredWindows(t *testing.T) {
	counter := NewMemoryCounter()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	counter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		_, _, err := counter.Incr(ctx, fmt.Sprintf("rl:auth:10.0.0.%d:/api/auth/login", i), time.Minute)
		require.NoError(t, err)
	}
	assert.Len(t, counter.windows, 50)

	now = now.Add(2 * time.Minute)
	count, _, err := counter.Incr(ctx, "rl:auth:10.0.0.99:/api/auth/login", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Len(t, counter.windows, 1, "Истекшие окна должны удаляться")
}
