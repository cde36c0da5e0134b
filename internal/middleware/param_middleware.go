package middleware

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,99}$`)

// ExtractSlugParam создает middleware для извлечения идентификатора вида "math-basics" из URL.
// paramName - имя параметра в URL, contextKey - ключ в контексте Gin.
func ExtractSlugParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value := c.Param(paramName)
		if !slugPattern.MatchString(value) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			return
		}
		c.Set(contextKey, value)
		c.Next()
	}
}

// ExtractUUIDParam создает middleware для извлечения UUID из URL
func ExtractUUIDParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param(paramName))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			return
		}
		c.Set(contextKey, id.String())
		c.Next()
	}
}
