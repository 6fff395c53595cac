package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/utils"
)

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(1, 2)

	_, engine := gin.CreateTestContext(httptest.NewRecorder())
	engine.Use(func(c *gin.Context) {
		if user := c.GetHeader("X-Test-User"); user != "" {
			ctx := utils.StoreCredentialsInContext(c.Request.Context(), models.Credentials{UserId: user})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	})
	engine.POST("/chat/questions", limiter.Middleware, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(user string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat/questions", nil)
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		engine.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("alice"))
	assert.Equal(t, http.StatusOK, send("alice"))
	assert.Equal(t, http.StatusTooManyRequests, send("alice"))

	// buckets are per caller
	assert.Equal(t, http.StatusOK, send("bob"))
	assert.Equal(t, http.StatusOK, send(""))
}
