//go:build unit

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	now := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(6, 2)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/promotion", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/promotion", nil)
		req.RemoteAddr = ip + ":4711"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("burst then throttled", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
		assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
		assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	})

	t.Run("other clients are unaffected", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, hit("10.0.0.2"))
	})

	t.Run("tokens refill over time", func(t *testing.T) {
		now = now.Add(10 * time.Second)
		assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	})

	t.Run("idle visitors are swept", func(t *testing.T) {
		now = now.Add(limiterIdleTTL + time.Minute)
		hit("10.0.0.3")
		rl.mu.Lock()
		defer rl.mu.Unlock()
		require.Len(t, rl.visitors, 1)
		assert.Contains(t, rl.visitors, "10.0.0.3")
	})
}
