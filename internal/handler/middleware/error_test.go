//go:build unit

package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gotrip-checkout/internal/handler/httperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(buf *bytes.Buffer) *Logger {
	return &Logger{
		logger:   slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
		timezone: time.UTC,
	}
}

func newErrorRouter(l *Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(l.Recovery(), l.LoggingMiddleware(), l.ErrorHandler())

	r.GET("/api/checkout/sessions/:id", func(c *gin.Context) { panic("roster index out of range") })
	r.GET("/api/checkout/sessions/:id/validate", func(c *gin.Context) {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, errors.New("invalid"), "Vui lòng kiểm tra lại thông tin.", nil)
	})
	r.POST("/api/payments/url", func(c *gin.Context) { _ = c.Error(errors.New("lost")) })
	return r
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	r := newErrorRouter(newBufferedLogger(&buf))

	req := httptest.NewRequest(http.MethodGet, "/api/checkout/sessions/sess-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), msgInternal)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), "recovered from panic")
	assert.Contains(t, buf.String(), "session_id=sess-1")
	assert.Contains(t, buf.String(), "request_id="+w.Header().Get(RequestIDHeader))
}

func TestErrorHandler(t *testing.T) {
	t.Run("public error is written as recorded", func(t *testing.T) {
		var buf bytes.Buffer
		r := newErrorRouter(newBufferedLogger(&buf))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/checkout/sessions/sess-1/validate", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Vui lòng kiểm tra lại thông tin.")
		assert.Empty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("unanswered error is logged against the header session", func(t *testing.T) {
		var buf bytes.Buffer
		r := newErrorRouter(newBufferedLogger(&buf))

		req := httptest.NewRequest(http.MethodPost, "/api/payments/url", nil)
		req.Header.Set(SessionHeader, "sess-2")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), "request finished without a response")
		assert.Contains(t, buf.String(), "session_id=sess-2")
		assert.Contains(t, buf.String(), "errors=")
	})
}
