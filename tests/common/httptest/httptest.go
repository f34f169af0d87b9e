//go:build unit || e2e

package httptest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotrip-checkout/internal/handler/middleware"
	"gotrip-checkout/internal/pkg/cookie"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// RequestOption decorates an outgoing test request.
type RequestOption func(*http.Request)

func WithToken(token string) RequestOption {
	return func(r *http.Request) {
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithSessionHeader names the checkout session the way the payment page does after a reload.
func WithSessionHeader(sessionID string) RequestOption {
	return func(r *http.Request) { r.Header.Set(middleware.SessionHeader, sessionID) }
}

// WithSessionCookie replays the cookie issued when the checkout started.
func WithSessionCookie(sessionID string) RequestOption {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: cookie.CheckoutSessionCookieName, Value: sessionID})
	}
}

// Perform sends a JSON request through the router. A nil body sends no payload.
func Perform(t *testing.T, router *gin.Engine, method, path string, body any, opts ...RequestOption) *httptest.ResponseRecorder {
	t.Helper()

	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Failed to encode request body to JSON")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// PerformRequest is Perform with an optional bearer token, the common case for checkout calls.
func PerformRequest(t *testing.T, router *gin.Engine, method, path string, body any, authToken string) *httptest.ResponseRecorder {
	t.Helper()
	return Perform(t, router, method, path, body, WithToken(authToken))
}
