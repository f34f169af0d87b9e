//go:build unit || e2e

package httptest

import (
	"net/http/httptest"
	"testing"

	"gotrip-checkout/internal/handler/middleware"
	"gotrip-checkout/internal/pkg/cookie"

	"github.com/stretchr/testify/assert"
)

// AssertSessionIssued checks that a started checkout is announced in both the response header
// and the session cookie.
func AssertSessionIssued(t *testing.T, w *httptest.ResponseRecorder, sessionID string) {
	t.Helper()

	assert.Equal(t, sessionID, w.Header().Get(middleware.SessionHeader), "session header mismatch")

	for _, c := range w.Result().Cookies() {
		if c.Name == cookie.CheckoutSessionCookieName {
			assert.Equal(t, sessionID, c.Value, "session cookie mismatch")
			assert.True(t, c.HttpOnly, "session cookie must be HttpOnly")
			return
		}
	}
	assert.Fail(t, "session cookie not set")
}
