package middleware

import (
	"log/slog"
	"strings"

	"gotrip-checkout/internal/pkg/cookie"
	"gotrip-checkout/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware never rejects a request: checkout is open to guests. It only exposes the bearer
// token (forwarded upstream as-is) and, when a shared secret is configured, the verified claims.
type AuthMiddleware struct {
	jwt    *jwt.Service
	logger *slog.Logger
}

const (
	ctxTokenKey  = "access_token"
	ctxUserIDKey = "user_id"
	ctxClaimsKey = "jwt_claims"
)

func NewAuthMiddleware(jwtService *jwt.Service, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwt:    jwtService,
		logger: logger,
	}
}

func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}
		c.Set(ctxTokenKey, token)

		if !m.jwt.Enabled() {
			c.Next()
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			// the upstream services stay the authority; an unverifiable token is still forwarded
			m.logger.Debug("token not verifiable locally", "error", err.Error())
			c.Next()
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxClaimsKey, map[string]any{
			"user_id": claims.UserID,
			"role":    strings.Join(claims.Roles, ","),
		})
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(authHeader[len("Bearer "):]); token != "" {
			return token
		}
	}
	return cookie.GetAccessToken(c)
}

func GetToken(c *gin.Context) string {
	return c.GetString(ctxTokenKey)
}

func GetUserID(c *gin.Context) (string, bool) {
	id := c.GetString(ctxUserIDKey)
	return id, id != ""
}
