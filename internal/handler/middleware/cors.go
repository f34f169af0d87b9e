package middleware

import (
	"log/slog"
	"slices"
	"strings"

	"gotrip-checkout/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware allows the configured storefront origins. "*" is honored only without
// credentials; with credentials the request origin is echoed back when it matches.
func NewCORSMiddleware(cfg config.CORSConfig, logger *slog.Logger) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	wildcard := slices.Contains(cfg.AllowOrigins, "*")
	switch {
	case wildcard && !cfg.AllowCredentials:
		corsCfg.AllowAllOrigins = true
	default:
		origins := make([]string, 0, len(cfg.AllowOrigins))
		for _, o := range cfg.AllowOrigins {
			if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" && o != "*" {
				origins = append(origins, o)
			}
		}
		corsCfg.AllowOriginFunc = func(origin string) bool {
			return slices.Contains(origins, strings.TrimRight(origin, "/"))
		}
	}

	logger.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins, "credentials", cfg.AllowCredentials)
	return cors.New(corsCfg)
}
