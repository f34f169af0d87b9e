package bootstrap

import (
	"log/slog"

	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config, logger *slog.Logger) *jwt.Service {
	s := jwt.NewService(cfg.JWT.Secret)
	if !s.Enabled() {
		logger.Warn("JWT_SECRET is empty, bearer tokens are forwarded without local verification")
	}
	return s
}
