package components

import (
	"gotrip-checkout/internal/handler"
	"gotrip-checkout/internal/handler/api"
	"gotrip-checkout/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCheckoutHandler,
		api.NewPaymentHandler,
		middleware.NewAuthMiddleware,
		middleware.NewPromotionRateLimiter,
	),
	fx.Invoke(handler.NewRouter),
)
