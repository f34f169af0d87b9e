package components

import (
	"net/http"

	"gotrip-checkout/internal/infra/gateway"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/usecase/commands"
	"gotrip-checkout/internal/usecase/queries"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		func(cfg config.Config) *http.Client {
			return gateway.NewHTTPClient(cfg.Services)
		},
		fx.Annotate(
			gateway.NewPromotionClient,
			fx.As(new(commands.PromotionClient)),
			fx.As(new(queries.PromotionLister)),
		),
		fx.Annotate(
			gateway.NewBookingClient,
			fx.As(new(commands.BookingClient)),
		),
		fx.Annotate(
			gateway.NewPaymentClient,
			fx.As(new(commands.PaymentGateway)),
		),
	),
)
