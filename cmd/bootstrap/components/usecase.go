package components

import (
	"gotrip-checkout/internal/domain/pricing"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/usecase/commands"
	"gotrip-checkout/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	func(cfg config.Config) pricing.Calculator {
		return pricing.NewDefaultCalculator(pricing.Money(cfg.Checkout.SingleRoomSupplement))
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCheckoutCommands,
		commands.NewPaymentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCheckoutQueries,
	),
)
