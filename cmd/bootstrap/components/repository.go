package components

import (
	"context"
	"log/slog"

	"gotrip-checkout/internal/infra/cache"
	"gotrip-checkout/internal/infra/repository"
	"gotrip-checkout/internal/infra/store"
	"gotrip-checkout/internal/pkg/clock"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/usecase/commands"
	"gotrip-checkout/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		clock.NewRealClock,
		NewDBTX,
		fx.Annotate(
			repository.NewReconciliationRepository,
			fx.As(new(commands.ReconciliationRepository)),
		),
		NewStores,
	),
)

func NewDBTX(pool *pgxpool.Pool) repository.DBTX {
	return pool
}

// Stores are the per-session state the use cases share: sessions, bearer tokens and locks.
type Stores struct {
	fx.Out

	Checkout commands.CheckoutRepository
	Reader   queries.CheckoutReader
	Tokens   commands.SessionStore
	Locker   commands.Locker
}

// NewStores picks Redis when enabled, otherwise process memory (single instance only).
func NewStores(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) (Stores, error) {
	if !cfg.Redis.Enabled {
		logger.Warn("Redis disabled, checkout sessions are kept in process memory")
		repo := store.NewMemoryCheckoutRepository(clk, logger)
		return Stores{
			Checkout: repo,
			Reader:   repo,
			Tokens:   store.NewMemoryTokenStore(clk, logger),
			Locker:   store.NewMemoryLocker(logger),
		}, nil
	}

	client, cleanup, err := cache.NewRedisClient(context.Background(), cfg.Redis, logger)
	if err != nil {
		return Stores{}, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	repo := store.NewRedisCheckoutRepository(client, logger)
	return Stores{
		Checkout: repo,
		Reader:   repo,
		Tokens:   store.NewRedisTokenStore(client, logger),
		Locker:   store.NewRedisLocker(client, logger),
	}, nil
}
