package cache

import (
	"context"
	"log/slog"
	"time"

	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/errs"

	"github.com/go-redis/redis/v8"
)

func NewRedisClient(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, errs.Wrapf(err, "failed to connect to redis at %s", cfg.Addr)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("Error closing redis client", "error", err)
		}
	}

	return client, cleanup, nil
}
