package db

import (
	"context"
	"log/slog"
	"os"

	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/errs"

	"ariga.io/atlas-go-sdk/atlasexec"
)

// Migrate applies the versioned migrations in cfg.MigrateDir using the atlas binary on PATH.
func Migrate(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) error {
	wd, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(os.DirFS(cfg.MigrateDir)))
	if err != nil {
		return errs.Wrap(err, "failed to prepare migration directory")
	}
	defer wd.Close()

	client, err := atlasexec.NewClient(wd.Path(), "atlas")
	if err != nil {
		return errs.Wrap(err, "failed to create atlas client")
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{URL: cfg.BuildDSN()})
	if err != nil {
		return errs.Wrap(err, "failed to apply migrations")
	}

	logger.Info("Migrations applied", "count", len(res.Applied), "dir", cfg.MigrateDir)
	return nil
}
