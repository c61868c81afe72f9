package bootstrap

import (
	"context"

	"bookline/internal/infra/jobs"
	"bookline/internal/infra/repository"
	"bookline/internal/pkg/clock"
	"bookline/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var CronModule = fx.Module("cron",
	fx.Provide(
		NewSweeper,
	),
	fx.Invoke(
		registerSweeper,
	),
)

func NewSweeper(pool *pgxpool.Pool, clk clock.Clock, cfg config.Config) *jobs.Sweeper {
	repo := repository.NewIdempotencyRepository(pool)
	return jobs.NewSweeper(repo, clk, cfg.Booking.SweepSchedule)
}

func registerSweeper(lc fx.Lifecycle, sweeper *jobs.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return sweeper.Start()
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
