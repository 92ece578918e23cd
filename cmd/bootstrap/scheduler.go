package bootstrap

import (
	"context"
	"log/slog"

	"venue-booking/internal/infra/scheduler"
	"venue-booking/internal/pkg/config"
	"venue-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Invoke(StartStatusRefresh),
)

func StartStatusRefresh(lc fx.Lifecycle, cfg config.Config, cmds commands.BookingCommands, logger *slog.Logger) error {
	if !cfg.Scheduler.Enabled {
		logger.Info("status refresh scheduler disabled")
		return nil
	}

	job, err := scheduler.NewStatusRefreshJob(cmds, cfg.Scheduler, cfg.Engine.Location())
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			job.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return job.Shutdown()
		},
	})
	return nil
}
