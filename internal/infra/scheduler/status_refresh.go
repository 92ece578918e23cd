package scheduler

import (
	"context"
	"log/slog"
	"time"

	"venue-booking/internal/pkg/config"
	"venue-booking/internal/pkg/errs"

	"github.com/go-co-op/gocron/v2"
)

type StatusRefresher interface {
	RefreshStatuses(ctx context.Context) (int, error)
}

// StatusRefreshJob periodically re-resolves booking statuses so that date
// driven transitions (in progress, completed, unpaid) happen without edits.
type StatusRefreshJob struct {
	sched     gocron.Scheduler
	refresher StatusRefresher
	cfg       config.SchedulerConfig
}

func NewStatusRefreshJob(refresher StatusRefresher, cfg config.SchedulerConfig, loc *time.Location) (*StatusRefreshJob, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, errs.Wrap(err, "failed to create scheduler")
	}

	j := &StatusRefreshJob{sched: sched, refresher: refresher, cfg: cfg}
	_, err = sched.NewJob(
		gocron.DurationJob(cfg.RefreshInterval),
		gocron.NewTask(j.run),
		gocron.WithName("booking-status-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, errs.Wrap(err, "failed to register status refresh job")
	}
	return j, nil
}

func (j *StatusRefreshJob) Start() {
	slog.Info("status refresh scheduler started", "interval", j.cfg.RefreshInterval.String())
	j.sched.Start()
}

func (j *StatusRefreshJob) Shutdown() error {
	return j.sched.Shutdown()
}

func (j *StatusRefreshJob) run() {
	timeout := j.cfg.RefreshInterval
	if timeout <= 0 || timeout > time.Minute {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	changed, err := j.refresher.RefreshStatuses(ctx)
	if err != nil {
		slog.Error("status refresh failed", "error", err.Error())
		return
	}
	slog.Debug("status refresh finished", "changed", changed)
}
