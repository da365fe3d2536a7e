package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// DefaultOverdueSchedule runs the scan every five minutes.
const DefaultOverdueSchedule = "0 */5 * * * *"

// OverdueNotifier runs one overdue delivery scan.
type OverdueNotifier interface {
	Handle(ctx context.Context, cmd commands.NotifyOverdueDeliveriesCommand) (int, error)
}

// OverdueDeliveryJob periodically notifies commercial about late deliveries.
type OverdueDeliveryJob struct {
	handler  OverdueNotifier
	schedule string
	clock    kernel.Clock
	observe  func(error)
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOverdueDeliveryJob builds the job. An empty schedule means
// DefaultOverdueSchedule; observe, when set, sees the outcome of every run.
func NewOverdueDeliveryJob(
	handler OverdueNotifier,
	schedule string,
	clock kernel.Clock,
	observe func(error),
	logger *slog.Logger,
) *OverdueDeliveryJob {
	if schedule == "" {
		schedule = DefaultOverdueSchedule
	}
	return &OverdueDeliveryJob{
		handler:  handler,
		schedule: schedule,
		clock:    clock,
		observe:  observe,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "overdue_delivery_job"),
	}
}

// Start registers the scan on the cron schedule and starts the scheduler.
func (j *OverdueDeliveryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue delivery job started", "schedule", j.schedule)
	return nil
}

// Run performs one scan now.
func (j *OverdueDeliveryJob) Run(ctx context.Context) {
	cmd, err := commands.NewNotifyOverdueDeliveriesCommand(j.clock())
	if err == nil {
		_, err = j.handler.Handle(ctx, cmd)
	}
	if err != nil {
		j.logger.ErrorContext(ctx, "Overdue delivery job failed", "error", err)
	}
	if j.observe != nil {
		j.observe(err)
	}
}

// Stop waits for a running scan to finish.
func (j *OverdueDeliveryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Overdue delivery job stopped")
}
