package jobs

import (
	"context"
	"log/slog"

	"careplan/internal/core/application/dispatch"
	"careplan/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs a dispatcher pass every five minutes.
const DefaultSchedule = "@every 5m"

// ProcessScheduledJobsHandler runs one dispatcher pass.
type ProcessScheduledJobsHandler interface {
	Handle(ctx context.Context, cmd commands.ProcessScheduledJobsCommand) (dispatch.Summary, error)
}

// ScheduledJobsProcessingJob triggers the job dispatcher on a cron schedule.
// A tick that fires while the previous pass is still running is skipped.
type ScheduledJobsProcessingJob struct {
	handler  ProcessScheduledJobsHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewScheduledJobsProcessingJob creates the trigger. An empty schedule means DefaultSchedule.
func NewScheduledJobsProcessingJob(
	handler ProcessScheduledJobsHandler,
	schedule string,
	logger *slog.Logger,
) *ScheduledJobsProcessingJob {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	logger = logger.With("component", "scheduled_jobs_processing_job")
	cronLog := cronLogger{logger: logger}

	return &ScheduledJobsProcessingJob{
		handler:  handler,
		schedule: schedule,
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		logger: logger,
	}
}

// Start registers the pass on the schedule and starts the scheduler.
func (j *ScheduledJobsProcessingJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Scheduled jobs processing started", "schedule", j.schedule)
	return nil
}

// Stop stops scheduling new passes and waits for a running one to finish.
func (j *ScheduledJobsProcessingJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Scheduled jobs processing stopped")
}

func (j *ScheduledJobsProcessingJob) run() {
	ctx := context.Background()

	summary, err := j.handler.Handle(ctx, commands.NewProcessScheduledJobsCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Scheduled jobs pass failed", "error", err)
		return
	}
	if summary.Total == 0 {
		return
	}

	j.logger.InfoContext(ctx, "Scheduled jobs pass finished",
		"processed", summary.Processed,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"total", summary.Total,
	)
}

// cronLogger routes the scheduler's own messages into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
