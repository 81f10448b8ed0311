package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	scheduledJobsProcessingJob *ScheduledJobsProcessingJob
}

// NewJobManager wires the background jobs to their command handlers.
func NewJobManager(
	processScheduledJobsHandler ProcessScheduledJobsHandler,
	schedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		scheduledJobsProcessingJob: NewScheduledJobsProcessingJob(processScheduledJobsHandler, schedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.scheduledJobsProcessingJob.Start(); err != nil {
		return fmt.Errorf("failed to start scheduled jobs processing job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.scheduledJobsProcessingJob.Stop()
}
