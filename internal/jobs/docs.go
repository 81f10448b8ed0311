// Package jobs provides scheduled background tasks for the care-plan service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. ScheduledJobsProcessingJob - Runs one job dispatcher pass per tick, sending
// due questionnaire reminders and care plan emails
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(processScheduledJobsHandler, "@every 5m", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The schedule accepts standard five-field cron expressions and descriptors such
// as "@every 5m" or "@hourly". Ticks never overlap within one process; a tick
// that arrives while a pass is still running is dropped. Passes from separate
// processes, or from the HTTP endpoint, are kept apart by the conditional claim
// in the job store.
//
// # Error Handling
//
// A failed pass (no mail credential, unreachable database) is logged and the
// next tick tries again. Per-job failures are recorded on the jobs themselves.
package jobs
