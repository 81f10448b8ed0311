// Package ports defines the contracts between the care-plan core and its infrastructure.
// Repositories persist aggregates, the mail client delivers email and the
// generator produces care plan text; adapters in internal/adapters implement them.
package ports

import (
	"context"
	"time"

	"careplan/internal/core/domain/model/job"
	"careplan/internal/core/domain/model/kernel"
)

// JobRepository is the durable queue of scheduled jobs.
// Status changes are conditional updates so that two overlapping dispatcher
// passes can never both act on the same job.
type JobRepository interface {
	// Add persists a new pending job.
	Add(ctx context.Context, aggregate *job.Job) error

	// Get retrieves a job by id regardless of its status.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// FetchDue returns up to limit pending jobs with scheduled_for <= now,
	// oldest first (ties broken by id).
	FetchDue(ctx context.Context, limit int, now time.Time) ([]*job.Job, error)

	// MarkProcessing claims a job: pending -> processing only if it is still pending.
	// claimed is false when another pass got there first.
	MarkProcessing(ctx context.Context, id kernel.UUID) (claimed bool, err error)

	// MarkCompleted records a successful attempt on a processing job.
	MarkCompleted(ctx context.Context, id kernel.UUID, attempts int) error

	// MarkFailed moves a processing job to its terminal failed state.
	MarkFailed(ctx context.Context, id kernel.UUID, attempts int, lastError string) error

	// RescheduleForRetry puts a processing job back to pending, due at the given time.
	RescheduleForRetry(ctx context.Context, id kernel.UUID, attempts int, at time.Time, lastError string) error

	// CancelPending cancels the patient's pending jobs of the given types,
	// or of every type when none are given, and returns how many were cancelled.
	//
	// Example:
	//   n, err := repo.CancelPending(ctx, patientID, job.PatientReminder)
	//   if err != nil {
	//       return fmt.Errorf("cancel reminders: %w", err)
	//   }
	CancelPending(ctx context.Context, patientID kernel.UUID, types ...job.Type) (int64, error)
}
