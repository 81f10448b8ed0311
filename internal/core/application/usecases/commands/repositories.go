// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"
	"time"

	"careplan/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// PatientRepoFactory provides access to patient repository within a transaction.
	PatientRepoFactory interface {
		PatientRepository() ports.PatientRepository
	}

	// SubmissionRepoFactory provides access to submission repository within a transaction.
	SubmissionRepoFactory interface {
		SubmissionRepository() ports.SubmissionRepository
	}

	// JobRepoFactory provides access to the scheduled job repository within a transaction.
	JobRepoFactory interface {
		JobRepository() ports.JobRepository
	}

	// PatientUoW covers operations on a patient and its scheduled jobs,
	// such as registration and deletion.
	PatientUoW interface {
		TxManager
		PatientRepoFactory
		JobRepoFactory
	}

	// PatientUoWFactory creates new patient unit of work instances.
	PatientUoWFactory interface {
		Create() PatientUoW
	}

	// SubmissionUoW manages transactions for submission-only operations.
	SubmissionUoW interface {
		TxManager
		SubmissionRepoFactory
	}

	// SubmissionUoWFactory creates new submission unit of work instances.
	SubmissionUoWFactory interface {
		Create() SubmissionUoW
	}

	// UoW manages transactions across patients, submissions and jobs.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   submissions := uow.SubmissionRepository()
	//   jobs := uow.JobRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		PatientRepoFactory
		SubmissionRepoFactory
		JobRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// Clock returns the current time. Handlers take one so tests can pin "now".
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

func clockOrSystem(clock Clock) Clock {
	if clock == nil {
		return systemClock
	}
	return clock
}
