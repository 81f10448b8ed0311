// Package postgres provides the GORM-based Unit of Work over the care-plan tables.
// A unit of work hands out job, patient and submission repositories that share
// one transaction once Begin has been called, and the base connection before that.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.SubmissionRepository().Add(ctx, submission); err != nil {
//	    return err
//	}
//	if _, err := uow.JobRepository().CancelPending(ctx, patientID, job.PatientReminder); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit returns gorm.ErrInvalidTransaction, which
// the deferred call discards.
//
// Each UnitOfWork instance is single-goroutine; concurrent operations create
// their own through the factory.
package postgres

import (
	"context"

	"careplan/internal/adapters/out/postgres/jobrepo"
	"careplan/internal/adapters/out/postgres/patientrepo"
	"careplan/internal/adapters/out/postgres/submissionrepo"
	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances over one GORM connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh UnitOfWork with no active transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and records the
// aggregates written through its repositories.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction. Returns gorm.ErrInvalidTransaction when none is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. Returns gorm.ErrInvalidTransaction when none is open.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// JobRepository returns the job store bound to the current transaction, if any.
func (uow *GormUnitOfWork) JobRepository() ports.JobRepository {
	return jobrepo.NewGormJobRepository(uow.conn(), uow)
}

// PatientRepository returns the patient store bound to the current transaction, if any.
func (uow *GormUnitOfWork) PatientRepository() ports.PatientRepository {
	return patientrepo.NewGormPatientRepository(uow.conn(), uow)
}

// SubmissionRepository returns the submission store bound to the current transaction, if any.
func (uow *GormUnitOfWork) SubmissionRepository() ports.SubmissionRepository {
	return submissionrepo.NewGormSubmissionRepository(uow.conn(), uow)
}

// TrackAggregate is called by the repositories after every successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedIDs lists the ids of the aggregates written since the unit of work
// was created or last rolled back, in write order.
func (uow *GormUnitOfWork) TrackedIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(uow.trackedAggregates))
	for _, tracked := range uow.trackedAggregates {
		ids = append(ids, tracked.ID)
	}
	return ids
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
