package jobrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"careplan/internal/core/domain/model/job"
	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJobRepository implements ports.JobRepository using GORM.
type GormJobRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormJobRepository(db *gorm.DB, tracker aggregateTracker) *GormJobRepository {
	return &GormJobRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new job.
func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a job by ID in any status.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FetchDue returns pending jobs that are due, oldest first.
func (r *GormJobRepository) FetchDue(ctx context.Context, limit int, now time.Time) ([]*job.Job, error) {
	if limit < 1 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []JobDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_for <= ?", job.Pending.String(), now.UTC()).
		Order("scheduled_for ASC, id ASC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	jobs := make([]*job.Job, 0, len(dtos))
	for _, dto := range dtos {
		j, err := toDomain(dto)
		if err != nil {
			// A corrupt row would otherwise come back first on every pass.
			if failErr := r.failUnreadable(ctx, dto.ID, err); failErr != nil {
				return nil, failErr
			}
			continue
		}
		jobs = append(jobs, j)
	}

	return jobs, nil
}

// failUnreadable moves a pending row that cannot be restored straight to failed.
func (r *GormJobRepository) failUnreadable(ctx context.Context, id uuid.UUID, cause error) error {
	return r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Where("id = ? AND status = ?", id, job.Pending.String()).
		Updates(map[string]any{
			"status":     job.Failed.String(),
			"last_error": fmt.Sprintf("unreadable job row: %v", cause),
		}).Error
}

// MarkProcessing claims a pending job. Zero affected rows means another pass claimed it.
func (r *GormJobRepository) MarkProcessing(ctx context.Context, id kernel.UUID) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), job.Pending.String()).
		Update("status", job.Processing.String())
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *GormJobRepository) MarkCompleted(ctx context.Context, id kernel.UUID, attempts int) error {
	return r.transitionFromProcessing(ctx, id, map[string]any{
		"status":   job.Completed.String(),
		"attempts": attempts,
	})
}

func (r *GormJobRepository) MarkFailed(ctx context.Context, id kernel.UUID, attempts int, lastError string) error {
	return r.transitionFromProcessing(ctx, id, map[string]any{
		"status":     job.Failed.String(),
		"attempts":   attempts,
		"last_error": lastError,
	})
}

func (r *GormJobRepository) RescheduleForRetry(
	ctx context.Context,
	id kernel.UUID,
	attempts int,
	at time.Time,
	lastError string,
) error {
	return r.transitionFromProcessing(ctx, id, map[string]any{
		"status":        job.Pending.String(),
		"attempts":      attempts,
		"scheduled_for": at.UTC(),
		"last_error":    lastError,
	})
}

// CancelPending cancels the patient's pending jobs, restricted to types when any are given.
func (r *GormJobRepository) CancelPending(ctx context.Context, patientID kernel.UUID, types ...job.Type) (int64, error) {
	if err := patientID.Validate(); err != nil {
		return 0, err
	}

	query := r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Where("patient_uuid = ? AND status = ?", patientID.Bytes(), job.Pending.String())
	if len(types) > 0 {
		names := make([]string, 0, len(types))
		for _, t := range types {
			names = append(names, t.String())
		}
		query = query.Where("job_type IN ?", names)
	}

	result := query.Update("status", job.Cancelled.String())
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (r *GormJobRepository) transitionFromProcessing(ctx context.Context, id kernel.UUID, values map[string]any) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), job.Processing.String()).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("processing job", id.String())
	}

	return nil
}
