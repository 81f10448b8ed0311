package submissionrepo

import (
	"context"
	"errors"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSubmissionRepository implements ports.SubmissionRepository using GORM.
type GormSubmissionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormSubmissionRepository(db *gorm.DB, tracker aggregateTracker) *GormSubmissionRepository {
	return &GormSubmissionRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormSubmissionRepository) Add(ctx context.Context, aggregate *patient.Submission) error {
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

func (r *GormSubmissionRepository) Update(ctx context.Context, aggregate *patient.Submission) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&SubmissionDTO{}).Where("id = ?", dto.ID).Select("*").Omit("id", "patient_uuid").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormSubmissionRepository) GetByPatient(ctx context.Context, patientID kernel.UUID) (*patient.Submission, error) {
	if err := patientID.Validate(); err != nil {
		return nil, err
	}

	var dto SubmissionDTO
	if err := r.db.WithContext(ctx).First(&dto, "patient_uuid = ?", patientID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("submission", patientID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormSubmissionRepository) Exists(ctx context.Context, patientID kernel.UUID) (bool, error) {
	if err := patientID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&SubmissionDTO{}).Where("patient_uuid = ?", patientID.Bytes()).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
