package patientrepo

import (
	"context"
	"errors"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPatientRepository implements ports.PatientRepository using GORM.
type GormPatientRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPatientRepository(db *gorm.DB, tracker aggregateTracker) *GormPatientRepository {
	return &GormPatientRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormPatientRepository) Add(ctx context.Context, aggregate *patient.Patient) error {
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

// Update writes every column so that cleared fields are persisted too.
func (r *GormPatientRepository) Update(ctx context.Context, aggregate *patient.Patient) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&PatientDTO{}).Where("id = ?", dto.ID).Select("*").Omit("id", "created_at").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPatientRepository) Get(ctx context.Context, id kernel.UUID) (*patient.Patient, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PatientDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("patient", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Delete removes the patient row. The submission is removed by the ON DELETE CASCADE
// constraint installed by postgres.Migrate.
func (r *GormPatientRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&PatientDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("patient", id.String())
	}

	return nil
}
