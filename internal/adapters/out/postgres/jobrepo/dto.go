// Package jobrepo persists scheduled jobs in the scheduled_jobs table.
// Every status change is a conditional update on the current status, which is
// what keeps overlapping dispatcher passes from acting on the same job twice.
package jobrepo

import (
	"time"

	"careplan/internal/core/domain/model/job"
	"careplan/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// JobDTO is the row shape of a scheduled job.
type JobDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	JobType      string         `gorm:"column:job_type;type:text;not null"`
	PatientUUID  uuid.UUID      `gorm:"column:patient_uuid;type:uuid;not null"`
	Payload      datatypes.JSON `gorm:"type:jsonb"`
	ScheduledFor time.Time      `gorm:"column:scheduled_for;not null"`
	Status       string         `gorm:"type:text;not null"`
	Attempts     int            `gorm:"not null"`
	MaxAttempts  int            `gorm:"column:max_attempts;not null"`
	LastError    string         `gorm:"column:last_error;type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (JobDTO) TableName() string {
	return "scheduled_jobs"
}

func fromDomain(aggregate *job.Job) JobDTO {
	return JobDTO{
		ID:           aggregate.ID().Bytes(),
		JobType:      aggregate.Type().String(),
		PatientUUID:  aggregate.PatientID().Bytes(),
		Payload:      datatypes.JSON(aggregate.RawPayload()),
		ScheduledFor: aggregate.ScheduledFor(),
		Status:       aggregate.Status().String(),
		Attempts:     aggregate.Attempts(),
		MaxAttempts:  aggregate.MaxAttempts(),
		LastError:    aggregate.LastError(),
	}
}

func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	patientID, err := kernel.UUIDFromBytes(dto.PatientUUID[:])
	if err != nil {
		return nil, err
	}

	return job.Restore(
		id,
		job.Type(dto.JobType),
		patientID,
		[]byte(dto.Payload),
		dto.ScheduledFor,
		job.Status(dto.Status),
		dto.Attempts,
		dto.MaxAttempts,
		dto.LastError,
	)
}
