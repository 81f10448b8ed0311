// Package submissionrepo maps questionnaire submissions to the submissions table.
// Goals are stored as jsonb; a patient has at most one row.
package submissionrepo

import (
	"time"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubmissionDTO struct {
	ID                      uuid.UUID                          `gorm:"type:uuid;primaryKey"`
	PatientUUID             uuid.UUID                          `gorm:"column:patient_uuid;type:uuid;not null;uniqueIndex"`
	Goals                   datatypes.JSONType[[]patient.Goal] `gorm:"type:jsonb;not null"`
	SubmittedAt             time.Time                          `gorm:"column:submitted_at;not null"`
	CarePlanText            string                             `gorm:"column:care_plan_text;type:text"`
	CarePlanGeneratedAt     *time.Time                         `gorm:"column:care_plan_generated_at"`
	CarePlanEmailSentAt     *time.Time                         `gorm:"column:care_plan_email_sent_at"`
	ConsultationCompletedAt *time.Time                         `gorm:"column:consultation_completed_at"`
}

func (SubmissionDTO) TableName() string {
	return "submissions"
}

func fromDomain(aggregate *patient.Submission) SubmissionDTO {
	return SubmissionDTO{
		ID:                      aggregate.ID().Bytes(),
		PatientUUID:             aggregate.PatientID().Bytes(),
		Goals:                   datatypes.NewJSONType(aggregate.Goals()),
		SubmittedAt:             aggregate.SubmittedAt(),
		CarePlanText:            aggregate.CarePlanText(),
		CarePlanGeneratedAt:     aggregate.CarePlanGeneratedAt(),
		CarePlanEmailSentAt:     aggregate.CarePlanEmailSentAt(),
		ConsultationCompletedAt: aggregate.ConsultationCompletedAt(),
	}
}

func toDomain(dto SubmissionDTO) (*patient.Submission, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	patientID, err := kernel.UUIDFromBytes(dto.PatientUUID[:])
	if err != nil {
		return nil, err
	}

	return patient.RestoreSubmission(
		id,
		patientID,
		dto.Goals.Data(),
		dto.SubmittedAt.UTC(),
		dto.CarePlanText,
		utc(dto.CarePlanGeneratedAt),
		utc(dto.CarePlanEmailSentAt),
		utc(dto.ConsultationCompletedAt),
	)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
