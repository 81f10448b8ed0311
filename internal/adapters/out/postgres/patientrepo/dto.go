// Package patientrepo maps patient aggregates to the patients table.
package patientrepo

import (
	"time"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// PatientDTO is the row shape of a patient. Conditions are stored as a text[]
// column and the questionnaire as jsonb.
type PatientDTO struct {
	ID                 uuid.UUID                                 `gorm:"type:uuid;primaryKey"`
	PracticeID         string                                    `gorm:"column:practice_id;type:text;not null"`
	HealthSummary      string                                    `gorm:"column:health_summary;type:text"`
	Conditions         pq.StringArray                            `gorm:"type:text[]"`
	Questions          datatypes.JSONType[[]patient.QuestionSet] `gorm:"type:jsonb"`
	Email              string                                    `gorm:"column:email;type:text"`
	GPName             string                                    `gorm:"column:gp_name;type:text"`
	Site               string                                    `gorm:"type:text"`
	ReminderCount      int                                       `gorm:"column:reminder_count;not null"`
	LastReminderSentAt *time.Time                                `gorm:"column:last_reminder_sent_at"`
	InviteSentAt       *time.Time                                `gorm:"column:invite_sent_at"`
	CreatedAt          time.Time                                 `gorm:"column:created_at;not null"`
}

func (PatientDTO) TableName() string {
	return "patients"
}

func fromDomain(aggregate *patient.Patient) PatientDTO {
	return PatientDTO{
		ID:                 aggregate.ID().Bytes(),
		PracticeID:         aggregate.PracticeID(),
		HealthSummary:      aggregate.HealthSummary(),
		Conditions:         pq.StringArray(aggregate.Conditions()),
		Questions:          datatypes.NewJSONType(aggregate.Questions()),
		Email:              aggregate.Email().String(),
		GPName:             aggregate.GPName(),
		Site:               aggregate.Site(),
		ReminderCount:      aggregate.ReminderCount(),
		LastReminderSentAt: aggregate.LastReminderSentAt(),
		InviteSentAt:       aggregate.InviteSentAt(),
		CreatedAt:          aggregate.CreatedAt(),
	}
}

func toDomain(dto PatientDTO) (*patient.Patient, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	email, err := kernel.NewEmail(dto.Email)
	if err != nil {
		return nil, err
	}

	var lastSent *time.Time
	if dto.LastReminderSentAt != nil {
		at := dto.LastReminderSentAt.UTC()
		lastSent = &at
	}

	var inviteSent *time.Time
	if dto.InviteSentAt != nil {
		at := dto.InviteSentAt.UTC()
		inviteSent = &at
	}

	return patient.RestorePatient(
		id,
		dto.PracticeID,
		dto.HealthSummary,
		[]string(dto.Conditions),
		email,
		dto.GPName,
		dto.Site,
		dto.ReminderCount,
		lastSent,
		dto.Questions.Data(),
		inviteSent,
		dto.CreatedAt.UTC(),
	)
}
