package queries

import (
	"errors"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/pkg/guard"
)

var (
	ErrGetPatientFormQueryIsNotConstructed = errors.New(
		"GetPatientFormQuery must be created via NewGetPatientFormQuery constructor",
	)
)

// GetPatientFormQuery loads what the questionnaire page needs for one patient.
type GetPatientFormQuery struct {
	patientID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetPatientFormQuery(patientID kernel.UUID) (GetPatientFormQuery, error) {
	if err := patientID.Validate(); err != nil {
		return GetPatientFormQuery{}, err
	}

	return GetPatientFormQuery{
		patientID: patientID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetPatientFormQuery) Validate() error {
	return q.guard.Validate(ErrGetPatientFormQueryIsNotConstructed)
}

func (q GetPatientFormQuery) PatientID() kernel.UUID {
	return q.patientID
}

// GetPatientFormQueryResponse carries the practice-side patient id, the
// conditions and question sets to render, and whether answers already exist.
type GetPatientFormQueryResponse struct {
	PatientID        string
	Conditions       []string
	Questions        []patient.QuestionSet
	AlreadySubmitted bool
}
