package commands

import (
	"errors"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/pkg/guard"
)

var (
	ErrCompleteConsultationCommandIsNotConstructed = errors.New(
		"CompleteConsultationCommand must be created via NewCompleteConsultationCommand constructor",
	)
)

// CompleteConsultationCommand closes the loop once the GP has reviewed the plan with the patient.
type CompleteConsultationCommand struct {
	patientID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCompleteConsultationCommand(patientID kernel.UUID) (CompleteConsultationCommand, error) {
	if err := patientID.Validate(); err != nil {
		return CompleteConsultationCommand{}, err
	}

	return CompleteConsultationCommand{
		patientID: patientID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteConsultationCommand) Validate() error {
	return c.guard.Validate(ErrCompleteConsultationCommandIsNotConstructed)
}

func (c CompleteConsultationCommand) PatientID() kernel.UUID {
	return c.patientID
}
