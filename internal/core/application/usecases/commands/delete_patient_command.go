package commands

import (
	"errors"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/pkg/guard"
)

var (
	ErrDeletePatientCommandIsNotConstructed = errors.New(
		"DeletePatientCommand must be created via NewDeletePatientCommand constructor",
	)
)

// DeletePatientCommand removes a patient and withdraws everything still scheduled for them.
type DeletePatientCommand struct {
	patientID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeletePatientCommand(patientID kernel.UUID) (DeletePatientCommand, error) {
	if err := patientID.Validate(); err != nil {
		return DeletePatientCommand{}, err
	}

	return DeletePatientCommand{
		patientID: patientID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c DeletePatientCommand) Validate() error {
	return c.guard.Validate(ErrDeletePatientCommandIsNotConstructed)
}

func (c DeletePatientCommand) PatientID() kernel.UUID {
	return c.patientID
}
