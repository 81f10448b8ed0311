package commands

import (
	"errors"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/pkg/errs"
	"careplan/internal/pkg/guard"
)

var (
	ErrSubmitGoalsCommandIsNotConstructed = errors.New(
		"SubmitGoalsCommand must be created via NewSubmitGoalsCommand constructor",
	)
)

// SubmitGoalsCommand carries the patient's questionnaire answers.
// Submitting again replaces the previous answers.
type SubmitGoalsCommand struct { //nolint:recvcheck //using for validation
	patientID kernel.UUID
	goals     []patient.Goal

	guard guard.ConstructorGuard
}

func NewSubmitGoalsCommand(patientID kernel.UUID, goals []patient.Goal) (SubmitGoalsCommand, error) {
	cmd := SubmitGoalsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPatientID(patientID),
		cmd.setGoals(goals),
	); err != nil {
		return SubmitGoalsCommand{}, err
	}

	return cmd, nil
}

func (c SubmitGoalsCommand) Validate() error {
	return c.guard.Validate(ErrSubmitGoalsCommandIsNotConstructed)
}

func (c SubmitGoalsCommand) PatientID() kernel.UUID {
	return c.patientID
}

func (c SubmitGoalsCommand) Goals() []patient.Goal {
	return c.goals
}

func (c *SubmitGoalsCommand) setPatientID(patientID kernel.UUID) error {
	if err := patientID.Validate(); err != nil {
		return err
	}

	c.patientID = patientID
	return nil
}

func (c *SubmitGoalsCommand) setGoals(goals []patient.Goal) error {
	if len(goals) == 0 {
		return errs.NewValueIsRequiredError("goals")
	}

	c.goals = goals
	return nil
}
