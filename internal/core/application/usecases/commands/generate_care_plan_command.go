package commands

import (
	"errors"
	"strings"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/pkg/errs"
	"careplan/internal/pkg/guard"
)

var (
	ErrGenerateCarePlanCommandIsNotConstructed = errors.New(
		"GenerateCarePlanCommand must be created via NewGenerateCarePlanCommand or NewGenerateDraftCarePlanCommand constructor",
	)
)

// GenerateCarePlanCommand asks the language model for a GPCCMP.
//
// In patient mode the stored health summary, conditions and submitted goals are
// used and the result is saved against the patient's submission. In draft mode
// only the supplied summary is used and nothing is persisted.
type GenerateCarePlanCommand struct {
	patientID     kernel.UUID
	healthSummary string

	guard guard.ConstructorGuard
}

// NewGenerateCarePlanCommand builds a patient-mode command. fallbackSummary is
// used only when the patient has no stored summary.
func NewGenerateCarePlanCommand(patientID kernel.UUID, fallbackSummary string) (GenerateCarePlanCommand, error) {
	if err := patientID.Validate(); err != nil {
		return GenerateCarePlanCommand{}, err
	}

	return GenerateCarePlanCommand{
		patientID:     patientID,
		healthSummary: fallbackSummary,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// NewGenerateDraftCarePlanCommand builds a draft-mode command from free text.
func NewGenerateDraftCarePlanCommand(healthSummary string) (GenerateCarePlanCommand, error) {
	if strings.TrimSpace(healthSummary) == "" {
		return GenerateCarePlanCommand{}, errs.NewValueIsRequiredError("healthSummary")
	}

	return GenerateCarePlanCommand{
		healthSummary: healthSummary,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c GenerateCarePlanCommand) Validate() error {
	return c.guard.Validate(ErrGenerateCarePlanCommandIsNotConstructed)
}

// IsDraft reports whether the command is not tied to a stored patient.
func (c GenerateCarePlanCommand) IsDraft() bool {
	return c.patientID.IsZero()
}

func (c GenerateCarePlanCommand) PatientID() kernel.UUID {
	return c.patientID
}

func (c GenerateCarePlanCommand) HealthSummary() string {
	return c.healthSummary
}
