package commands

import (
	"errors"
	"strings"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/pkg/errs"
	"careplan/internal/pkg/guard"
)

var (
	ErrSendPatientEmailCommandIsNotConstructed = errors.New(
		"SendPatientEmailCommand must be created via NewSendPatientEmailCommand constructor",
	)
)

// EmailTemplate selects which message SendPatientEmailCommand delivers.
type EmailTemplate string

const (
	// InviteTemplate links the health goals questionnaire.
	InviteTemplate EmailTemplate = "invite"
	// CarePlanTemplate delivers a generated care plan.
	CarePlanTemplate EmailTemplate = "care_plan"
)

// SendPatientEmailCommand emails a patient immediately, outside the job queue.
//
// Example:
//
//	cmd, err := NewSendPatientEmailCommand(patientID, "", "")
//	if err != nil {
//	    return err
//	}
//	_, err = handler.Handle(ctx, cmd) // sends the questionnaire invite
type SendPatientEmailCommand struct {
	patientID    kernel.UUID
	template     EmailTemplate
	carePlanText string

	guard guard.ConstructorGuard
}

// NewSendPatientEmailCommand defaults an empty template to the invite.
// carePlanText is only read by the care plan template and falls back to the
// stored plan when empty.
func NewSendPatientEmailCommand(patientID kernel.UUID, template, carePlanText string) (SendPatientEmailCommand, error) {
	if err := patientID.Validate(); err != nil {
		return SendPatientEmailCommand{}, err
	}

	t := EmailTemplate(strings.TrimSpace(template))
	switch t {
	case "":
		t = InviteTemplate
	case InviteTemplate, CarePlanTemplate:
	default:
		return SendPatientEmailCommand{}, errs.NewValueIsInvalidError("template")
	}

	return SendPatientEmailCommand{
		patientID:    patientID,
		template:     t,
		carePlanText: strings.TrimSpace(carePlanText),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c SendPatientEmailCommand) Validate() error {
	return c.guard.Validate(ErrSendPatientEmailCommandIsNotConstructed)
}

func (c SendPatientEmailCommand) PatientID() kernel.UUID {
	return c.patientID
}

func (c SendPatientEmailCommand) Template() EmailTemplate {
	return c.template
}

func (c SendPatientEmailCommand) CarePlanText() string {
	return c.carePlanText
}
