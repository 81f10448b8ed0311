package commands

import (
	"errors"
	"strings"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/pkg/errs"
	"careplan/internal/pkg/guard"
)

var (
	ErrRegisterPatientCommandIsNotConstructed = errors.New(
		"RegisterPatientCommand must be created via NewRegisterPatientCommand constructor",
	)
)

// RegisterPatientCommand records a patient exported from the practice system
// and starts their questionnaire reminder cadence.
//
// Example:
//
//	cmd, err := NewRegisterPatientCommand("BP-1001", summary, "pat@example.com", nil, "", "")
//	if err != nil {
//	    return fmt.Errorf("invalid patient data: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	fmt.Println("send the patient", result.FormURL)
type RegisterPatientCommand struct { //nolint:recvcheck //using for validation
	practiceID    string
	healthSummary string
	email         kernel.Email
	conditions    []string
	gpName        string
	site          string
	questions     []patient.QuestionSet

	guard guard.ConstructorGuard
}

// NewRegisterPatientCommand validates the practice identifier and email.
// Conditions, GP name and site are optional and derived from the summary when empty.
func NewRegisterPatientCommand(
	practiceID, healthSummary, email string,
	conditions []string,
	gpName, site string,
) (RegisterPatientCommand, error) {
	cmd := RegisterPatientCommand{
		healthSummary: healthSummary,
		conditions:    append([]string(nil), conditions...),
		gpName:        strings.TrimSpace(gpName),
		site:          strings.TrimSpace(site),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPracticeID(practiceID),
		cmd.setEmail(email),
	); err != nil {
		return RegisterPatientCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterPatientCommand) Validate() error {
	return c.guard.Validate(ErrRegisterPatientCommandIsNotConstructed)
}

func (c RegisterPatientCommand) PracticeID() string {
	return c.practiceID
}

func (c RegisterPatientCommand) HealthSummary() string {
	return c.healthSummary
}

func (c RegisterPatientCommand) Email() kernel.Email {
	return c.email
}

func (c RegisterPatientCommand) Conditions() []string {
	return c.conditions
}

// WithQuestions returns a copy of the command carrying question sets prepared
// by the practice. Without them the handler builds the sets from the conditions.
func (c RegisterPatientCommand) WithQuestions(sets []patient.QuestionSet) RegisterPatientCommand {
	c.questions = append([]patient.QuestionSet(nil), sets...)
	return c
}

func (c RegisterPatientCommand) Questions() []patient.QuestionSet {
	return c.questions
}

func (c RegisterPatientCommand) GPName() string {
	return c.gpName
}

func (c RegisterPatientCommand) Site() string {
	return c.site
}

func (c *RegisterPatientCommand) setPracticeID(practiceID string) error {
	practiceID = strings.TrimSpace(practiceID)
	if practiceID == "" {
		return errs.NewValueIsRequiredError("patientId")
	}

	c.practiceID = practiceID
	return nil
}

func (c *RegisterPatientCommand) setEmail(raw string) error {
	email, err := kernel.NewEmail(raw)
	if err != nil {
		return err
	}

	c.email = email
	return nil
}
