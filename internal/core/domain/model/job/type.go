package job

import (
	"fmt"

	"careplan/internal/pkg/errs"
)

// Type identifies which handler processes a job.
type Type string

const (
	PatientReminder Type = "patient_reminder"
	CarePlanEmail   Type = "care_plan_email"
)

func (t Type) String() string {
	return string(t)
}

// IsKnown reports whether this build has a payload variant for the type.
// Unknown types can still be loaded from storage.
func (t Type) IsKnown() bool {
	switch t {
	case PatientReminder, CarePlanEmail:
		return true
	default:
		return false
	}
}

// Validate only requires a non-empty type so rows written by newer releases stay loadable.
func (t Type) Validate() error {
	if t == "" {
		return errs.NewValueIsRequiredError("job type")
	}
	return nil
}

func (t Type) validateKnown() error {
	if !t.IsKnown() {
		return errs.NewValueIsInvalidErrorWithCause("job type", fmt.Errorf("%q is not a known job type", t))
	}
	return nil
}
