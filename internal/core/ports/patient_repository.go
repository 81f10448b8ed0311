package ports

import (
	"context"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"
)

// PatientRepository defines the persistence contract for patient aggregates.
type PatientRepository interface {
	// Add persists a newly registered patient.
	Add(ctx context.Context, aggregate *patient.Patient) error

	// Update persists reminder bookkeeping and other changes to an existing patient.
	Update(ctx context.Context, aggregate *patient.Patient) error

	// Get retrieves a patient by its internal id.
	// Returns errs.ObjectNotFoundError when the patient does not exist.
	Get(ctx context.Context, id kernel.UUID) (*patient.Patient, error)

	// Delete removes the patient together with its submission.
	Delete(ctx context.Context, id kernel.UUID) error
}

// SubmissionRepository defines the persistence contract for questionnaire submissions.
// A patient has at most one submission.
type SubmissionRepository interface {
	Add(ctx context.Context, aggregate *patient.Submission) error

	Update(ctx context.Context, aggregate *patient.Submission) error

	// GetByPatient returns the patient's submission or errs.ObjectNotFoundError.
	GetByPatient(ctx context.Context, patientID kernel.UUID) (*patient.Submission, error)

	// Exists reports whether the patient has submitted the questionnaire.
	Exists(ctx context.Context, patientID kernel.UUID) (bool, error)
}
