package commands

import (
	"context"
	"errors"

	"careplan/internal/core/domain/model/job"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/pkg/errs"
)

// SubmitGoalsCommandHandler stores the questionnaire answers and, in the same
// transaction, cancels the patient's pending reminders.
type SubmitGoalsCommandHandler struct {
	uowFactory UoWFactory
	clock      Clock
}

func NewSubmitGoalsCommandHandler(uowFactory UoWFactory, clock Clock) SubmitGoalsCommandHandler {
	return SubmitGoalsCommandHandler{
		uowFactory: uowFactory,
		clock:      clockOrSystem(clock),
	}
}

func (h SubmitGoalsCommandHandler) Handle(ctx context.Context, cmd SubmitGoalsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.clock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.PatientRepository().Get(ctx, cmd.PatientID())
	if err != nil {
		return err
	}

	submissions := uow.SubmissionRepository()
	existing, err := submissions.GetByPatient(ctx, p.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		created, createErr := patient.NewSubmission(p.ID(), cmd.Goals(), now)
		if createErr != nil {
			return createErr
		}
		if err = submissions.Add(ctx, created); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err = existing.UpdateGoals(cmd.Goals(), now); err != nil {
			return err
		}
		if err = submissions.Update(ctx, existing); err != nil {
			return err
		}
	}

	if _, err = uow.JobRepository().CancelPending(ctx, p.ID(), job.PatientReminder); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
