package commands

import (
	"context"
)

type CompleteConsultationCommandHandler struct {
	uowFactory SubmissionUoWFactory
	clock      Clock
}

func NewCompleteConsultationCommandHandler(
	uowFactory SubmissionUoWFactory,
	clock Clock,
) CompleteConsultationCommandHandler {
	return CompleteConsultationCommandHandler{
		uowFactory: uowFactory,
		clock:      clockOrSystem(clock),
	}
}

// Handle marks the patient's submission as consulted. Repeating it keeps the first timestamp.
func (h CompleteConsultationCommandHandler) Handle(ctx context.Context, cmd CompleteConsultationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	submissions := uow.SubmissionRepository()
	submission, err := submissions.GetByPatient(ctx, cmd.PatientID())
	if err != nil {
		return err
	}

	submission.CompleteConsultation(h.clock())
	if err = submissions.Update(ctx, submission); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
