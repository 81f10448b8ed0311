package commands

import (
	"context"
)

// DeletePatientCommandHandler cancels all of the patient's pending jobs and then
// deletes the patient. The submission goes with it.
type DeletePatientCommandHandler struct {
	uowFactory PatientUoWFactory
}

func NewDeletePatientCommandHandler(uowFactory PatientUoWFactory) DeletePatientCommandHandler {
	return DeletePatientCommandHandler{uowFactory: uowFactory}
}

func (h DeletePatientCommandHandler) Handle(ctx context.Context, cmd DeletePatientCommand) error {
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

	if _, err := uow.JobRepository().CancelPending(ctx, cmd.PatientID()); err != nil {
		return err
	}

	if err := uow.PatientRepository().Delete(ctx, cmd.PatientID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
