package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"careplan/internal/core/domain/model/job"
	"careplan/internal/core/domain/services"
	"careplan/internal/core/ports"
	"careplan/internal/pkg/errs"
)

// CarePlanEmailHandler delivers a generated care plan to the patient exactly once.
type CarePlanEmailHandler struct {
	uowFactory ports.UnitOfWorkFactory
	mail       ports.MailClient
	logger     *slog.Logger
}

func NewCarePlanEmailHandler(
	uowFactory ports.UnitOfWorkFactory,
	mail ports.MailClient,
	logger *slog.Logger,
) *CarePlanEmailHandler {
	return &CarePlanEmailHandler{
		uowFactory: uowFactory,
		mail:       mail,
		logger:     logger.With("component", "care_plan_email_handler"),
	}
}

func (h *CarePlanEmailHandler) Execute(ctx context.Context, req Request) error {
	var payload job.CarePlanEmailPayload
	if err := req.Job.DecodePayload(&payload); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	p, err := uow.PatientRepository().Get(ctx, req.Job.PatientID())
	if err != nil {
		return err
	}

	submission, err := uow.SubmissionRepository().GetByPatient(ctx, p.ID())
	if err != nil {
		return err
	}
	if payload.SubmissionID != "" && payload.SubmissionID != submission.ID().String() {
		return errs.NewObjectNotFoundError("submission", payload.SubmissionID)
	}
	if !submission.HasCarePlan() {
		return ErrCarePlanNotReady
	}

	if submission.CarePlanEmailSent() {
		h.logger.DebugContext(ctx, "Care plan email already sent", "submission_id", submission.ID().String())
		return nil
	}

	if !p.HasEmail() {
		return ErrNoPatientEmail
	}

	email := services.CarePlanEmail(submission.CarePlanText())
	if err = h.mail.Send(ctx, req.Credential, ports.Message{
		To:      p.Email().String(),
		Subject: email.Subject,
		HTML:    email.HTML,
	}); err != nil {
		return fmt.Errorf("send care plan: %w", err)
	}

	if err = submission.MarkCarePlanEmailSent(req.Now); err != nil {
		return err
	}
	if err = uow.SubmissionRepository().Update(ctx, submission); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "Care plan email sent",
		"patient_uuid", p.ID().String(),
		"submission_id", submission.ID().String(),
	)
	return nil
}
