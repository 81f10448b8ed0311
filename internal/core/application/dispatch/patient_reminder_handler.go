package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"careplan/internal/core/domain/model/job"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/core/domain/services"
	"careplan/internal/core/ports"
)

// PatientReminderHandler nudges a patient who has not yet submitted the questionnaire.
// Once the patient has submitted, their remaining reminders are cancelled instead.
type PatientReminderHandler struct {
	uowFactory  ports.UnitOfWorkFactory
	mail        ports.MailClient
	formBaseURL string
	logger      *slog.Logger
}

func NewPatientReminderHandler(
	uowFactory ports.UnitOfWorkFactory,
	mail ports.MailClient,
	formBaseURL string,
	logger *slog.Logger,
) *PatientReminderHandler {
	return &PatientReminderHandler{
		uowFactory:  uowFactory,
		mail:        mail,
		formBaseURL: formBaseURL,
		logger:      logger.With("component", "patient_reminder_handler"),
	}
}

func (h *PatientReminderHandler) Execute(ctx context.Context, req Request) error {
	var payload job.PatientReminderPayload
	if err := req.Job.DecodePayload(&payload); err != nil {
		return err
	}

	reader := h.uowFactory.Create()
	p, err := reader.PatientRepository().Get(ctx, req.Job.PatientID())
	if err != nil {
		return err
	}

	submitted, err := reader.SubmissionRepository().Exists(ctx, p.ID())
	if err != nil {
		return err
	}
	if submitted {
		cancelled, cancelErr := reader.JobRepository().CancelPending(ctx, p.ID(), job.PatientReminder)
		if cancelErr != nil {
			return cancelErr
		}
		h.logger.InfoContext(ctx, "Patient already submitted, reminders cancelled",
			"patient_uuid", p.ID().String(),
			"cancelled", cancelled,
		)
		return nil
	}

	// Duplicate or stale jobs must not push a patient past the cap.
	if !p.WantsAnotherReminder() {
		h.logger.InfoContext(ctx, "Reminder cap reached, nothing sent",
			"patient_uuid", p.ID().String(),
			"reminder_count", p.ReminderCount(),
		)
		return nil
	}

	if !p.HasEmail() {
		return ErrNoPatientEmail
	}

	email := services.ReminderEmail(services.FormURL(h.formBaseURL, p.ID()))
	if err = h.mail.Send(ctx, req.Credential, ports.Message{
		To:      p.Email().String(),
		Subject: email.Subject,
		HTML:    email.HTML,
	}); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	count := p.RecordReminderSent(req.Now)
	if err = uow.PatientRepository().Update(ctx, p); err != nil {
		return err
	}

	if p.WantsAnotherReminder() {
		next, jobErr := job.NewPatientReminder(p.ID(), count+1, req.Now.Add(patient.ReminderInterval))
		if jobErr != nil {
			return jobErr
		}
		if err = uow.JobRepository().Add(ctx, next); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "Reminder sent",
		"patient_uuid", p.ID().String(),
		"sequence", payload.Sequence,
		"reminder_count", count,
	)
	return nil
}
