package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"careplan/internal/core/domain/model/patient"
	"careplan/internal/core/domain/services"
	"careplan/internal/core/ports"
	"careplan/internal/pkg/errs"
)

// SendPatientEmailResult reports what was delivered.
type SendPatientEmailResult struct {
	Template EmailTemplate
	SentTo   string
}

// SendPatientEmailCommandHandler sends the invite or care plan email on demand
// and records the delivery on the patient or submission.
type SendPatientEmailCommandHandler struct {
	uowFactory  UoWFactory
	mail        ports.MailClient
	formBaseURL string
	clock       Clock
	logger      *slog.Logger
}

func NewSendPatientEmailCommandHandler(
	uowFactory UoWFactory,
	mail ports.MailClient,
	formBaseURL string,
	clock Clock,
	logger *slog.Logger,
) SendPatientEmailCommandHandler {
	return SendPatientEmailCommandHandler{
		uowFactory:  uowFactory,
		mail:        mail,
		formBaseURL: formBaseURL,
		clock:       clockOrSystem(clock),
		logger:      logger.With("component", "send_patient_email"),
	}
}

func (h SendPatientEmailCommandHandler) Handle(
	ctx context.Context,
	cmd SendPatientEmailCommand,
) (SendPatientEmailResult, error) {
	if err := cmd.Validate(); err != nil {
		return SendPatientEmailResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SendPatientEmailResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.PatientRepository().Get(ctx, cmd.PatientID())
	if err != nil {
		return SendPatientEmailResult{}, err
	}
	if !p.HasEmail() {
		return SendPatientEmailResult{}, errs.NewValueIsRequiredError("patientEmail")
	}

	now := h.clock()
	var (
		email      services.Email
		submission *patient.Submission
	)
	switch cmd.Template() {
	case CarePlanTemplate:
		email, submission, err = h.carePlanEmail(ctx, uow, cmd)
	default:
		email = services.InviteEmail(services.FormURL(h.formBaseURL, p.ID()))
	}
	if err != nil {
		return SendPatientEmailResult{}, err
	}

	cred, err := h.mail.AcquireCredential(ctx)
	if err != nil {
		return SendPatientEmailResult{}, fmt.Errorf("acquire mail credential: %w", err)
	}
	if err = h.mail.Send(ctx, cred, ports.Message{
		To:      p.Email().String(),
		Subject: email.Subject,
		HTML:    email.HTML,
	}); err != nil {
		return SendPatientEmailResult{}, fmt.Errorf("send %s email: %w", cmd.Template(), err)
	}

	if cmd.Template() == InviteTemplate {
		p.RecordInviteSent(now)
		if err = uow.PatientRepository().Update(ctx, p); err != nil {
			return SendPatientEmailResult{}, err
		}
	}

	// The queued care_plan_email job sees the stamp and completes without a second send.
	if submission != nil && !submission.CarePlanEmailSent() {
		if err = submission.MarkCarePlanEmailSent(now); err != nil {
			return SendPatientEmailResult{}, err
		}
		if err = uow.SubmissionRepository().Update(ctx, submission); err != nil {
			return SendPatientEmailResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return SendPatientEmailResult{}, err
	}

	h.logger.InfoContext(ctx, "Patient email sent",
		"patient_uuid", p.ID().String(),
		"template", string(cmd.Template()),
	)

	return SendPatientEmailResult{Template: cmd.Template(), SentTo: p.Email().String()}, nil
}

// carePlanEmail renders the supplied plan text, or the stored plan when none
// was supplied. The submission is returned only when its stored plan was used.
func (h SendPatientEmailCommandHandler) carePlanEmail(
	ctx context.Context,
	uow UoW,
	cmd SendPatientEmailCommand,
) (services.Email, *patient.Submission, error) {
	if cmd.CarePlanText() != "" {
		return services.CarePlanEmail(cmd.CarePlanText()), nil, nil
	}

	submission, err := uow.SubmissionRepository().GetByPatient(ctx, cmd.PatientID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return services.Email{}, nil, err
	}
	if submission == nil || !submission.HasCarePlan() {
		return services.Email{}, nil, errs.NewValueIsRequiredError("carePlanText")
	}

	return services.CarePlanEmail(submission.CarePlanText()), submission, nil
}
