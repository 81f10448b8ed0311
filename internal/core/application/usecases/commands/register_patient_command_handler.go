package commands

import (
	"context"

	"careplan/internal/core/domain/model/job"
	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/core/domain/services"
)

// RegisterPatientResult is returned to the practice so the form link can be shared.
type RegisterPatientResult struct {
	PatientUUID kernel.UUID
	FormURL     string
	GPName      string
	Site        string
	Conditions  []string
	Questions   []patient.QuestionSet
}

// RegisterPatientCommandHandler persists a new patient and schedules the first
// questionnaire reminder one interval after registration, in a single transaction.
type RegisterPatientCommandHandler struct {
	uowFactory  PatientUoWFactory
	detector    services.ConditionDetector
	builder     services.QuestionnaireBuilder
	formBaseURL string
	clock       Clock
}

func NewRegisterPatientCommandHandler(
	uowFactory PatientUoWFactory,
	formBaseURL string,
	clock Clock,
) RegisterPatientCommandHandler {
	return RegisterPatientCommandHandler{
		uowFactory:  uowFactory,
		detector:    services.NewConditionDetector(),
		builder:     services.NewQuestionnaireBuilder(),
		formBaseURL: formBaseURL,
		clock:       clockOrSystem(clock),
	}
}

func (h RegisterPatientCommandHandler) Handle(
	ctx context.Context,
	cmd RegisterPatientCommand,
) (RegisterPatientResult, error) {
	if err := cmd.Validate(); err != nil {
		return RegisterPatientResult{}, err
	}

	gpName := cmd.GPName()
	if gpName == "" {
		gpName = services.ParseGPName(cmd.HealthSummary())
	}
	site := cmd.Site()
	if site == "" {
		site = services.ParseSite(cmd.HealthSummary())
	}
	conditions := cmd.Conditions()
	if len(conditions) == 0 {
		conditions = h.detector.Detect(cmd.HealthSummary())
	}

	now := h.clock()
	p, err := patient.NewPatient(cmd.PracticeID(), cmd.HealthSummary(), conditions, cmd.Email(), gpName, site, now)
	if err != nil {
		return RegisterPatientResult{}, err
	}

	questions := cmd.Questions()
	if len(questions) == 0 {
		questions = h.builder.ForConditions(conditions).Sets
	}
	p.AssignQuestions(questions)

	firstReminder, err := job.NewPatientReminder(p.ID(), 1, now.Add(patient.ReminderInterval))
	if err != nil {
		return RegisterPatientResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return RegisterPatientResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PatientRepository().Add(ctx, p); err != nil {
		return RegisterPatientResult{}, err
	}

	if err = uow.JobRepository().Add(ctx, firstReminder); err != nil {
		return RegisterPatientResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RegisterPatientResult{}, err
	}

	return RegisterPatientResult{
		PatientUUID: p.ID(),
		FormURL:     services.FormURL(h.formBaseURL, p.ID()),
		GPName:      gpName,
		Site:        site,
		Conditions:  p.Conditions(),
		Questions:   p.Questions(),
	}, nil
}
