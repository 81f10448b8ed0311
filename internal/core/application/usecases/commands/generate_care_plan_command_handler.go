package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"careplan/internal/core/domain/model/job"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/core/domain/services"
	"careplan/internal/core/ports"
	"careplan/internal/pkg/errs"
)

// GenerateCarePlanResult is the generated plan and what went into it.
type GenerateCarePlanResult struct {
	CarePlan             string
	DetectedConditions   []string
	PatientGoalsIncluded bool
	// EmailScheduled is true when a care_plan_email job was queued for the patient.
	EmailScheduled bool
}

// GenerateCarePlanCommandHandler builds the prompt, calls the generator and, in
// patient mode, stores the plan and queues its delivery email.
type GenerateCarePlanCommandHandler struct {
	uowFactory UoWFactory
	generator  ports.CarePlanGenerator
	detector   services.ConditionDetector
	prompts    services.CarePlanPromptBuilder
	clock      Clock
	logger     *slog.Logger
}

func NewGenerateCarePlanCommandHandler(
	uowFactory UoWFactory,
	generator ports.CarePlanGenerator,
	clock Clock,
	logger *slog.Logger,
) GenerateCarePlanCommandHandler {
	return GenerateCarePlanCommandHandler{
		uowFactory: uowFactory,
		generator:  generator,
		detector:   services.NewConditionDetector(),
		prompts:    services.NewCarePlanPromptBuilder(),
		clock:      clockOrSystem(clock),
		logger:     logger.With("component", "generate_care_plan"),
	}
}

func (h GenerateCarePlanCommandHandler) Handle(
	ctx context.Context,
	cmd GenerateCarePlanCommand,
) (GenerateCarePlanResult, error) {
	if err := cmd.Validate(); err != nil {
		return GenerateCarePlanResult{}, err
	}

	if cmd.IsDraft() {
		conditions := h.detector.Detect(cmd.HealthSummary())
		text, err := h.generate(ctx, cmd.HealthSummary(), conditions, nil)
		if err != nil {
			return GenerateCarePlanResult{}, err
		}
		return GenerateCarePlanResult{CarePlan: text, DetectedConditions: conditions}, nil
	}

	return h.handlePatient(ctx, cmd)
}

func (h GenerateCarePlanCommandHandler) handlePatient(
	ctx context.Context,
	cmd GenerateCarePlanCommand,
) (GenerateCarePlanResult, error) {
	reader := h.uowFactory.Create()
	p, err := reader.PatientRepository().Get(ctx, cmd.PatientID())
	if err != nil {
		return GenerateCarePlanResult{}, err
	}

	submission, err := reader.SubmissionRepository().GetByPatient(ctx, p.ID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return GenerateCarePlanResult{}, err
	}

	summary := p.HealthSummary()
	if strings.TrimSpace(summary) == "" {
		summary = cmd.HealthSummary()
	}
	if strings.TrimSpace(summary) == "" {
		return GenerateCarePlanResult{}, errs.NewValueIsRequiredError("healthSummary")
	}

	conditions := p.Conditions()
	if len(conditions) == 0 {
		conditions = h.detector.Detect(summary)
	}

	var goals []patient.Goal
	if submission != nil {
		goals = submission.Goals()
	}

	// The model call can take tens of seconds, so it runs outside the transaction.
	text, err := h.generate(ctx, summary, conditions, goals)
	if err != nil {
		return GenerateCarePlanResult{}, err
	}

	result := GenerateCarePlanResult{
		CarePlan:             text,
		DetectedConditions:   conditions,
		PatientGoalsIncluded: len(goals) > 0,
	}
	if submission == nil {
		h.logger.WarnContext(ctx, "Care plan generated for patient without submission, not stored",
			"patient_uuid", p.ID().String())
		return result, nil
	}

	now := h.clock()
	if err = submission.AttachCarePlan(text, now); err != nil {
		return GenerateCarePlanResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return GenerateCarePlanResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.SubmissionRepository().Update(ctx, submission); err != nil {
		return GenerateCarePlanResult{}, err
	}

	if p.HasEmail() && !submission.CarePlanEmailSent() {
		delivery, jobErr := job.NewCarePlanEmail(p.ID(), submission.ID(), now)
		if jobErr != nil {
			return GenerateCarePlanResult{}, jobErr
		}
		if err = uow.JobRepository().Add(ctx, delivery); err != nil {
			return GenerateCarePlanResult{}, err
		}
		result.EmailScheduled = true
	}

	if err = uow.Commit(ctx); err != nil {
		return GenerateCarePlanResult{}, err
	}

	return result, nil
}

func (h GenerateCarePlanCommandHandler) generate(
	ctx context.Context,
	summary string,
	conditions []string,
	goals []patient.Goal,
) (string, error) {
	text, err := h.generator.Generate(ctx, h.prompts.SystemPrompt(conditions), h.prompts.UserMessage(summary, goals))
	if err != nil {
		return "", fmt.Errorf("generate care plan: %w", err)
	}
	return text, nil
}
