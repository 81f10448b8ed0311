package patient

import (
	"errors"
	"strings"
	"time"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/pkg/errs"
	"careplan/internal/pkg/guard"
)

var (
	ErrSubmissionIsNotConstructed = errors.New("Submission must be created via NewSubmission or RestoreSubmission")
	ErrCarePlanNotGenerated       = errors.New("care plan has not been generated")
	ErrCarePlanEmailAlreadySent   = errors.New("care plan email already sent")
)

// Goal is the patient's answers for one questionnaire category.
type Goal struct {
	Category string            `json:"category"`
	Answers  map[string]string `json:"answers"`
}

// Submission is the patient's questionnaire response and everything derived from it.
type Submission struct {
	id                      kernel.UUID
	patientID               kernel.UUID
	goals                   []Goal
	submittedAt             time.Time
	carePlanText            string
	carePlanGeneratedAt     *time.Time
	carePlanEmailSentAt     *time.Time
	consultationCompletedAt *time.Time

	guard guard.ConstructorGuard
}

func NewSubmission(patientID kernel.UUID, goals []Goal, now time.Time) (*Submission, error) {
	if err := patientID.Validate(); err != nil {
		return nil, err
	}
	if err := validateGoals(goals); err != nil {
		return nil, err
	}

	return &Submission{
		id:          kernel.NewUUID(),
		patientID:   patientID,
		goals:       goals,
		submittedAt: now.UTC(),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// RestoreSubmission rebuilds a submission loaded from storage.
func RestoreSubmission(
	id, patientID kernel.UUID,
	goals []Goal,
	submittedAt time.Time,
	carePlanText string,
	carePlanGeneratedAt, carePlanEmailSentAt, consultationCompletedAt *time.Time,
) (*Submission, error) {
	if err := errors.Join(id.Validate(), patientID.Validate()); err != nil {
		return nil, err
	}

	return &Submission{
		id:                      id,
		patientID:               patientID,
		goals:                   goals,
		submittedAt:             submittedAt,
		carePlanText:            carePlanText,
		carePlanGeneratedAt:     carePlanGeneratedAt,
		carePlanEmailSentAt:     carePlanEmailSentAt,
		consultationCompletedAt: consultationCompletedAt,
		guard:                   guard.NewConstructorGuard(),
	}, nil
}

func validateGoals(goals []Goal) error {
	if len(goals) == 0 {
		return errs.NewValueIsRequiredError("goals")
	}
	for _, g := range goals {
		if strings.TrimSpace(g.Category) == "" {
			return errs.NewValueIsRequiredError("goal category")
		}
	}
	return nil
}

func (s *Submission) Validate() error {
	if s == nil {
		return ErrSubmissionIsNotConstructed
	}
	return s.guard.Validate(ErrSubmissionIsNotConstructed)
}

func (s *Submission) ID() kernel.UUID {
	return s.id
}

func (s *Submission) PatientID() kernel.UUID {
	return s.patientID
}

func (s *Submission) Goals() []Goal {
	return s.goals
}

func (s *Submission) SubmittedAt() time.Time {
	return s.submittedAt
}

func (s *Submission) CarePlanText() string {
	return s.carePlanText
}

func (s *Submission) CarePlanGeneratedAt() *time.Time {
	return s.carePlanGeneratedAt
}

func (s *Submission) CarePlanEmailSentAt() *time.Time {
	return s.carePlanEmailSentAt
}

func (s *Submission) ConsultationCompletedAt() *time.Time {
	return s.consultationCompletedAt
}

func (s *Submission) HasCarePlan() bool {
	return strings.TrimSpace(s.carePlanText) != ""
}

func (s *Submission) CarePlanEmailSent() bool {
	return s.carePlanEmailSentAt != nil
}

func (s *Submission) ConsultationCompleted() bool {
	return s.consultationCompletedAt != nil
}

// UpdateGoals replaces the answers when the patient submits the form again.
func (s *Submission) UpdateGoals(goals []Goal, now time.Time) error {
	if err := validateGoals(goals); err != nil {
		return err
	}
	s.goals = goals
	s.submittedAt = now.UTC()
	return nil
}

// AttachCarePlan stores freshly generated plan text.
func (s *Submission) AttachCarePlan(text string, now time.Time) error {
	if strings.TrimSpace(text) == "" {
		return errs.NewValueIsRequiredError("care plan text")
	}
	generatedAt := now.UTC()
	s.carePlanText = text
	s.carePlanGeneratedAt = &generatedAt
	return nil
}

// MarkCarePlanEmailSent sets the idempotence flag checked before every care plan email.
func (s *Submission) MarkCarePlanEmailSent(now time.Time) error {
	if !s.HasCarePlan() {
		return ErrCarePlanNotGenerated
	}
	if s.CarePlanEmailSent() {
		return ErrCarePlanEmailAlreadySent
	}
	sentAt := now.UTC()
	s.carePlanEmailSentAt = &sentAt
	return nil
}

// CompleteConsultation closes the loop once the GP has seen the patient. Repeated calls keep the first time.
func (s *Submission) CompleteConsultation(now time.Time) {
	if s.consultationCompletedAt != nil {
		return
	}
	completedAt := now.UTC()
	s.consultationCompletedAt = &completedAt
}
