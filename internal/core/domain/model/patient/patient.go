package patient

import (
	"errors"
	"strings"
	"time"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/pkg/errs"
	"careplan/internal/pkg/guard"
)

const (
	// MaxReminders caps how many questionnaire reminders a patient receives.
	MaxReminders = 3

	// ReminderInterval separates consecutive questionnaire reminders.
	ReminderInterval = 24 * time.Hour
)

var ErrPatientIsNotConstructed = errors.New("Patient must be created via NewPatient or RestorePatient")

// QuestionSet is one titled group of questionnaire questions shown to the patient.
type QuestionSet struct {
	Category  string   `json:"category"`
	Questions []string `json:"questions"`
}

type Patient struct {
	id                 kernel.UUID
	practiceID         string
	healthSummary      string
	conditions         []string
	email              kernel.Email
	gpName             string
	site               string
	reminderCount      int
	lastReminderSentAt *time.Time
	questions          []QuestionSet
	inviteSentAt       *time.Time
	createdAt          time.Time

	guard guard.ConstructorGuard
}

// NewPatient registers a patient with the practice-side identifier practiceID.
func NewPatient(
	practiceID string,
	healthSummary string,
	conditions []string,
	email kernel.Email,
	gpName, site string,
	now time.Time,
) (*Patient, error) {
	practiceID = strings.TrimSpace(practiceID)
	if practiceID == "" {
		return nil, errs.NewValueIsRequiredError("patientId")
	}

	return &Patient{
		id:            kernel.NewUUID(),
		practiceID:    practiceID,
		healthSummary: healthSummary,
		conditions:    append([]string(nil), conditions...),
		email:         email,
		gpName:        strings.TrimSpace(gpName),
		site:          strings.TrimSpace(site),
		createdAt:     now.UTC(),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// RestorePatient rebuilds a patient loaded from storage.
func RestorePatient(
	id kernel.UUID,
	practiceID string,
	healthSummary string,
	conditions []string,
	email kernel.Email,
	gpName, site string,
	reminderCount int,
	lastReminderSentAt *time.Time,
	questions []QuestionSet,
	inviteSentAt *time.Time,
	createdAt time.Time,
) (*Patient, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if reminderCount < 0 {
		return nil, errs.NewValueIsOutOfRangeError("reminderCount", reminderCount, 0, MaxReminders)
	}

	return &Patient{
		id:                 id,
		practiceID:         practiceID,
		healthSummary:      healthSummary,
		conditions:         append([]string(nil), conditions...),
		email:              email,
		gpName:             gpName,
		site:               site,
		reminderCount:      reminderCount,
		lastReminderSentAt: lastReminderSentAt,
		questions:          copyQuestionSets(questions),
		inviteSentAt:       inviteSentAt,
		createdAt:          createdAt,
		guard:              guard.NewConstructorGuard(),
	}, nil
}

func (p *Patient) Validate() error {
	if p == nil {
		return ErrPatientIsNotConstructed
	}
	return p.guard.Validate(ErrPatientIsNotConstructed)
}

func (p *Patient) ID() kernel.UUID {
	return p.id
}

func (p *Patient) PracticeID() string {
	return p.practiceID
}

func (p *Patient) HealthSummary() string {
	return p.healthSummary
}

func (p *Patient) Conditions() []string {
	return append([]string(nil), p.conditions...)
}

func (p *Patient) Email() kernel.Email {
	return p.email
}

func (p *Patient) HasEmail() bool {
	return !p.email.IsEmpty()
}

func (p *Patient) GPName() string {
	return p.gpName
}

func (p *Patient) Site() string {
	return p.site
}

func (p *Patient) ReminderCount() int {
	return p.reminderCount
}

func (p *Patient) LastReminderSentAt() *time.Time {
	return p.lastReminderSentAt
}

// Questions returns the question sets captured at registration.
func (p *Patient) Questions() []QuestionSet {
	return copyQuestionSets(p.questions)
}

// AssignQuestions replaces the patient's questionnaire.
func (p *Patient) AssignQuestions(sets []QuestionSet) {
	p.questions = copyQuestionSets(sets)
}

func (p *Patient) InviteSentAt() *time.Time {
	return p.inviteSentAt
}

func (p *Patient) InviteSent() bool {
	return p.inviteSentAt != nil
}

// RecordInviteSent stamps the time the questionnaire invite went out.
// A resend moves the stamp forward.
func (p *Patient) RecordInviteSent(at time.Time) {
	sentAt := at.UTC()
	p.inviteSentAt = &sentAt
}

func (p *Patient) CreatedAt() time.Time {
	return p.createdAt
}

// RecordReminderSent counts a delivered reminder and returns the new total.
func (p *Patient) RecordReminderSent(at time.Time) int {
	sentAt := at.UTC()
	p.reminderCount++
	p.lastReminderSentAt = &sentAt
	return p.reminderCount
}

// WantsAnotherReminder reports whether the reminder cadence should continue.
func (p *Patient) WantsAnotherReminder() bool {
	return p.reminderCount < MaxReminders
}

func copyQuestionSets(sets []QuestionSet) []QuestionSet {
	if sets == nil {
		return nil
	}
	out := make([]QuestionSet, len(sets))
	for i, set := range sets {
		out[i] = QuestionSet{
			Category:  set.Category,
			Questions: append([]string(nil), set.Questions...),
		}
	}
	return out
}
