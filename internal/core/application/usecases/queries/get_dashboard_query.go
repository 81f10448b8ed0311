// Package queries contains the read side of the care-plan service.
// Handlers read straight from PostgreSQL and return flat read models shaped for
// the practice dashboard and the patient questionnaire.
package queries

import (
	"errors"
	"time"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/pkg/guard"
)

var (
	ErrGetDashboardQueryIsNotConstructed = errors.New(
		"GetDashboardQuery must be created via NewGetDashboardQuery constructor",
	)
)

// GetDashboardQuery lists every patient with their submission state, grouped
// by where they are in the care-plan workflow.
//
// Example:
//
//	query := NewGetDashboardQuery()
//	handler := NewGetDashboardQueryHandler(db)
//
//	dashboard, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to load dashboard: %w", err)
//	}
//
//	fmt.Printf("%d patients ready for a care plan\n", dashboard.Totals.Ready)
type GetDashboardQuery struct {
	guard guard.ConstructorGuard
}

func NewGetDashboardQuery() GetDashboardQuery {
	return GetDashboardQuery{guard: guard.NewConstructorGuard()}
}

func (q GetDashboardQuery) Validate() error {
	return q.guard.Validate(ErrGetDashboardQueryIsNotConstructed)
}

// GetDashboardQueryResponse groups patients newest first:
//   - Awaiting: no submission yet
//   - Ready: submitted, no care plan
//   - Completed: care plan generated, consultation pending
//   - Closed: consultation completed
type GetDashboardQueryResponse struct {
	Awaiting  []DashboardPatient
	Ready     []DashboardPatient
	Completed []DashboardPatient
	Closed    []DashboardPatient
	Totals    DashboardTotals
}

type DashboardTotals struct {
	Awaiting  int
	Ready     int
	Completed int
	Closed    int
	Total     int
}

type DashboardPatient struct {
	ID                 kernel.UUID
	PracticeID         string
	Conditions         []string
	Email              string
	GPName             string
	Site               string
	ReminderCount      int
	LastReminderSentAt *time.Time
	InviteSentAt       *time.Time
	CreatedAt          time.Time
	// Submission is nil for patients who have not answered the questionnaire.
	Submission *DashboardSubmission
}

type DashboardSubmission struct {
	Goals                   []patient.Goal
	SubmittedAt             time.Time
	CarePlanGenerated       bool
	CarePlanGeneratedAt     *time.Time
	CarePlanText            string
	CarePlanEmailSent       bool
	CarePlanEmailSentAt     *time.Time
	ConsultationCompleted   bool
	ConsultationCompletedAt *time.Time
}
