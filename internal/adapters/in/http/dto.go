package http

import (
	"time"

	"careplan/internal/core/application/usecases/queries"
	"careplan/internal/core/domain/model/patient"
)

type RegisterPatientRequest struct {
	PatientID     string        `json:"patientId"`
	HealthSummary string        `json:"healthSummary"`
	Conditions    []string      `json:"conditions"`
	PatientEmail  string        `json:"patientEmail"`
	GPName        string        `json:"gpName"`
	Site          string        `json:"site"`
	Questions     []QuestionSet `json:"questions"`
}

type RegisterPatientResponse struct {
	Success     bool          `json:"success"`
	PatientUUID string        `json:"patientUuid"`
	FormURL     string        `json:"formUrl"`
	GPName      string        `json:"gpName"`
	Site        string        `json:"site"`
	Conditions  []string      `json:"conditions"`
	Questions   []QuestionSet `json:"questions"`
}

type QuestionSet struct {
	Category  string   `json:"category"`
	Questions []string `json:"questions"`
}

func domainQuestionSets(in []QuestionSet) []patient.QuestionSet {
	if len(in) == 0 {
		return nil
	}
	out := make([]patient.QuestionSet, len(in))
	for i, set := range in {
		out[i] = patient.QuestionSet{Category: set.Category, Questions: set.Questions}
	}
	return out
}

func questionSets(in []patient.QuestionSet) []QuestionSet {
	out := make([]QuestionSet, len(in))
	for i, set := range in {
		out[i] = QuestionSet{Category: set.Category, Questions: nonNil(set.Questions)}
	}
	return out
}

type QuestionnaireRequest struct {
	HealthSummary string `json:"healthSummary"`
}

type QuestionnaireResponse struct {
	Questions          []QuestionSet `json:"questions"`
	DetectedConditions []string      `json:"detectedConditions"`
	ConditionNames     []string      `json:"conditionNames"`
}

type SendPatientEmailRequest struct {
	Template     string `json:"template"`
	CarePlanText string `json:"carePlanText"`
}

type SendPatientEmailResponse struct {
	Success  bool   `json:"success"`
	Template string `json:"template"`
}

type Goal struct {
	Category string            `json:"category"`
	Answers  map[string]string `json:"answers"`
}

type SubmitGoalsRequest struct {
	Goals []Goal `json:"goals"`
}

func (r SubmitGoalsRequest) domainGoals() []patient.Goal {
	goals := make([]patient.Goal, 0, len(r.Goals))
	for _, g := range r.Goals {
		goals = append(goals, patient.Goal{Category: g.Category, Answers: g.Answers})
	}
	return goals
}

type GenerateCarePlanRequest struct {
	HealthSummary string `json:"healthSummary"`
}

type CarePlanResponse struct {
	CarePlan             string   `json:"carePlan"`
	DetectedConditions   []string `json:"detectedConditions"`
	PatientGoalsIncluded bool     `json:"patientGoalsIncluded"`
	EmailScheduled       bool     `json:"emailScheduled"`
}

type PatientFormResponse struct {
	PatientID        string        `json:"patientId"`
	Conditions       []string      `json:"conditions"`
	Questions        []QuestionSet `json:"questions"`
	AlreadySubmitted bool          `json:"alreadySubmitted"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type DashboardResponse struct {
	Awaiting  []DashboardPatient `json:"awaiting"`
	Ready     []DashboardPatient `json:"ready"`
	Completed []DashboardPatient `json:"completed"`
	Closed    []DashboardPatient `json:"closed"`
	Totals    DashboardTotals    `json:"totals"`
}

type DashboardTotals struct {
	Awaiting  int `json:"awaiting"`
	Ready     int `json:"ready"`
	Completed int `json:"completed"`
	Closed    int `json:"closed"`
	Total     int `json:"total"`
}

type DashboardPatient struct {
	ID                 string               `json:"id"`
	PatientID          string               `json:"patientId"`
	Conditions         []string             `json:"conditions"`
	PatientEmail       string               `json:"patientEmail,omitempty"`
	GPName             string               `json:"gpName,omitempty"`
	Site               string               `json:"site,omitempty"`
	ReminderCount      int                  `json:"reminderCount"`
	LastReminderSentAt *time.Time           `json:"lastReminderSentAt,omitempty"`
	InviteSentAt       *time.Time           `json:"inviteSentAt,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
	Submission         *DashboardSubmission `json:"submission,omitempty"`
}

type DashboardSubmission struct {
	Goals                   []Goal     `json:"goals"`
	SubmittedAt             time.Time  `json:"submittedAt"`
	CarePlanGenerated       bool       `json:"carePlanGenerated"`
	CarePlanGeneratedAt     *time.Time `json:"carePlanGeneratedAt,omitempty"`
	CarePlanText            string     `json:"carePlanText,omitempty"`
	CarePlanEmailSent       bool       `json:"carePlanEmailSent"`
	CarePlanEmailSentAt     *time.Time `json:"carePlanEmailSentAt,omitempty"`
	ConsultationCompleted   bool       `json:"consultationCompleted"`
	ConsultationCompletedAt *time.Time `json:"consultationCompletedAt,omitempty"`
}

func dashboardResponse(d queries.GetDashboardQueryResponse) DashboardResponse {
	return DashboardResponse{
		Awaiting:  dashboardPatients(d.Awaiting),
		Ready:     dashboardPatients(d.Ready),
		Completed: dashboardPatients(d.Completed),
		Closed:    dashboardPatients(d.Closed),
		Totals: DashboardTotals{
			Awaiting:  d.Totals.Awaiting,
			Ready:     d.Totals.Ready,
			Completed: d.Totals.Completed,
			Closed:    d.Totals.Closed,
			Total:     d.Totals.Total,
		},
	}
}

func dashboardPatients(in []queries.DashboardPatient) []DashboardPatient {
	out := make([]DashboardPatient, len(in))
	for i, p := range in {
		out[i] = DashboardPatient{
			ID:                 p.ID.String(),
			PatientID:          p.PracticeID,
			Conditions:         nonNil(p.Conditions),
			PatientEmail:       p.Email,
			GPName:             p.GPName,
			Site:               p.Site,
			ReminderCount:      p.ReminderCount,
			LastReminderSentAt: p.LastReminderSentAt,
			InviteSentAt:       p.InviteSentAt,
			CreatedAt:          p.CreatedAt,
		}
		if s := p.Submission; s != nil {
			goals := make([]Goal, len(s.Goals))
			for j, g := range s.Goals {
				goals[j] = Goal{Category: g.Category, Answers: g.Answers}
			}
			out[i].Submission = &DashboardSubmission{
				Goals:                   goals,
				SubmittedAt:             s.SubmittedAt,
				CarePlanGenerated:       s.CarePlanGenerated,
				CarePlanGeneratedAt:     s.CarePlanGeneratedAt,
				CarePlanText:            s.CarePlanText,
				CarePlanEmailSent:       s.CarePlanEmailSent,
				CarePlanEmailSentAt:     s.CarePlanEmailSentAt,
				ConsultationCompleted:   s.ConsultationCompleted,
				ConsultationCompletedAt: s.ConsultationCompletedAt,
			}
		}
	}
	return out
}
