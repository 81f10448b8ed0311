package queries

import (
	"context"
	"time"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetDashboardQueryHandler reads patients joined with their submission in one query.
type GetDashboardQueryHandler struct {
	db *gorm.DB
}

func NewGetDashboardQueryHandler(db *gorm.DB) GetDashboardQueryHandler {
	return GetDashboardQueryHandler{db: db}
}

func (h GetDashboardQueryHandler) Handle(
	ctx context.Context,
	query GetDashboardQuery,
) (GetDashboardQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDashboardQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			p.id,
			p.practice_id,
			p.conditions,
			COALESCE(p.email, ''),
			COALESCE(p.gp_name, ''),
			COALESCE(p.site, ''),
			p.reminder_count,
			p.last_reminder_sent_at,
			p.invite_sent_at,
			p.created_at,
			s.id,
			COALESCE(s.goals, '[]'::jsonb),
			s.submitted_at,
			COALESCE(s.care_plan_text, ''),
			s.care_plan_generated_at,
			s.care_plan_email_sent_at,
			s.consultation_completed_at
		FROM patients p
		LEFT JOIN submissions s ON s.patient_uuid = p.id
		ORDER BY p.created_at DESC, p.id
	`).Rows()
	if err != nil {
		return GetDashboardQueryResponse{}, err
	}
	defer rows.Close()

	response := GetDashboardQueryResponse{
		Awaiting:  make([]DashboardPatient, 0),
		Ready:     make([]DashboardPatient, 0),
		Completed: make([]DashboardPatient, 0),
		Closed:    make([]DashboardPatient, 0),
	}

	for rows.Next() {
		var (
			item         DashboardPatient
			id           uuid.UUID
			conditions   pq.StringArray
			submissionID uuid.NullUUID
			goals        datatypes.JSONType[[]patient.Goal]
			submittedAt  *time.Time
			sub          DashboardSubmission
		)

		err = rows.Scan(
			&id,
			&item.PracticeID,
			&conditions,
			&item.Email,
			&item.GPName,
			&item.Site,
			&item.ReminderCount,
			&item.LastReminderSentAt,
			&item.InviteSentAt,
			&item.CreatedAt,
			&submissionID,
			&goals,
			&submittedAt,
			&sub.CarePlanText,
			&sub.CarePlanGeneratedAt,
			&sub.CarePlanEmailSentAt,
			&sub.ConsultationCompletedAt,
		)
		if err != nil {
			return GetDashboardQueryResponse{}, err
		}

		patientID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return GetDashboardQueryResponse{}, idErr
		}
		item.ID = patientID
		item.Conditions = []string(conditions)

		if submissionID.Valid {
			sub.Goals = goals.Data()
			if submittedAt != nil {
				sub.SubmittedAt = submittedAt.UTC()
			}
			sub.CarePlanGenerated = sub.CarePlanGeneratedAt != nil
			sub.CarePlanEmailSent = sub.CarePlanEmailSentAt != nil
			sub.ConsultationCompleted = sub.ConsultationCompletedAt != nil
			item.Submission = &sub
		}

		switch {
		case item.Submission == nil:
			response.Awaiting = append(response.Awaiting, item)
		case sub.ConsultationCompleted:
			response.Closed = append(response.Closed, item)
		case sub.CarePlanGenerated:
			response.Completed = append(response.Completed, item)
		default:
			response.Ready = append(response.Ready, item)
		}
	}

	if err = rows.Err(); err != nil {
		return GetDashboardQueryResponse{}, err
	}

	response.Totals = DashboardTotals{
		Awaiting:  len(response.Awaiting),
		Ready:     len(response.Ready),
		Completed: len(response.Completed),
		Closed:    len(response.Closed),
	}
	response.Totals.Total = response.Totals.Awaiting + response.Totals.Ready +
		response.Totals.Completed + response.Totals.Closed

	return response, nil
}
