package queries

import (
	"context"

	"careplan/internal/core/domain/model/patient"
	"careplan/internal/core/domain/services"
	"careplan/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GetPatientFormQueryHandler struct {
	db      *gorm.DB
	builder services.QuestionnaireBuilder
}

func NewGetPatientFormQueryHandler(db *gorm.DB) GetPatientFormQueryHandler {
	return GetPatientFormQueryHandler{db: db, builder: services.NewQuestionnaireBuilder()}
}

// Handle returns errs.ObjectNotFoundError when the patient does not exist.
// Patients registered without a stored questionnaire get one built from their conditions.
func (h GetPatientFormQueryHandler) Handle(
	ctx context.Context,
	query GetPatientFormQuery,
) (GetPatientFormQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetPatientFormQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			p.practice_id,
			p.conditions,
			COALESCE(p.questions, 'null'::jsonb),
			EXISTS (SELECT 1 FROM submissions s WHERE s.patient_uuid = p.id)
		FROM patients p
		WHERE p.id = ?
	`, query.PatientID().Bytes()).Rows()
	if err != nil {
		return GetPatientFormQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetPatientFormQueryResponse{}, err
		}
		return GetPatientFormQueryResponse{}, errs.NewObjectNotFoundError("patient", query.PatientID().String())
	}

	var (
		response   GetPatientFormQueryResponse
		conditions pq.StringArray
		questions  datatypes.JSONType[[]patient.QuestionSet]
	)
	if err = rows.Scan(&response.PatientID, &conditions, &questions, &response.AlreadySubmitted); err != nil {
		return GetPatientFormQueryResponse{}, err
	}
	response.Conditions = []string(conditions)
	if response.Conditions == nil {
		response.Conditions = make([]string, 0)
	}
	response.Questions = questions.Data()
	if len(response.Questions) == 0 {
		response.Questions = h.builder.ForConditions(response.Conditions).Sets
	}

	return response, rows.Err()
}
