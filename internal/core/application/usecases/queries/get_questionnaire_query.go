package queries

import (
	"errors"
	"strings"

	"careplan/internal/core/domain/model/patient"
	"careplan/internal/pkg/errs"
	"careplan/internal/pkg/guard"
)

var (
	ErrGetQuestionnaireQueryIsNotConstructed = errors.New(
		"GetQuestionnaireQuery must be created via NewGetQuestionnaireQuery constructor",
	)
)

// GetQuestionnaireQuery previews the question sets a health summary would produce,
// before the patient is registered.
type GetQuestionnaireQuery struct {
	healthSummary string

	guard guard.ConstructorGuard
}

func NewGetQuestionnaireQuery(healthSummary string) (GetQuestionnaireQuery, error) {
	if strings.TrimSpace(healthSummary) == "" {
		return GetQuestionnaireQuery{}, errs.NewValueIsRequiredError("healthSummary")
	}

	return GetQuestionnaireQuery{
		healthSummary: healthSummary,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q GetQuestionnaireQuery) Validate() error {
	return q.guard.Validate(ErrGetQuestionnaireQueryIsNotConstructed)
}

func (q GetQuestionnaireQuery) HealthSummary() string {
	return q.healthSummary
}

type GetQuestionnaireQueryResponse struct {
	Questions          []patient.QuestionSet
	DetectedConditions []string
	ConditionNames     []string
}
