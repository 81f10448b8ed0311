package queries

import (
	"context"

	"careplan/internal/core/domain/services"
)

// GetQuestionnaireQueryHandler is computed from the summary alone; nothing is read from storage.
type GetQuestionnaireQueryHandler struct {
	builder services.QuestionnaireBuilder
}

func NewGetQuestionnaireQueryHandler() GetQuestionnaireQueryHandler {
	return GetQuestionnaireQueryHandler{builder: services.NewQuestionnaireBuilder()}
}

func (h GetQuestionnaireQueryHandler) Handle(
	_ context.Context,
	query GetQuestionnaireQuery,
) (GetQuestionnaireQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetQuestionnaireQueryResponse{}, err
	}

	q := h.builder.FromSummary(query.HealthSummary())
	return GetQuestionnaireQueryResponse{
		Questions:          q.Sets,
		DetectedConditions: q.DetectedConditions,
		ConditionNames:     q.ConditionNames,
	}, nil
}
