package services

import (
	"slices"

	"careplan/internal/core/domain/model/patient"
)

// GeneralGoalsCategory heads the SMART goal questions every patient is asked.
const GeneralGoalsCategory = "Your Health Goals"

var generalQuestions = []string{
	"What is one health goal you want to achieve in the next 3 months?",
	"How will you know when you've achieved this goal? (What will be different?)",
	"What steps will you take to work towards this goal?",
	"What support do you need from your healthcare team to achieve this goal?",
	"What might get in the way, and how could you overcome it?",
}

// Questionnaire is the question sets for one patient plus the conditions that selected them.
type Questionnaire struct {
	Sets               []patient.QuestionSet
	DetectedConditions []string
	ConditionNames     []string
}

// QuestionnaireBuilder assembles SMART goal questions. The general set always
// comes first, followed by one set per known condition in rule order.
type QuestionnaireBuilder struct {
	detector ConditionDetector
}

func NewQuestionnaireBuilder() QuestionnaireBuilder {
	return QuestionnaireBuilder{detector: NewConditionDetector()}
}

// FromSummary detects conditions in healthSummary and builds their questions.
func (b QuestionnaireBuilder) FromSummary(healthSummary string) Questionnaire {
	return b.ForConditions(b.detector.Detect(healthSummary))
}

// ForConditions builds the questionnaire for already known condition keys.
// Unknown keys are reported but contribute no questions.
func (b QuestionnaireBuilder) ForConditions(conditions []string) Questionnaire {
	q := Questionnaire{
		Sets: []patient.QuestionSet{{
			Category:  GeneralGoalsCategory,
			Questions: append([]string(nil), generalQuestions...),
		}},
		DetectedConditions: append([]string{}, conditions...),
		ConditionNames:     make([]string, 0, len(conditions)),
	}

	for _, condition := range conditions {
		q.ConditionNames = append(q.ConditionNames, b.detector.DisplayName(condition))
	}

	for _, rule := range conditionRules {
		if !slices.Contains(conditions, rule.key) {
			continue
		}
		q.Sets = append(q.Sets, patient.QuestionSet{
			Category:  rule.displayName,
			Questions: append([]string(nil), rule.questions...),
		})
	}

	return q
}
