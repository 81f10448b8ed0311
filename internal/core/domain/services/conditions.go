package services

import "strings"

// Condition keys as stored on patients and used in prompts.
const (
	Diabetes       = "diabetes"
	COPD           = "copd"
	CVD            = "cvd"
	MentalHealth   = "mentalHealth"
	CKD            = "ckd"
	Osteoarthritis = "osteoarthritis"
)

type conditionRule struct {
	key         string
	displayName string
	keywords    []string
	questions   []string
}

// conditionRules is ordered; detection output follows this order.
var conditionRules = []conditionRule{
	{
		key:         Diabetes,
		displayName: "Diabetes",
		keywords: []string{
			"diabetes", "diabetic", "t2dm", "type 2 diabetes", "hba1c", "blood sugar",
			"glucose", "metformin", "insulin", "sglt2", "glp-1", "hyperglycaemia",
		},
		questions: []string{
			"What eating habit would you like to change to help manage your blood sugar levels?",
			"What type of physical activity would you enjoy doing more regularly?",
			"How would you like to be more involved in monitoring your diabetes?",
		},
	},
	{
		key:         COPD,
		displayName: "COPD (Lung Condition)",
		keywords: []string{
			"copd", "chronic obstructive", "emphysema", "chronic bronchitis",
			"fev1", "spirometry", "bronchodilator", "inhaler", "breathless",
		},
		questions: []string{
			"What physical activity would you like to be able to do more easily?",
			"What would help you feel more confident managing your breathing?",
			"If you smoke, what would help you reduce or quit?",
		},
	},
	{
		key:         CVD,
		displayName: "Heart Health",
		keywords: []string{
			"cardiovascular", "heart disease", "coronary", "heart attack", "myocardial infarction",
			"angina", "stroke", "tia", "atrial fibrillation", "af", "heart failure",
			"hypertension", "high blood pressure", "statin", "aspirin",
		},
		questions: []string{
			"What heart-healthy habit would you like to develop?",
			"What changes to your diet would you like to make for your heart?",
			"How would you like to be more active in your daily life?",
		},
	},
	{
		key:         MentalHealth,
		displayName: "Mental Wellbeing",
		keywords: []string{
			"depression", "anxiety", "mental health", "phq", "gad", "k10",
			"antidepressant", "ssri", "snri", "suicidal", "mood disorder",
			"panic", "ptsd", "bipolar",
		},
		questions: []string{
			"What activity brings you joy that you'd like to do more often?",
			"What would help you feel more in control of your mental wellbeing?",
			"What kind of support would be most helpful for you right now?",
		},
	},
	{
		key:         CKD,
		displayName: "Kidney Health",
		keywords: []string{
			"chronic kidney", "ckd", "renal", "egfr", "kidney disease",
			"albuminuria", "proteinuria", "nephropathy", "dialysis", "creatinine",
		},
		questions: []string{
			"What dietary changes would you like to make to protect your kidneys?",
			"How would you like to be more involved in monitoring your kidney health?",
			"What lifestyle change do you think would make the biggest difference?",
		},
	},
	{
		key:         Osteoarthritis,
		displayName: "Joint Health (Arthritis)",
		keywords: []string{
			"osteoarthritis", "arthritis", "joint pain", "knee pain", "hip pain",
			"degenerative joint", "oa", "joint replacement", "arthroplasty",
		},
		questions: []string{
			"What movement or activity do you want to maintain or improve?",
			"What would help you manage pain and stay active?",
			"What daily task would you like to do more easily?",
		},
	},
}

// ConditionDetector finds chronic conditions mentioned in a health summary.
// Matching is a case-insensitive substring search, so short keywords such as
// "af" or "oa" also match inside longer words.
type ConditionDetector struct{}

func NewConditionDetector() ConditionDetector {
	return ConditionDetector{}
}

// Detect returns the condition keys found in summary, in the fixed rule order.
func (ConditionDetector) Detect(summary string) []string {
	text := strings.ToLower(summary)
	detected := make([]string, 0, len(conditionRules))

	for _, rule := range conditionRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				detected = append(detected, rule.key)
				break
			}
		}
	}

	return detected
}

// DisplayName returns the patient-facing name of a condition key, or the key itself.
func (ConditionDetector) DisplayName(condition string) string {
	for _, rule := range conditionRules {
		if rule.key == condition {
			return rule.displayName
		}
	}
	return condition
}
