// Package patient provides the Patient and Submission aggregates.
//
// A Patient is registered by the practice with a de-identified health summary.
// The patient is then reminded (at most MaxReminders times) to fill in the
// health goals questionnaire. Answering it creates the patient's single
// Submission, which later receives the generated care plan text and tracks
// whether that plan has been emailed.
package patient
