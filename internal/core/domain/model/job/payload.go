package job

// Payload is the type-specific body of a job. Each variant carries only the
// fields its handler needs; the patient reference lives on the envelope.
type Payload interface {
	JobType() Type
}

// PatientReminderPayload is the body of a patient_reminder job.
type PatientReminderPayload struct {
	// Sequence is the 1-based number of the reminder this job will send.
	Sequence int `json:"sequence"`
}

func (PatientReminderPayload) JobType() Type { return PatientReminder }

// CarePlanEmailPayload is the body of a care_plan_email job.
type CarePlanEmailPayload struct {
	// SubmissionID pins the submission whose plan is emailed; empty means the patient's submission.
	SubmissionID string `json:"submission_id,omitempty"`
}

func (CarePlanEmailPayload) JobType() Type { return CarePlanEmail }
