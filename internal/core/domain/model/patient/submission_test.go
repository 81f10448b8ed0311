package patient_test

import (
	"testing"
	"time"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGoals() []patient.Goal {
	return []patient.Goal{{
		Category: "Diabetes",
		Answers:  map[string]string{"What matters most?": "Keeping up with my grandkids"},
	}}
}

func TestNewSubmission(t *testing.T) {
	patientID := kernel.NewUUID()

	s, err := patient.NewSubmission(patientID, sampleGoals(), now)

	require.NoError(t, err)
	require.NoError(t, s.Validate())
	assert.True(t, patientID.IsEqual(s.PatientID()))
	assert.False(t, s.HasCarePlan())
	assert.False(t, s.CarePlanEmailSent())
	assert.Equal(t, now, s.SubmittedAt())
}

func TestNewSubmission_Validation(t *testing.T) {
	_, err := patient.NewSubmission(kernel.NewUUID(), nil, now)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = patient.NewSubmission(kernel.NewUUID(), []patient.Goal{{Category: " "}}, now)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = patient.NewSubmission(kernel.UUID{}, sampleGoals(), now)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestSubmission_CarePlanEmailLifecycle(t *testing.T) {
	s, err := patient.NewSubmission(kernel.NewUUID(), sampleGoals(), now)
	require.NoError(t, err)

	require.ErrorIs(t, s.MarkCarePlanEmailSent(now), patient.ErrCarePlanNotGenerated)

	require.ErrorIs(t, s.AttachCarePlan("   ", now), errs.ErrValueIsRequired)
	require.NoError(t, s.AttachCarePlan("GP CHRONIC CONDITION MANAGEMENT PLAN", now))
	assert.True(t, s.HasCarePlan())
	require.NotNil(t, s.CarePlanGeneratedAt())

	sentAt := now.Add(time.Minute)
	require.NoError(t, s.MarkCarePlanEmailSent(sentAt))
	assert.True(t, s.CarePlanEmailSent())
	assert.Equal(t, sentAt, *s.CarePlanEmailSentAt())

	require.ErrorIs(t, s.MarkCarePlanEmailSent(sentAt), patient.ErrCarePlanEmailAlreadySent)
}

func TestSubmission_UpdateGoals(t *testing.T) {
	s, err := patient.NewSubmission(kernel.NewUUID(), sampleGoals(), now)
	require.NoError(t, err)

	later := now.Add(time.Hour)
	goals := []patient.Goal{{Category: "Heart Health", Answers: map[string]string{"Goal": "Walk daily"}}}
	require.NoError(t, s.UpdateGoals(goals, later))

	assert.Equal(t, goals, s.Goals())
	assert.Equal(t, later, s.SubmittedAt())
	require.Error(t, s.UpdateGoals(nil, later))
}

func TestSubmission_CompleteConsultationKeepsFirstTime(t *testing.T) {
	s, err := patient.NewSubmission(kernel.NewUUID(), sampleGoals(), now)
	require.NoError(t, err)

	s.CompleteConsultation(now)
	s.CompleteConsultation(now.Add(time.Hour))

	assert.True(t, s.ConsultationCompleted())
	assert.Equal(t, now, *s.ConsultationCompletedAt())
}
