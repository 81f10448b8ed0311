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

var now = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

func newPatient(t *testing.T, rawEmail string) *patient.Patient {
	t.Helper()
	email, err := kernel.NewEmail(rawEmail)
	require.NoError(t, err)
	p, err := patient.NewPatient("BP-1042", "T2DM on metformin", []string{"diabetes"}, email, "Dr Deery", "Crace", now)
	require.NoError(t, err)
	return p
}

func TestNewPatient(t *testing.T) {
	p := newPatient(t, "jo@example.com")

	require.NoError(t, p.Validate())
	assert.Equal(t, "BP-1042", p.PracticeID())
	assert.True(t, p.HasEmail())
	assert.Equal(t, []string{"diabetes"}, p.Conditions())
	assert.Equal(t, 0, p.ReminderCount())
	assert.Nil(t, p.LastReminderSentAt())
	assert.True(t, p.WantsAnotherReminder())
}

func TestNewPatient_RequiresPracticeID(t *testing.T) {
	_, err := patient.NewPatient("  ", "", nil, kernel.Email{}, "", "", now)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestPatient_RecordReminderSent(t *testing.T) {
	p := newPatient(t, "")

	for want := 1; want <= patient.MaxReminders; want++ {
		at := now.Add(time.Duration(want) * 24 * time.Hour)
		got := p.RecordReminderSent(at)

		assert.Equal(t, want, got)
		require.NotNil(t, p.LastReminderSentAt())
		assert.Equal(t, at, *p.LastReminderSentAt())
	}

	assert.False(t, p.WantsAnotherReminder())
	assert.False(t, p.HasEmail())
}

func TestPatient_ConditionsAreCopied(t *testing.T) {
	p := newPatient(t, "")

	conditions := p.Conditions()
	conditions[0] = "changed"

	assert.Equal(t, []string{"diabetes"}, p.Conditions())
}

func TestRestorePatient_RejectsNegativeReminderCount(t *testing.T) {
	_, err := patient.RestorePatient(kernel.NewUUID(), "BP-1", "", nil, kernel.Email{}, "", "", -1, nil, nil, nil, now)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestPatient_RecordInviteSent(t *testing.T) {
	p := newPatient(t, "jo@example.com")
	assert.False(t, p.InviteSent())

	p.RecordInviteSent(now)
	later := now.Add(time.Hour)
	p.RecordInviteSent(later)

	assert.True(t, p.InviteSent())
	require.NotNil(t, p.InviteSentAt())
	assert.Equal(t, later, *p.InviteSentAt())
}

func TestPatient_QuestionsAreCopied(t *testing.T) {
	p := newPatient(t, "")
	sets := []patient.QuestionSet{{Category: "Diabetes", Questions: []string{"Q1"}}}

	p.AssignQuestions(sets)
	sets[0].Questions[0] = "changed"
	got := p.Questions()
	got[0].Category = "changed"

	assert.Equal(t, []patient.QuestionSet{{Category: "Diabetes", Questions: []string{"Q1"}}}, p.Questions())
}
