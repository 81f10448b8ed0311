package commands_test

import (
	"errors"
	"testing"

	"careplan/internal/core/application/usecases/commands"
	"careplan/internal/core/domain/model/job"
	"careplan/internal/core/domain/model/patient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const healthSummary = `YourGP Crace
Doctor Name: John Deery
Type 2 diabetes on metformin. Emphysema, uses inhaler.`

func TestRegisterPatientCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRegisterPatientCommand("BP-1001", healthSummary, "pat@example.com", nil, "", "")
	require.NoError(t, err)

	r := newRepos()
	var saved *patient.Patient
	var reminder *job.Job
	mock.InOrder(
		r.uow.On("Begin", ctx).Return(nil).Once(),
		r.patients.On("Add", ctx, mock.AnythingOfType("*patient.Patient")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*patient.Patient) }).
			Return(nil).Once(),
		r.jobs.On("Add", ctx, mock.AnythingOfType("*job.Job")).
			Run(func(args mock.Arguments) { reminder = args.Get(1).(*job.Job) }).
			Return(nil).Once(),
		r.uow.On("Commit", ctx).Return(nil).Once(),
	)

	factory := new(MockPatientUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	h := commands.NewRegisterPatientCommandHandler(factory, "https://forms.example", fixedClock)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	r.assertExpectations(t)

	require.NotNil(t, saved)
	assert.Equal(t, "Dr John Deery", saved.GPName())
	assert.Equal(t, "Crace", saved.Site())
	assert.Equal(t, []string{"diabetes", "copd"}, saved.Conditions())
	assert.Equal(t, fixedNow, saved.CreatedAt())
	require.Len(t, saved.Questions(), 3)
	assert.Equal(t, "Diabetes", saved.Questions()[1].Category)
	assert.Equal(t, "COPD (Lung Condition)", saved.Questions()[2].Category)

	require.NotNil(t, reminder)
	assert.Equal(t, job.PatientReminder, reminder.Type())
	assert.True(t, reminder.PatientID().IsEqual(saved.ID()))
	assert.Equal(t, fixedNow.Add(patient.ReminderInterval), reminder.ScheduledFor())
	assert.Equal(t, job.Pending, reminder.Status())

	assert.Equal(t, saved.ID(), result.PatientUUID)
	assert.Equal(t, "https://forms.example/patient-form.html?id="+saved.ID().String(), result.FormURL)
	assert.Equal(t, "Dr John Deery", result.GPName)
	assert.Equal(t, "Crace", result.Site)
	assert.Equal(t, saved.Questions(), result.Questions)
}

func TestRegisterPatientCommandHandler_Handle_SuppliedValuesWin(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRegisterPatientCommand("BP-1001", healthSummary, "", []string{"ckd"}, "Dr Wu", "Lyneham")
	require.NoError(t, err)

	r := newRepos()
	var saved *patient.Patient
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.patients.On("Add", ctx, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*patient.Patient) }).
		Return(nil).Once()
	r.jobs.On("Add", ctx, mock.Anything).Return(nil).Once()
	r.uow.On("Commit", ctx).Return(nil).Once()

	factory := new(MockPatientUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	_, err = commands.NewRegisterPatientCommandHandler(factory, "https://forms.example", fixedClock).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "Dr Wu", saved.GPName())
	assert.Equal(t, "Lyneham", saved.Site())
	assert.Equal(t, []string{"ckd"}, saved.Conditions())
	require.Len(t, saved.Questions(), 2)
	assert.Equal(t, "Kidney Health", saved.Questions()[1].Category)
}

func TestRegisterPatientCommandHandler_Handle_SuppliedQuestionsAreStored(t *testing.T) {
	ctx := t.Context()
	sets := []patient.QuestionSet{{Category: "Custom", Questions: []string{"What matters most to you?"}}}
	cmd, err := commands.NewRegisterPatientCommand("BP-1001", healthSummary, "", nil, "", "")
	require.NoError(t, err)
	cmd = cmd.WithQuestions(sets)

	r := newRepos()
	var saved *patient.Patient
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.patients.On("Add", ctx, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*patient.Patient) }).
		Return(nil).Once()
	r.jobs.On("Add", ctx, mock.Anything).Return(nil).Once()
	r.uow.On("Commit", ctx).Return(nil).Once()

	factory := new(MockPatientUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	result, err := commands.NewRegisterPatientCommandHandler(factory, "", fixedClock).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, sets, saved.Questions())
	assert.Equal(t, sets, result.Questions)
}

func TestRegisterPatientCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockPatientUoWFactory)
	h := commands.NewRegisterPatientCommandHandler(factory, "", fixedClock)

	_, err := h.Handle(t.Context(), commands.RegisterPatientCommand{})

	require.ErrorIs(t, err, commands.ErrRegisterPatientCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestRegisterPatientCommandHandler_Handle_JobAddErrorRollsBack(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRegisterPatientCommand("BP-1001", healthSummary, "", nil, "", "")
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.patients.On("Add", ctx, mock.Anything).Return(nil).Once()
	r.jobs.On("Add", ctx, mock.Anything).Return(errors.New("insert failed")).Once()

	factory := new(MockPatientUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	_, err = commands.NewRegisterPatientCommandHandler(factory, "", fixedClock).Handle(ctx, cmd)

	require.Error(t, err)
	r.uow.AssertNotCalled(t, "Commit", mock.Anything)
	r.uow.AssertCalled(t, "Rollback", ctx)
}

func TestRegisterPatientCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRegisterPatientCommand("BP-1001", healthSummary, "", nil, "", "")
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(errors.New("begin error")).Once()

	factory := new(MockPatientUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	_, err = commands.NewRegisterPatientCommandHandler(factory, "", fixedClock).Handle(ctx, cmd)

	require.Error(t, err)
	r.patients.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}
