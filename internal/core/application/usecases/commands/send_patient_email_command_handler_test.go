package commands_test

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"careplan/internal/core/application/usecases/commands"
	"careplan/internal/core/ports"
	"careplan/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testCredential = ports.Credential{AccessToken: "token"}

func newSendPatientEmailHandler(r repos, mail *MockMailClient) commands.SendPatientEmailCommandHandler {
	factory := new(MockUoWFactory)
	factory.On("Create").Return(r.uow).Once()
	return commands.NewSendPatientEmailCommandHandler(
		factory, mail, "https://forms.example", fixedClock, slog.New(slog.DiscardHandler),
	)
}

func TestSendPatientEmailCommandHandler_Invite(t *testing.T) {
	ctx := t.Context()
	p := newPatient(t, "pat@example.com", "T2DM")
	cmd, err := commands.NewSendPatientEmailCommand(p.ID(), "", "")
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.patients.On("Get", ctx, p.ID()).Return(p, nil).Once()
	r.patients.On("Update", ctx, p).Return(nil).Once()
	r.uow.On("Commit", ctx).Return(nil).Once()

	mail := new(MockMailClient)
	mail.On("AcquireCredential", ctx).Return(testCredential, nil).Once()
	mail.On("Send", ctx, testCredential, mock.MatchedBy(func(msg ports.Message) bool {
		return msg.To == "pat@example.com" &&
			msg.Subject == "Your Health Goals - YourGP Care Plan" &&
			strings.Contains(msg.HTML, "https://forms.example/patient-form.html?id="+p.ID().String())
	})).Return(nil).Once()

	result, err := newSendPatientEmailHandler(r, mail).Handle(ctx, cmd)

	require.NoError(t, err)
	r.assertExpectations(t)
	mail.AssertExpectations(t)
	assert.Equal(t, commands.InviteTemplate, result.Template)
	assert.Equal(t, "pat@example.com", result.SentTo)
	require.NotNil(t, p.InviteSentAt())
	assert.Equal(t, fixedNow, *p.InviteSentAt())
}

func TestSendPatientEmailCommandHandler_NoEmail(t *testing.T) {
	ctx := t.Context()
	p := newPatient(t, "", "T2DM")
	cmd, err := commands.NewSendPatientEmailCommand(p.ID(), "invite", "")
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.patients.On("Get", ctx, p.ID()).Return(p, nil).Once()
	mail := new(MockMailClient)

	_, err = newSendPatientEmailHandler(r, mail).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	mail.AssertNotCalled(t, "AcquireCredential", mock.Anything)
	r.uow.AssertNotCalled(t, "Commit", mock.Anything)
	assert.False(t, p.InviteSent())
}

func TestSendPatientEmailCommandHandler_SendFailureLeavesInviteUnrecorded(t *testing.T) {
	ctx := t.Context()
	p := newPatient(t, "pat@example.com", "T2DM")
	cmd, err := commands.NewSendPatientEmailCommand(p.ID(), "invite", "")
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.patients.On("Get", ctx, p.ID()).Return(p, nil).Once()
	mail := new(MockMailClient)
	mail.On("AcquireCredential", ctx).Return(testCredential, nil).Once()
	mail.On("Send", ctx, testCredential, mock.Anything).Return(errors.New("graph 503")).Once()

	_, err = newSendPatientEmailHandler(r, mail).Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph 503")
	assert.False(t, p.InviteSent())
	r.patients.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	r.uow.AssertCalled(t, "Rollback", ctx)
}

func TestSendPatientEmailCommandHandler_CarePlanFromStoredPlan(t *testing.T) {
	ctx := t.Context()
	p := newPatient(t, "pat@example.com", "T2DM")
	s := newSubmission(t, p)
	require.NoError(t, s.AttachCarePlan("Walk 30 minutes daily", fixedNow))
	cmd, err := commands.NewSendPatientEmailCommand(p.ID(), "care_plan", "")
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.patients.On("Get", ctx, p.ID()).Return(p, nil).Once()
	r.submissions.On("GetByPatient", ctx, p.ID()).Return(s, nil).Once()
	r.submissions.On("Update", ctx, s).Return(nil).Once()
	r.uow.On("Commit", ctx).Return(nil).Once()

	mail := new(MockMailClient)
	mail.On("AcquireCredential", ctx).Return(testCredential, nil).Once()
	mail.On("Send", ctx, testCredential, mock.MatchedBy(func(msg ports.Message) bool {
		return msg.Subject == "Your Care Plan - YourGP" && strings.Contains(msg.HTML, "Walk 30 minutes daily")
	})).Return(nil).Once()

	result, err := newSendPatientEmailHandler(r, mail).Handle(ctx, cmd)

	require.NoError(t, err)
	r.assertExpectations(t)
	mail.AssertExpectations(t)
	assert.Equal(t, commands.CarePlanTemplate, result.Template)
	assert.True(t, s.CarePlanEmailSent())
	assert.False(t, p.InviteSent())
}

func TestSendPatientEmailCommandHandler_CarePlanWithSuppliedText(t *testing.T) {
	ctx := t.Context()
	p := newPatient(t, "pat@example.com", "T2DM")
	cmd, err := commands.NewSendPatientEmailCommand(p.ID(), "care_plan", "Draft plan")
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.patients.On("Get", ctx, p.ID()).Return(p, nil).Once()
	r.uow.On("Commit", ctx).Return(nil).Once()

	mail := new(MockMailClient)
	mail.On("AcquireCredential", ctx).Return(testCredential, nil).Once()
	mail.On("Send", ctx, testCredential, mock.MatchedBy(func(msg ports.Message) bool {
		return strings.Contains(msg.HTML, "Draft plan")
	})).Return(nil).Once()

	_, err = newSendPatientEmailHandler(r, mail).Handle(ctx, cmd)

	require.NoError(t, err)
	r.submissions.AssertNotCalled(t, "GetByPatient", mock.Anything, mock.Anything)
	mail.AssertExpectations(t)
}

func TestSendPatientEmailCommandHandler_CarePlanNotGenerated(t *testing.T) {
	ctx := t.Context()
	p := newPatient(t, "pat@example.com", "T2DM")
	cmd, err := commands.NewSendPatientEmailCommand(p.ID(), "care_plan", "")
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.patients.On("Get", ctx, p.ID()).Return(p, nil).Once()
	r.submissions.On("GetByPatient", ctx, p.ID()).
		Return(nil, errs.NewObjectNotFoundError("submission", p.ID().String())).Once()
	mail := new(MockMailClient)

	_, err = newSendPatientEmailHandler(r, mail).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendPatientEmailCommandHandler_ValidationError(t *testing.T) {
	factory := new(MockUoWFactory)
	h := commands.NewSendPatientEmailCommandHandler(factory, new(MockMailClient), "", fixedClock, slog.New(slog.DiscardHandler))

	_, err := h.Handle(t.Context(), commands.SendPatientEmailCommand{})

	require.ErrorIs(t, err, commands.ErrSendPatientEmailCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
