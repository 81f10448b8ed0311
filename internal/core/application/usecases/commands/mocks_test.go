package commands_test

import (
	"context"
	"testing"
	"time"

	"careplan/internal/core/application/dispatch"
	"careplan/internal/core/application/usecases/commands"
	"careplan/internal/core/domain/model/job"
	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

type MockPatientRepository struct{ mock.Mock }

func (m *MockPatientRepository) Add(ctx context.Context, p *patient.Patient) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPatientRepository) Update(ctx context.Context, p *patient.Patient) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPatientRepository) Get(ctx context.Context, id kernel.UUID) (*patient.Patient, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*patient.Patient)
	return p, args.Error(1)
}

func (m *MockPatientRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockSubmissionRepository struct{ mock.Mock }

func (m *MockSubmissionRepository) Add(ctx context.Context, s *patient.Submission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubmissionRepository) Update(ctx context.Context, s *patient.Submission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubmissionRepository) GetByPatient(ctx context.Context, patientID kernel.UUID) (*patient.Submission, error) {
	args := m.Called(ctx, patientID)
	s, _ := args.Get(0).(*patient.Submission)
	return s, args.Error(1)
}

func (m *MockSubmissionRepository) Exists(ctx context.Context, patientID kernel.UUID) (bool, error) {
	args := m.Called(ctx, patientID)
	return args.Bool(0), args.Error(1)
}

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Add(ctx context.Context, j *job.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *MockJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	j, _ := args.Get(0).(*job.Job)
	return j, args.Error(1)
}

func (m *MockJobRepository) FetchDue(ctx context.Context, limit int, now time.Time) ([]*job.Job, error) {
	args := m.Called(ctx, limit, now)
	jobs, _ := args.Get(0).([]*job.Job)
	return jobs, args.Error(1)
}

func (m *MockJobRepository) MarkProcessing(ctx context.Context, id kernel.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockJobRepository) MarkCompleted(ctx context.Context, id kernel.UUID, attempts int) error {
	return m.Called(ctx, id, attempts).Error(0)
}

func (m *MockJobRepository) MarkFailed(ctx context.Context, id kernel.UUID, attempts int, lastError string) error {
	return m.Called(ctx, id, attempts, lastError).Error(0)
}

func (m *MockJobRepository) RescheduleForRetry(
	ctx context.Context,
	id kernel.UUID,
	attempts int,
	at time.Time,
	lastError string,
) error {
	return m.Called(ctx, id, attempts, at, lastError).Error(0)
}

func (m *MockJobRepository) CancelPending(ctx context.Context, patientID kernel.UUID, types ...job.Type) (int64, error) {
	args := m.Called(ctx, patientID, types)
	return args.Get(0).(int64), args.Error(1)
}

// MockUoW satisfies every unit of work shape used by the command handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) PatientRepository() ports.PatientRepository {
	return m.Called().Get(0).(ports.PatientRepository)
}

func (m *MockUoW) SubmissionRepository() ports.SubmissionRepository {
	return m.Called().Get(0).(ports.SubmissionRepository)
}

func (m *MockUoW) JobRepository() ports.JobRepository {
	return m.Called().Get(0).(ports.JobRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

type MockPatientUoWFactory struct{ mock.Mock }

func (m *MockPatientUoWFactory) Create() commands.PatientUoW {
	return m.Called().Get(0).(commands.PatientUoW)
}

type MockSubmissionUoWFactory struct{ mock.Mock }

func (m *MockSubmissionUoWFactory) Create() commands.SubmissionUoW {
	return m.Called().Get(0).(commands.SubmissionUoW)
}

type MockCarePlanGenerator struct{ mock.Mock }

func (m *MockCarePlanGenerator) Generate(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	args := m.Called(ctx, systemPrompt, userMessage)
	return args.String(0), args.Error(1)
}

type MockMailClient struct{ mock.Mock }

func (m *MockMailClient) AcquireCredential(ctx context.Context) (ports.Credential, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.Credential), args.Error(1)
}

func (m *MockMailClient) Send(ctx context.Context, cred ports.Credential, msg ports.Message) error {
	return m.Called(ctx, cred, msg).Error(0)
}

type MockJobDispatcher struct{ mock.Mock }

func (m *MockJobDispatcher) RunOnce(ctx context.Context, now time.Time) (dispatch.Summary, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(dispatch.Summary), args.Error(1)
}

// repos bundles a MockUoW with its repositories, all expecting a transaction.
type repos struct {
	uow         *MockUoW
	patients    *MockPatientRepository
	submissions *MockSubmissionRepository
	jobs        *MockJobRepository
}

func newRepos() repos {
	r := repos{
		uow:         new(MockUoW),
		patients:    new(MockPatientRepository),
		submissions: new(MockSubmissionRepository),
		jobs:        new(MockJobRepository),
	}
	r.uow.On("PatientRepository").Return(r.patients).Maybe()
	r.uow.On("SubmissionRepository").Return(r.submissions).Maybe()
	r.uow.On("JobRepository").Return(r.jobs).Maybe()
	r.uow.On("Rollback", mock.Anything).Return(nil).Maybe()
	return r
}

func (r repos) assertExpectations(t mock.TestingT) {
	r.uow.AssertExpectations(t)
	r.patients.AssertExpectations(t)
	r.submissions.AssertExpectations(t)
	r.jobs.AssertExpectations(t)
}

func newPatient(t *testing.T, email string, summary string) *patient.Patient {
	t.Helper()
	addr, err := kernel.NewEmail(email)
	require.NoError(t, err)
	p, err := patient.NewPatient("BP-1001", summary, nil, addr, "", "", fixedNow.Add(-48*time.Hour))
	require.NoError(t, err)
	return p
}

func newSubmission(t *testing.T, p *patient.Patient) *patient.Submission {
	t.Helper()
	s, err := patient.NewSubmission(p.ID(), []patient.Goal{{
		Category: "Diabetes",
		Answers:  map[string]string{"What would you like to achieve?": "Lower my HbA1c"},
	}}, fixedNow.Add(-time.Hour))
	require.NoError(t, err)
	return s
}
