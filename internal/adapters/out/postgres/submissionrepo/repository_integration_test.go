package submissionrepo_test

import (
	"context"
	"testing"
	"time"

	"careplan/internal/adapters/out/postgres/patientrepo"
	"careplan/internal/adapters/out/postgres/submissionrepo"
	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var submittedAt = time.Date(2025, 7, 2, 14, 0, 0, 0, time.UTC)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type SubmissionRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	tracker    *MockAggregateTracker
	repository *submissionrepo.GormSubmissionRepository
	patient    *patient.Patient
}

func (suite *SubmissionRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&patientrepo.PatientDTO{}, &submissionrepo.SubmissionDTO{}))
}

func (suite *SubmissionRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE submissions, patients").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = submissionrepo.NewGormSubmissionRepository(suite.db, suite.tracker)

	p, err := patient.NewPatient("BP-1001", "Asthma", nil, kernel.Email{}, "", "", submittedAt.Add(-24*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(patientrepo.NewGormPatientRepository(suite.db, suite.tracker).Add(context.Background(), p))
	suite.patient = p
}

func (suite *SubmissionRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *SubmissionRepositoryIntegrationTestSuite) TestAdd_RoundTripsGoals() {
	ctx := context.Background()
	goals := []patient.Goal{
		{Category: "Diabetes", Answers: map[string]string{"Goal": "Lower HbA1c", "Barrier": "Night shifts"}},
		{Category: "Heart Health", Answers: map[string]string{"Goal": "Walk daily"}},
	}
	s := suite.newSubmission(goals)

	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", s.ID(), s).Once()
	repo := submissionrepo.NewGormSubmissionRepository(suite.db, tracker)

	suite.Require().NoError(repo.Add(ctx, s))
	tracker.AssertExpectations(suite.T())

	stored, err := repo.GetByPatient(ctx, suite.patient.ID())
	suite.Require().NoError(err)
	suite.Equal(s.ID(), stored.ID())
	suite.Equal(goals, stored.Goals())
	suite.True(submittedAt.Equal(stored.SubmittedAt()))
	suite.False(stored.HasCarePlan())
	suite.False(stored.CarePlanEmailSent())
	suite.False(stored.ConsultationCompleted())
}

func (suite *SubmissionRepositoryIntegrationTestSuite) TestAdd_SecondSubmissionForPatientRejected() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newSubmission(nil)))

	err := suite.repository.Add(ctx, suite.newSubmission(nil))

	suite.Require().Error(err)
}

func (suite *SubmissionRepositoryIntegrationTestSuite) TestUpdate_PersistsCarePlanLifecycle() {
	ctx := context.Background()
	s := suite.newSubmission(nil)
	suite.Require().NoError(suite.repository.Add(ctx, s))

	generatedAt := submittedAt.Add(2 * time.Hour)
	suite.Require().NoError(s.AttachCarePlan("Plan text", generatedAt))
	suite.Require().NoError(s.MarkCarePlanEmailSent(generatedAt.Add(5 * time.Minute)))
	s.CompleteConsultation(generatedAt.Add(48 * time.Hour))
	suite.Require().NoError(suite.repository.Update(ctx, s))

	stored, err := suite.repository.GetByPatient(ctx, suite.patient.ID())
	suite.Require().NoError(err)
	suite.Equal("Plan text", stored.CarePlanText())
	suite.Require().NotNil(stored.CarePlanGeneratedAt())
	suite.True(generatedAt.Equal(*stored.CarePlanGeneratedAt()))
	suite.True(stored.CarePlanEmailSent())
	suite.True(stored.ConsultationCompleted())
}

func (suite *SubmissionRepositoryIntegrationTestSuite) TestGetByPatient_NoSubmission_ReturnsNotFound() {
	_, err := suite.repository.GetByPatient(context.Background(), suite.patient.ID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *SubmissionRepositoryIntegrationTestSuite) TestExists() {
	ctx := context.Background()

	exists, err := suite.repository.Exists(ctx, suite.patient.ID())
	suite.Require().NoError(err)
	suite.False(exists)

	suite.Require().NoError(suite.repository.Add(ctx, suite.newSubmission(nil)))

	exists, err = suite.repository.Exists(ctx, suite.patient.ID())
	suite.Require().NoError(err)
	suite.True(exists)
}

func (suite *SubmissionRepositoryIntegrationTestSuite) newSubmission(goals []patient.Goal) *patient.Submission {
	if goals == nil {
		goals = []patient.Goal{{Category: "Lung Health", Answers: map[string]string{"Goal": "Use inhaler correctly"}}}
	}
	s, err := patient.NewSubmission(suite.patient.ID(), goals, submittedAt)
	suite.Require().NoError(err)
	return s
}

func TestSubmissionRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(SubmissionRepositoryIntegrationTestSuite))
}
