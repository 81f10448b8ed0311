package cmd

import (
	"log/slog"

	httpadapter "careplan/internal/adapters/in/http"
	"careplan/internal/adapters/out/llm"
	"careplan/internal/adapters/out/msgraph"
	"careplan/internal/adapters/out/postgres"
	"careplan/internal/core/application/dispatch"
	"careplan/internal/core/application/usecases/commands"
	"careplan/internal/core/application/usecases/queries"
	"careplan/internal/core/domain/model/job"
	"careplan/internal/jobs"
	"careplan/internal/pkg/backoff"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	mail       *msgraph.Client
	generator  *llm.AnthropicGenerator
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	if configs.FormBaseURL == "" {
		configs.FormBaseURL = DefaultFormBaseURL
	}

	return CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		mail: msgraph.NewClient(msgraph.Config{
			TenantID:     configs.MS365TenantID,
			ClientID:     configs.MS365ClientID,
			ClientSecret: configs.MS365ClientSecret,
			Sender:       configs.SenderEmail,
		}, logger),
		generator: llm.NewAnthropicGenerator(llm.Config{
			APIKey: configs.AnthropicAPIKey,
			Model:  configs.AnthropicModel,
		}, logger),
		logger: logger,
	}
}

func (c *CompositionRoot) patientUoWFactory() commands.PatientUoWFactory {
	return FuncPatientUoWFactory(func() commands.PatientUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) submissionUoWFactory() commands.SubmissionUoWFactory {
	return FuncSubmissionUoWFactory(func() commands.SubmissionUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) crossAggregateUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateRegisterPatientCommandHandler() commands.RegisterPatientCommandHandler {
	return commands.NewRegisterPatientCommandHandler(c.patientUoWFactory(), c.configs.FormBaseURL, nil)
}

func (c *CompositionRoot) CreateSubmitGoalsCommandHandler() commands.SubmitGoalsCommandHandler {
	return commands.NewSubmitGoalsCommandHandler(c.crossAggregateUoWFactory(), nil)
}

func (c *CompositionRoot) CreateGenerateCarePlanCommandHandler() commands.GenerateCarePlanCommandHandler {
	return commands.NewGenerateCarePlanCommandHandler(c.crossAggregateUoWFactory(), c.generator, nil, c.logger)
}

func (c *CompositionRoot) CreateDeletePatientCommandHandler() commands.DeletePatientCommandHandler {
	return commands.NewDeletePatientCommandHandler(c.patientUoWFactory())
}

func (c *CompositionRoot) CreateCompleteConsultationCommandHandler() commands.CompleteConsultationCommandHandler {
	return commands.NewCompleteConsultationCommandHandler(c.submissionUoWFactory(), nil)
}

func (c *CompositionRoot) CreateSendPatientEmailCommandHandler() commands.SendPatientEmailCommandHandler {
	return commands.NewSendPatientEmailCommandHandler(c.crossAggregateUoWFactory(), c.mail, c.configs.FormBaseURL, nil, c.logger)
}

func (c *CompositionRoot) CreateProcessScheduledJobsCommandHandler() commands.ProcessScheduledJobsCommandHandler {
	return commands.NewProcessScheduledJobsCommandHandler(c.CreateJobDispatcher(), nil)
}

// CreateJobDispatcher wires the handlers for every job type. The dispatcher
// uses its own non-transactional job repository.
func (c *CompositionRoot) CreateJobDispatcher() *dispatch.Dispatcher {
	handlers := dispatch.Handlers{
		job.PatientReminder: dispatch.NewPatientReminderHandler(c.uowFactory, c.mail, c.configs.FormBaseURL, c.logger),
		job.CarePlanEmail:   dispatch.NewCarePlanEmailHandler(c.uowFactory, c.mail, c.logger),
	}

	return dispatch.NewDispatcher(
		c.uowFactory.Create().JobRepository(),
		c.mail,
		handlers,
		c.logger,
		dispatch.WithBatchSize(c.configs.JobsBatchSize),
		dispatch.WithHandlerTimeout(c.configs.JobsHandlerTimeout),
		dispatch.WithBackoff(backoff.FromConfig(c.configs.JobsRetryDelay, c.configs.JobsRetryJitter)),
	)
}

func (c *CompositionRoot) CreateGetDashboardQueryHandler() queries.GetDashboardQueryHandler {
	return queries.NewGetDashboardQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPatientFormQueryHandler() queries.GetPatientFormQueryHandler {
	return queries.NewGetPatientFormQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetQuestionnaireQueryHandler() queries.GetQuestionnaireQueryHandler {
	return queries.NewGetQuestionnaireQueryHandler()
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		RegisterPatient:      c.CreateRegisterPatientCommandHandler(),
		SubmitGoals:          c.CreateSubmitGoalsCommandHandler(),
		GenerateCarePlan:     c.CreateGenerateCarePlanCommandHandler(),
		DeletePatient:        c.CreateDeletePatientCommandHandler(),
		CompleteConsultation: c.CreateCompleteConsultationCommandHandler(),
		ProcessScheduledJobs: c.CreateProcessScheduledJobsCommandHandler(),
		GetDashboard:         c.CreateGetDashboardQueryHandler(),
		GetPatientForm:       c.CreateGetPatientFormQueryHandler(),
		SendPatientEmail:     c.CreateSendPatientEmailCommandHandler(),
		GetQuestionnaire:     c.CreateGetQuestionnaireQueryHandler(),
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateProcessScheduledJobsCommandHandler(), c.configs.JobsSchedule, c.logger)
}

type FuncPatientUoWFactory func() commands.PatientUoW

func (f FuncPatientUoWFactory) Create() commands.PatientUoW {
	return f()
}

type FuncSubmissionUoWFactory func() commands.SubmissionUoW

func (f FuncSubmissionUoWFactory) Create() commands.SubmissionUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
