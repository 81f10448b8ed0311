package http

import (
	"context"
	"net/http"

	"careplan/internal/core/application/dispatch"
	"careplan/internal/core/application/usecases/commands"
	"careplan/internal/core/application/usecases/queries"
	"careplan/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Handler contracts used by the server. The command and query handlers in
// usecases satisfy them as-is.
type (
	RegisterPatientHandler interface {
		Handle(ctx context.Context, cmd commands.RegisterPatientCommand) (commands.RegisterPatientResult, error)
	}

	SubmitGoalsHandler interface {
		Handle(ctx context.Context, cmd commands.SubmitGoalsCommand) error
	}

	GenerateCarePlanHandler interface {
		Handle(ctx context.Context, cmd commands.GenerateCarePlanCommand) (commands.GenerateCarePlanResult, error)
	}

	DeletePatientHandler interface {
		Handle(ctx context.Context, cmd commands.DeletePatientCommand) error
	}

	CompleteConsultationHandler interface {
		Handle(ctx context.Context, cmd commands.CompleteConsultationCommand) error
	}

	ProcessScheduledJobsHandler interface {
		Handle(ctx context.Context, cmd commands.ProcessScheduledJobsCommand) (dispatch.Summary, error)
	}

	GetDashboardHandler interface {
		Handle(ctx context.Context, query queries.GetDashboardQuery) (queries.GetDashboardQueryResponse, error)
	}

	GetPatientFormHandler interface {
		Handle(ctx context.Context, query queries.GetPatientFormQuery) (queries.GetPatientFormQueryResponse, error)
	}

	SendPatientEmailHandler interface {
		Handle(ctx context.Context, cmd commands.SendPatientEmailCommand) (commands.SendPatientEmailResult, error)
	}

	GetQuestionnaireHandler interface {
		Handle(ctx context.Context, query queries.GetQuestionnaireQuery) (queries.GetQuestionnaireQueryResponse, error)
	}
)

// Handlers bundles everything the server dispatches to.
type Handlers struct {
	RegisterPatient      RegisterPatientHandler
	SubmitGoals          SubmitGoalsHandler
	GenerateCarePlan     GenerateCarePlanHandler
	DeletePatient        DeletePatientHandler
	CompleteConsultation CompleteConsultationHandler
	ProcessScheduledJobs ProcessScheduledJobsHandler
	GetDashboard         GetDashboardHandler
	GetPatientForm       GetPatientFormHandler
	SendPatientEmail     SendPatientEmailHandler
	GetQuestionnaire     GetQuestionnaireHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
}

func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// RegisterRoutes mounts the health check and the /api/v1 routes on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/patients", s.RegisterPatient)
	api.GET("/patients", s.GetDashboard)
	api.DELETE("/patients/:id", s.DeletePatient)
	api.GET("/patients/:id/form", s.GetPatientForm)
	api.POST("/patients/:id/goals", s.SubmitGoals)
	api.POST("/patients/:id/care-plan", s.GeneratePatientCarePlan)
	api.POST("/patients/:id/consultation", s.CompleteConsultation)
	api.POST("/patients/:id/email", s.SendPatientEmail)
	api.POST("/questionnaires", s.GetQuestionnaire)
	api.POST("/care-plans", s.GenerateDraftCarePlan)
	api.POST("/jobs/process", s.ProcessScheduledJobs)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// RegisterPatient handles POST /api/v1/patients.
func (s *Server) RegisterPatient(ctx echo.Context) error {
	var req RegisterPatientRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRegisterPatientCommand(
		req.PatientID,
		req.HealthSummary,
		req.PatientEmail,
		req.Conditions,
		req.GPName,
		req.Site,
	)
	if err != nil {
		return badRequest(ctx, "Invalid patient data: "+err.Error())
	}
	cmd = cmd.WithQuestions(domainQuestionSets(req.Questions))

	result, err := s.handlers.RegisterPatient.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err, "Failed to save patient record")
	}

	return ctx.JSON(http.StatusCreated, RegisterPatientResponse{
		Success:     true,
		PatientUUID: result.PatientUUID.String(),
		FormURL:     result.FormURL,
		GPName:      result.GPName,
		Site:        result.Site,
		Conditions:  nonNil(result.Conditions),
		Questions:   questionSets(result.Questions),
	})
}

// GetDashboard handles GET /api/v1/patients.
func (s *Server) GetDashboard(ctx echo.Context) error {
	dashboard, err := s.handlers.GetDashboard.Handle(ctx.Request().Context(), queries.NewGetDashboardQuery())
	if err != nil {
		return writeError(ctx, err, "Failed to retrieve patients")
	}

	return ctx.JSON(http.StatusOK, dashboardResponse(dashboard))
}

// DeletePatient handles DELETE /api/v1/patients/:id.
func (s *Server) DeletePatient(ctx echo.Context) error {
	patientID, err := patientIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid patient id")
	}

	cmd, err := commands.NewDeletePatientCommand(patientID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.DeletePatient.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err, "Failed to delete patient")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetPatientForm handles GET /api/v1/patients/:id/form.
func (s *Server) GetPatientForm(ctx echo.Context) error {
	patientID, err := patientIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid patient link")
	}

	query, err := queries.NewGetPatientFormQuery(patientID)
	if err != nil {
		return badRequest(ctx, "Invalid patient link")
	}

	form, err := s.handlers.GetPatientForm.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err, "Failed to load patient form")
	}

	return ctx.JSON(http.StatusOK, PatientFormResponse{
		PatientID:        form.PatientID,
		Conditions:       nonNil(form.Conditions),
		Questions:        questionSets(form.Questions),
		AlreadySubmitted: form.AlreadySubmitted,
	})
}

// SubmitGoals handles POST /api/v1/patients/:id/goals.
func (s *Server) SubmitGoals(ctx echo.Context) error {
	patientID, err := patientIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid patient link")
	}

	var req SubmitGoalsRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSubmitGoalsCommand(patientID, req.domainGoals())
	if err != nil {
		return badRequest(ctx, "Invalid goals: "+err.Error())
	}

	if err := s.handlers.SubmitGoals.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err, "Failed to submit goals")
	}

	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// GeneratePatientCarePlan handles POST /api/v1/patients/:id/care-plan.
// The optional healthSummary is used when the stored summary is empty.
func (s *Server) GeneratePatientCarePlan(ctx echo.Context) error {
	patientID, err := patientIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid patient id")
	}

	var req GenerateCarePlanRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewGenerateCarePlanCommand(patientID, req.HealthSummary)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	return s.generateCarePlan(ctx, cmd)
}

// GenerateDraftCarePlan handles POST /api/v1/care-plans. Nothing is persisted.
func (s *Server) GenerateDraftCarePlan(ctx echo.Context) error {
	var req GenerateCarePlanRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewGenerateDraftCarePlanCommand(req.HealthSummary)
	if err != nil {
		return badRequest(ctx, "Health summary is required")
	}

	return s.generateCarePlan(ctx, cmd)
}

func (s *Server) generateCarePlan(ctx echo.Context, cmd commands.GenerateCarePlanCommand) error {
	result, err := s.handlers.GenerateCarePlan.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err, "Failed to generate care plan")
	}

	return ctx.JSON(http.StatusOK, CarePlanResponse{
		CarePlan:             result.CarePlan,
		DetectedConditions:   nonNil(result.DetectedConditions),
		PatientGoalsIncluded: result.PatientGoalsIncluded,
		EmailScheduled:       result.EmailScheduled,
	})
}

// CompleteConsultation handles POST /api/v1/patients/:id/consultation.
func (s *Server) CompleteConsultation(ctx echo.Context) error {
	patientID, err := patientIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid patient id")
	}

	cmd, err := commands.NewCompleteConsultationCommand(patientID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.CompleteConsultation.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err, "Failed to complete consultation")
	}

	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// SendPatientEmail handles POST /api/v1/patients/:id/email. The template
// defaults to the questionnaire invite.
func (s *Server) SendPatientEmail(ctx echo.Context) error {
	patientID, err := patientIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid patient id")
	}

	var req SendPatientEmailRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSendPatientEmailCommand(patientID, req.Template, req.CarePlanText)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.SendPatientEmail.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err, "Failed to send email")
	}

	return ctx.JSON(http.StatusOK, SendPatientEmailResponse{
		Success:  true,
		Template: string(result.Template),
	})
}

// GetQuestionnaire handles POST /api/v1/questionnaires.
func (s *Server) GetQuestionnaire(ctx echo.Context) error {
	var req QuestionnaireRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	query, err := queries.NewGetQuestionnaireQuery(req.HealthSummary)
	if err != nil {
		return badRequest(ctx, "Health summary is required")
	}

	result, err := s.handlers.GetQuestionnaire.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err, "Failed to build questionnaire")
	}

	return ctx.JSON(http.StatusOK, QuestionnaireResponse{
		Questions:          questionSets(result.Questions),
		DetectedConditions: nonNil(result.DetectedConditions),
		ConditionNames:     nonNil(result.ConditionNames),
	})
}

// ProcessScheduledJobs handles POST /api/v1/jobs/process by running one dispatcher pass.
func (s *Server) ProcessScheduledJobs(ctx echo.Context) error {
	summary, err := s.handlers.ProcessScheduledJobs.Handle(
		ctx.Request().Context(),
		commands.NewProcessScheduledJobsCommand(),
	)
	if err != nil {
		return writeError(ctx, err, "Failed to process scheduled jobs")
	}

	return ctx.JSON(http.StatusOK, summary)
}

func patientIDParam(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
