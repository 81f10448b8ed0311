package commands

import (
	"context"
	"time"

	"careplan/internal/core/application/dispatch"
)

// JobDispatcher runs one pass over the due jobs.
type JobDispatcher interface {
	RunOnce(ctx context.Context, now time.Time) (dispatch.Summary, error)
}

// ProcessScheduledJobsCommandHandler is the shared entry point of the cron
// trigger and the HTTP endpoint.
type ProcessScheduledJobsCommandHandler struct {
	dispatcher JobDispatcher
	clock      Clock
}

func NewProcessScheduledJobsCommandHandler(dispatcher JobDispatcher, clock Clock) ProcessScheduledJobsCommandHandler {
	return ProcessScheduledJobsCommandHandler{
		dispatcher: dispatcher,
		clock:      clockOrSystem(clock),
	}
}

func (h ProcessScheduledJobsCommandHandler) Handle(
	ctx context.Context,
	cmd ProcessScheduledJobsCommand,
) (dispatch.Summary, error) {
	if err := cmd.Validate(); err != nil {
		return dispatch.Summary{}, err
	}

	return h.dispatcher.RunOnce(ctx, h.clock())
}
