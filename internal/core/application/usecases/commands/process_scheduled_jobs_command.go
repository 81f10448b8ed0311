package commands

import (
	"errors"

	"careplan/internal/pkg/guard"
)

// ProcessScheduledJobsCommand triggers one dispatcher pass over the due jobs.
//
// Example:
//
//	cmd := NewProcessScheduledJobsCommand()
//	summary, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    log.Printf("Dispatcher pass failed: %v", err)
//	}
type ProcessScheduledJobsCommand struct {
	guard guard.ConstructorGuard
}

var (
	ErrProcessScheduledJobsCommandIsNotConstructed = errors.New(
		"ProcessScheduledJobsCommand must be created via NewProcessScheduledJobsCommand constructor",
	)
)

// NewProcessScheduledJobsCommand creates a parameterless pass trigger.
func NewProcessScheduledJobsCommand() ProcessScheduledJobsCommand {
	return ProcessScheduledJobsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c *ProcessScheduledJobsCommand) Validate() error {
	return c.guard.Validate(ErrProcessScheduledJobsCommandIsNotConstructed)
}
