package job

import (
	"fmt"

	"careplan/internal/pkg/errs"
)

// Status is the lifecycle state of a job.
type Status string

const (
	Pending    Status = "pending"
	Processing Status = "processing"
	Completed  Status = "completed"
	Failed     Status = "failed"
	Cancelled  Status = "cancelled"
)

// transitions lists the legal edges of the state machine.
var transitions = map[Status][]Status{
	Pending:    {Processing, Cancelled},
	Processing: {Completed, Pending, Failed},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Validate() error {
	switch s {
	case Pending, Processing, Completed, Failed, Cancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
	}
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Failed || s == Cancelled
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) transitionTo(next Status) (Status, error) {
	if !s.CanTransitionTo(next) {
		return s, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("cannot move job from %s to %s", s, next),
		)
	}
	return next, nil
}
