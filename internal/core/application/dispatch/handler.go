// Package dispatch runs due scheduled jobs through their handlers and records
// the outcome of every attempt in the job store.
//
// A pass is a single call to Dispatcher.RunOnce. It fetches a bounded batch of
// due jobs, acquires one mail credential for the whole batch, then claims and
// executes each job in order. Claims are conditional, so overlapping passes
// never execute the same job twice.
//
//	d := dispatch.NewDispatcher(jobRepo, mailClient, handlers, logger,
//		dispatch.WithBatchSize(20),
//		dispatch.WithBackoff(backoff.DefaultStrategy()),
//	)
//	summary, err := d.RunOnce(ctx, time.Now())
package dispatch

import (
	"context"
	"errors"
	"time"

	"careplan/internal/core/domain/model/job"
	"careplan/internal/core/ports"
)

var (
	// ErrMailCredential aborts a pass before any job is touched.
	ErrMailCredential = errors.New("mail credential unavailable")

	ErrNoPatientEmail   = errors.New("no patient email available")
	ErrCarePlanNotReady = errors.New("no care plan text available")
)

// Request is everything a handler gets for one attempt. Job is a snapshot taken
// after the claim; the dispatcher records the outcome on its own copy.
type Request struct {
	Job        *job.Job
	Credential ports.Credential
	Now        time.Time
}

// Handler executes one job type. A returned error counts as a failed attempt.
type Handler interface {
	Execute(ctx context.Context, req Request) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, req Request) error

func (f HandlerFunc) Execute(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// Handlers maps job types to their handler. Types without an entry complete as no-ops.
type Handlers map[job.Type]Handler
