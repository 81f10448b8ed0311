package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"careplan/internal/core/domain/model/job"
	"careplan/internal/core/ports"
	"careplan/internal/pkg/backoff"
)

const (
	DefaultBatchSize      = 20
	DefaultHandlerTimeout = 30 * time.Second
)

// Summary reports the outcome of one pass.
type Summary struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	Total     int `json:"total"`
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithBatchSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.batchSize = n
		}
	}
}

func WithHandlerTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.handlerTimeout = timeout
		}
	}
}

func WithBackoff(strategy backoff.Strategy) Option {
	return func(d *Dispatcher) {
		if strategy != nil {
			d.backoff = strategy
		}
	}
}

// Dispatcher drives due jobs through their handlers.
type Dispatcher struct {
	jobs     ports.JobRepository
	mail     ports.MailClient
	handlers Handlers

	batchSize      int
	handlerTimeout time.Duration
	backoff        backoff.Strategy
	logger         *slog.Logger
}

func NewDispatcher(
	jobs ports.JobRepository,
	mail ports.MailClient,
	handlers Handlers,
	logger *slog.Logger,
	opts ...Option,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		jobs:           jobs,
		mail:           mail,
		handlers:       handlers,
		batchSize:      DefaultBatchSize,
		handlerTimeout: DefaultHandlerTimeout,
		backoff:        backoff.DefaultStrategy(),
		logger:         logger.With("component", "job_dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeCompleted
	outcomeFailed
)

// RunOnce executes one pass over the jobs due at now.
// Per-job failures are recorded on the jobs and counted in the summary;
// only a failed fetch or credential acquisition is returned as an error.
func (d *Dispatcher) RunOnce(ctx context.Context, now time.Time) (Summary, error) {
	due, err := d.jobs.FetchDue(ctx, d.batchSize, now)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch due jobs: %w", err)
	}
	if len(due) == 0 {
		return Summary{}, nil
	}

	cred, err := d.mail.AcquireCredential(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrMailCredential, err)
	}

	summary := Summary{Total: len(due)}
	for _, j := range due {
		if ctx.Err() != nil {
			d.logger.WarnContext(ctx, "Pass interrupted, leaving remaining jobs pending", "error", ctx.Err())
			return summary, ctx.Err()
		}

		switch d.process(ctx, j, cred, now) {
		case outcomeCompleted:
			summary.Processed++
		case outcomeFailed:
			summary.Failed++
		default:
			summary.Skipped++
		}
	}

	d.logger.InfoContext(ctx, "Dispatcher pass finished",
		"processed", summary.Processed,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"total", summary.Total,
	)
	return summary, nil
}

func (d *Dispatcher) process(ctx context.Context, j *job.Job, cred ports.Credential, now time.Time) outcome {
	log := d.logger.With("job_id", j.ID().String(), "job_type", j.Type().String())

	claimed, err := d.jobs.MarkProcessing(ctx, j.ID())
	if err != nil {
		log.ErrorContext(ctx, "Failed to claim job", "error", err)
		return outcomeSkipped
	}
	if !claimed {
		log.DebugContext(ctx, "Job already claimed by another pass")
		return outcomeSkipped
	}
	if err = j.Claim(); err != nil {
		log.ErrorContext(ctx, "Claimed job is not pending", "error", err)
		return outcomeSkipped
	}

	handlerErr := d.execute(ctx, j, cred, now)

	// The attempt has happened; record it even if the pass is being cancelled.
	recordCtx := context.WithoutCancel(ctx)

	if handlerErr == nil {
		if err = j.Complete(); err == nil {
			err = d.jobs.MarkCompleted(recordCtx, j.ID(), j.Attempts())
		}
		if err != nil {
			log.ErrorContext(ctx, "Failed to record completed job", "error", err)
		}
		return outcomeCompleted
	}

	delay := d.backoff.Delay(j.Attempts() + 1)
	if err = j.Fail(handlerErr, now, delay); err != nil {
		log.ErrorContext(ctx, "Failed to apply job failure", "error", err)
		return outcomeFailed
	}

	if j.IsExhausted() {
		err = d.jobs.MarkFailed(recordCtx, j.ID(), j.Attempts(), j.LastError())
		log.WarnContext(ctx, "Job failed permanently",
			"attempts", j.Attempts(),
			"error", handlerErr,
		)
	} else {
		err = d.jobs.RescheduleForRetry(recordCtx, j.ID(), j.Attempts(), j.ScheduledFor(), j.LastError())
		log.InfoContext(ctx, "Job scheduled for retry",
			"attempts", j.Attempts(),
			"max_attempts", j.MaxAttempts(),
			"retry_at", j.ScheduledFor(),
			"error", handlerErr,
		)
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to record job failure", "error", err)
	}
	return outcomeFailed
}

// execute runs the job's handler under the per-job timeout and turns a panic into an error.
func (d *Dispatcher) execute(ctx context.Context, j *job.Job, cred ports.Credential, now time.Time) (err error) {
	handler, ok := d.handlers[j.Type()]
	if !ok {
		d.logger.WarnContext(ctx, "No handler for job type, completing as no-op",
			"job_id", j.ID().String(),
			"job_type", j.Type().String(),
		)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, d.handlerTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(ctx, "Job handler panicked",
				"job_id", j.ID().String(),
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("panic in %s handler: %v", j.Type(), r)
		}
	}()

	return handler.Execute(ctx, Request{Job: j.Snapshot(), Credential: cred, Now: now})
}
