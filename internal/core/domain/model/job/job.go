package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/pkg/errs"
	"careplan/internal/pkg/guard"
)

// DefaultMaxAttempts is the attempt ceiling used for every job type.
const DefaultMaxAttempts = 3

var ErrJobIsNotConstructed = errors.New("Job must be created via New or Restore")

// Job is a unit of deferred, retryable work owned by the job store.
type Job struct {
	id           kernel.UUID
	jobType      Type
	patientID    kernel.UUID
	payload      []byte
	scheduledFor time.Time
	status       Status
	attempts     int
	maxAttempts  int
	lastError    string

	guard guard.ConstructorGuard
}

// New creates a pending job for patientID due at scheduledFor.
// The job type is taken from the payload variant.
func New(patientID kernel.UUID, payload Payload, scheduledFor time.Time) (*Job, error) {
	if payload == nil {
		return nil, errs.NewValueIsRequiredError("payload")
	}
	if err := payload.JobType().validateKnown(); err != nil {
		return nil, err
	}
	if err := patientID.Validate(); err != nil {
		return nil, err
	}
	if scheduledFor.IsZero() {
		return nil, errs.NewValueIsRequiredError("scheduledFor")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("payload", err)
	}

	return &Job{
		id:           kernel.NewUUID(),
		jobType:      payload.JobType(),
		patientID:    patientID,
		payload:      raw,
		scheduledFor: scheduledFor.UTC(),
		status:       Pending,
		maxAttempts:  DefaultMaxAttempts,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// NewPatientReminder schedules reminder number sequence for a patient.
func NewPatientReminder(patientID kernel.UUID, sequence int, at time.Time) (*Job, error) {
	if sequence < 1 {
		return nil, errs.NewValueIsOutOfRangeError("sequence", sequence, 1, DefaultMaxAttempts)
	}
	return New(patientID, PatientReminderPayload{Sequence: sequence}, at)
}

// NewCarePlanEmail schedules delivery of a generated care plan.
func NewCarePlanEmail(patientID, submissionID kernel.UUID, at time.Time) (*Job, error) {
	payload := CarePlanEmailPayload{}
	if !submissionID.IsZero() {
		payload.SubmissionID = submissionID.String()
	}
	return New(patientID, payload, at)
}

// Restore rebuilds a job loaded from storage. Unknown job types are accepted.
func Restore(
	id kernel.UUID,
	jobType Type,
	patientID kernel.UUID,
	payload []byte,
	scheduledFor time.Time,
	status Status,
	attempts, maxAttempts int,
	lastError string,
) (*Job, error) {
	if err := errors.Join(
		id.Validate(),
		jobType.Validate(),
		patientID.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	if maxAttempts < 1 {
		return nil, errs.NewValueIsOutOfRangeError("maxAttempts", maxAttempts, 1, "unbounded")
	}
	if attempts < 0 {
		return nil, errs.NewValueIsOutOfRangeError("attempts", attempts, 0, maxAttempts)
	}

	return &Job{
		id:           id,
		jobType:      jobType,
		patientID:    patientID,
		payload:      payload,
		scheduledFor: scheduledFor.UTC(),
		status:       status,
		attempts:     attempts,
		maxAttempts:  maxAttempts,
		lastError:    lastError,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (j *Job) Validate() error {
	if j == nil {
		return ErrJobIsNotConstructed
	}
	return j.guard.Validate(ErrJobIsNotConstructed)
}

func (j *Job) ID() kernel.UUID {
	return j.id
}

func (j *Job) Type() Type {
	return j.jobType
}

func (j *Job) PatientID() kernel.UUID {
	return j.patientID
}

// RawPayload is the JSON-encoded variant body as persisted.
func (j *Job) RawPayload() []byte {
	return j.payload
}

func (j *Job) ScheduledFor() time.Time {
	return j.scheduledFor
}

func (j *Job) Status() Status {
	return j.status
}

func (j *Job) Attempts() int {
	return j.attempts
}

func (j *Job) MaxAttempts() int {
	return j.maxAttempts
}

func (j *Job) LastError() string {
	return j.lastError
}

// Snapshot returns an independent copy. State changes on the copy do not reach j.
func (j *Job) Snapshot() *Job {
	c := *j
	c.payload = append([]byte(nil), j.payload...)
	return &c
}

func (j *Job) IsDue(now time.Time) bool {
	return j.status == Pending && !j.scheduledFor.After(now)
}

// DecodePayload unmarshals the job body into dst, which must be the variant of the job's type.
func (j *Job) DecodePayload(dst Payload) error {
	if dst.JobType() != j.jobType {
		return errs.NewValueIsInvalidErrorWithCause(
			"payload",
			fmt.Errorf("%s payload requested for %s job", dst.JobType(), j.jobType),
		)
	}
	if len(j.payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(j.payload, dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("payload", err)
	}
	return nil
}

// Claim moves a pending job to processing.
func (j *Job) Claim() error {
	next, err := j.status.transitionTo(Processing)
	if err != nil {
		return err
	}
	j.status = next
	return nil
}

// Complete records a successful attempt.
func (j *Job) Complete() error {
	next, err := j.status.transitionTo(Completed)
	if err != nil {
		return err
	}
	j.status = next
	j.attempts++
	return nil
}

// Fail records a failed attempt. The job goes back to pending, due at now+delay,
// unless the attempt ceiling is reached, in which case it becomes failed.
func (j *Job) Fail(cause error, now time.Time, delay time.Duration) error {
	if j.status != Processing {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("cannot fail a job in %s", j.status),
		)
	}

	j.attempts++
	if cause != nil {
		j.lastError = cause.Error()
	}

	if j.attempts >= j.maxAttempts {
		j.status = Failed
		return nil
	}

	j.status = Pending
	j.scheduledFor = now.Add(delay).UTC()
	return nil
}

// IsExhausted reports whether the job ended in failed.
func (j *Job) IsExhausted() bool {
	return j.status == Failed
}

// Cancel withdraws a job that has not been picked up yet.
func (j *Job) Cancel() error {
	next, err := j.status.transitionTo(Cancelled)
	if err != nil {
		return err
	}
	j.status = next
	return nil
}
