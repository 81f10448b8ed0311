package dispatch_test

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"careplan/internal/core/domain/model/job"
	"careplan/internal/core/domain/model/kernel"
	"careplan/internal/core/domain/model/patient"
	"careplan/internal/core/ports"
	"careplan/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
)

type jobRecord struct {
	id           kernel.UUID
	jobType      job.Type
	patientID    kernel.UUID
	payload      []byte
	scheduledFor time.Time
	status       job.Status
	attempts     int
	maxAttempts  int
	lastError    string
}

// memJobs is an in-memory ports.JobRepository with the same conditional
// update rules as the postgres adapter.
type memJobs struct {
	mu   sync.Mutex
	rows map[string]*jobRecord
}

func newMemJobs() *memJobs {
	return &memJobs{rows: make(map[string]*jobRecord)}
}

func (m *memJobs) Add(_ context.Context, aggregate *job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[aggregate.ID().String()] = &jobRecord{
		id:           aggregate.ID(),
		jobType:      aggregate.Type(),
		patientID:    aggregate.PatientID(),
		payload:      aggregate.RawPayload(),
		scheduledFor: aggregate.ScheduledFor(),
		status:       aggregate.Status(),
		attempts:     aggregate.Attempts(),
		maxAttempts:  aggregate.MaxAttempts(),
		lastError:    aggregate.LastError(),
	}
	return nil
}

func (m *memJobs) Get(_ context.Context, id kernel.UUID) (*job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("job", id.String())
	}
	return r.restore()
}

func (m *memJobs) FetchDue(_ context.Context, limit int, now time.Time) ([]*job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	due := make([]*jobRecord, 0)
	for _, r := range m.rows {
		if r.status == job.Pending && !r.scheduledFor.After(now) {
			due = append(due, r)
		}
	}
	slices.SortFunc(due, func(a, b *jobRecord) int {
		return cmp.Or(a.scheduledFor.Compare(b.scheduledFor), cmp.Compare(a.id.String(), b.id.String()))
	})
	if len(due) > limit {
		due = due[:limit]
	}

	jobs := make([]*job.Job, 0, len(due))
	for _, r := range due {
		j, err := r.restore()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func (m *memJobs) MarkProcessing(_ context.Context, id kernel.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id.String()]
	if !ok || r.status != job.Pending {
		return false, nil
	}
	r.status = job.Processing
	return true, nil
}

func (m *memJobs) MarkCompleted(_ context.Context, id kernel.UUID, attempts int) error {
	return m.transition(id, func(r *jobRecord) {
		r.status = job.Completed
		r.attempts = attempts
	})
}

func (m *memJobs) MarkFailed(_ context.Context, id kernel.UUID, attempts int, lastError string) error {
	return m.transition(id, func(r *jobRecord) {
		r.status = job.Failed
		r.attempts = attempts
		r.lastError = lastError
	})
}

func (m *memJobs) RescheduleForRetry(
	_ context.Context,
	id kernel.UUID,
	attempts int,
	at time.Time,
	lastError string,
) error {
	return m.transition(id, func(r *jobRecord) {
		r.status = job.Pending
		r.attempts = attempts
		r.scheduledFor = at
		r.lastError = lastError
	})
}

func (m *memJobs) CancelPending(_ context.Context, patientID kernel.UUID, types ...job.Type) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if !r.patientID.IsEqual(patientID) || r.status != job.Pending {
			continue
		}
		if len(types) > 0 && !slices.Contains(types, r.jobType) {
			continue
		}
		r.status = job.Cancelled
		n++
	}
	return n, nil
}

func (m *memJobs) transition(id kernel.UUID, apply func(*jobRecord)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id.String()]
	if !ok || r.status != job.Processing {
		return errs.NewObjectNotFoundError("processing job", id.String())
	}
	apply(r)
	return nil
}

// forPatient returns the patient's jobs in schedule order.
func (m *memJobs) forPatient(patientID kernel.UUID) []*jobRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*jobRecord, 0)
	for _, r := range m.rows {
		if r.patientID.IsEqual(patientID) {
			copied := *r
			out = append(out, &copied)
		}
	}
	slices.SortFunc(out, func(a, b *jobRecord) int {
		return a.scheduledFor.Compare(b.scheduledFor)
	})
	return out
}

func (m *memJobs) record(id kernel.UUID) jobRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.rows[id.String()]
}

func (r *jobRecord) restore() (*job.Job, error) {
	return job.Restore(r.id, r.jobType, r.patientID, r.payload, r.scheduledFor,
		r.status, r.attempts, r.maxAttempts, r.lastError)
}

type memPatients struct {
	mu   sync.Mutex
	rows map[string]*patient.Patient
}

func (m *memPatients) Add(_ context.Context, p *patient.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.ID().String()] = p
	return nil
}

func (m *memPatients) Update(ctx context.Context, p *patient.Patient) error {
	return m.Add(ctx, p)
}

func (m *memPatients) Get(_ context.Context, id kernel.UUID) (*patient.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("patient", id.String())
	}
	return p, nil
}

func (m *memPatients) Delete(_ context.Context, id kernel.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id.String())
	return nil
}

type memSubmissions struct {
	mu   sync.Mutex
	rows map[string]*patient.Submission
}

func (m *memSubmissions) Add(_ context.Context, s *patient.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.PatientID().String()] = s
	return nil
}

func (m *memSubmissions) Update(ctx context.Context, s *patient.Submission) error {
	return m.Add(ctx, s)
}

func (m *memSubmissions) GetByPatient(_ context.Context, patientID kernel.UUID) (*patient.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[patientID.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("submission", patientID.String())
	}
	return s, nil
}

func (m *memSubmissions) Exists(_ context.Context, patientID kernel.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[patientID.String()]
	return ok, nil
}

// memStore bundles the repositories and hands them out as a unit of work.
type memStore struct {
	jobs        *memJobs
	patients    *memPatients
	submissions *memSubmissions
	commits     int
}

func newMemStore() *memStore {
	return &memStore{
		jobs:        newMemJobs(),
		patients:    &memPatients{rows: make(map[string]*patient.Patient)},
		submissions: &memSubmissions{rows: make(map[string]*patient.Submission)},
	}
}

func (s *memStore) Create() ports.UnitOfWork {
	return &memUoW{store: s}
}

type memUoW struct {
	store *memStore
}

func (u *memUoW) Begin(context.Context) error {
	return nil
}

func (u *memUoW) Commit(context.Context) error {
	u.store.commits++
	return nil
}

func (u *memUoW) Rollback(context.Context) error {
	return nil
}

func (u *memUoW) JobRepository() ports.JobRepository {
	return u.store.jobs
}

func (u *memUoW) PatientRepository() ports.PatientRepository {
	return u.store.patients
}

func (u *memUoW) SubmissionRepository() ports.SubmissionRepository {
	return u.store.submissions
}

type MockMailClient struct{ mock.Mock }

func (m *MockMailClient) AcquireCredential(ctx context.Context) (ports.Credential, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.Credential), args.Error(1)
}

func (m *MockMailClient) Send(ctx context.Context, cred ports.Credential, msg ports.Message) error {
	args := m.Called(ctx, cred, msg)
	return args.Error(0)
}
