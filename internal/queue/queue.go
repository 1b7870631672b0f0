package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"StockNotifier/internal/models"
)

// Handler processes one job of a registered type. A nil return completes
// the job; an error fails it.
type Handler func(ctx context.Context, job *Job) error

// StatusStore mirrors job state to external storage so status survives the
// in-process job table (e.g. for the status endpoint).
type StatusStore interface {
	SaveJob(ctx context.Context, id, jobType string, data models.PushNotification) error
	SaveStatus(ctx context.Context, id, status string) error
}

// NopStatusStore discards status updates, for runs without an external
// store wired.
type NopStatusStore struct{}

func (NopStatusStore) SaveJob(context.Context, string, string, models.PushNotification) error {
	return nil
}

func (NopStatusStore) SaveStatus(context.Context, string, string) error {
	return nil
}

// Queue dispatches notification jobs to handlers over a Transport, with a
// bounded number of concurrent handler invocations per job type.
type Queue struct {
	log       *slog.Logger
	transport Transport
	store     StatusStore

	mu   sync.Mutex
	jobs map[string]*Job
}

func New(log *slog.Logger, transport Transport, store StatusStore) *Queue {
	return &Queue{
		log:       log,
		transport: transport,
		store:     store,
		jobs:      make(map[string]*Job),
	}
}

// CreateJob allocates a job on the given lane and submits it. The job is
// returned even when submission fails, but in that case it is already in
// its failed terminal state: an unsubmittable job must not linger in the
// job table with an open event stream.
func (q *Queue) CreateJob(ctx context.Context, jobType string, data models.PushNotification) (*Job, error) {
	const op = "queue.CreateJob"

	job := newJob(uuid.New().String(), jobType, data)
	statusCtx := context.WithoutCancel(ctx)
	job.notify = func(status string) {
		q.setStatus(statusCtx, job.ID, status)
	}

	q.mu.Lock()
	q.jobs[job.ID] = job
	q.mu.Unlock()

	if err := q.store.SaveJob(ctx, job.ID, jobType, data); err != nil {
		q.log.Error("failed to save job", "id", job.ID, "error", err)
	}

	if err := q.transport.Publish(ctx, jobType, []byte(job.ID)); err != nil {
		submitErr := fmt.Errorf("%s: %w", op, err)
		q.setStatus(ctx, job.ID, models.StatusFailed)
		q.drop(job.ID)
		job.finish(submitErr)
		return job, submitErr
	}

	job.enqueue()
	q.setStatus(ctx, job.ID, models.StatusEnqueued)
	return job, nil
}

// Process registers a handler for a job type. At most concurrency jobs of
// that type run at once; further deliveries wait for a free slot. Handler
// panics fail the job instead of taking the worker pool down.
func (q *Queue) Process(ctx context.Context, jobType string, concurrency int, h Handler) error {
	const op = "queue.Process"

	if concurrency < 1 {
		concurrency = 1
	}
	deliveries, err := q.transport.Consume(ctx, jobType)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, concurrency)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				select {
				case sem <- struct{}{}:
				case <-ctx.Done():
					return
				}
				go func(d Delivery) {
					defer func() { <-sem }()
					q.run(ctx, d, h)
				}(d)
			}
		}
	}()
	return nil
}

func (q *Queue) run(ctx context.Context, d Delivery, h Handler) {
	defer d.Ack()

	id := string(d.Body)
	q.mu.Lock()
	job := q.jobs[id]
	q.mu.Unlock()
	if job == nil {
		q.log.Warn("delivery for unknown job", "id", id)
		return
	}

	job.activate()
	q.setStatus(ctx, job.ID, models.StatusActive)

	// mirror the terminal status and clear the table before finish closes
	// the stream, so listeners observing the close see settled state
	err := q.invoke(ctx, job, h)
	if err != nil {
		q.setStatus(ctx, job.ID, models.StatusFailed)
	} else {
		q.setStatus(ctx, job.ID, models.StatusCompleted)
	}
	q.drop(id)
	job.finish(err)
}

func (q *Queue) drop(id string) {
	q.mu.Lock()
	delete(q.jobs, id)
	q.mu.Unlock()
}

func (q *Queue) invoke(ctx context.Context, job *Job, h Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, job)
}

func (q *Queue) setStatus(ctx context.Context, id, status string) {
	if err := q.store.SaveStatus(ctx, id, status); err != nil {
		q.log.Error("failed to save job status", "id", id, "status", status, "error", err)
	}
}
