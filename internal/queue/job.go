package queue

import (
	"sync"

	"StockNotifier/internal/models"
)

type EventKind string

const (
	EventEnqueue  EventKind = "enqueue"
	EventProgress EventKind = "progress"
	EventComplete EventKind = "complete"
	EventFailed   EventKind = "failed"
)

// Event is one lifecycle notification of a job. A job's stream carries an
// enqueue event, zero or more progress events and exactly one terminal
// event, after which the stream is closed.
type Event struct {
	Kind    EventKind
	JobID   string
	Current int
	Total   int
	Err     error
}

const eventBuffer = 16

// Job is one unit of notification work. The queue owns it from creation
// until a terminal state; listeners observe it through Events.
type Job struct {
	ID   string
	Type string
	Data models.PushNotification

	// notify mirrors state transitions the job makes on its own (progress)
	// to the queue's status store. Set once by the queue before the job is
	// shared.
	notify func(status string)

	mu      sync.Mutex
	state   string
	current int
	total   int
	done    bool
	events  chan Event
}

func newJob(id, jobType string, data models.PushNotification) *Job {
	return &Job{
		ID:     id,
		Type:   jobType,
		Data:   data,
		state:  models.StatusCreated,
		events: make(chan Event, eventBuffer),
	}
}

// State returns the job's current lifecycle state.
func (j *Job) State() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Events returns the job's lifecycle stream. Slow listeners may miss
// progress events; the terminal event is always delivered.
func (j *Job) Events() <-chan Event {
	return j.events
}

// Progress reports partial completion. Current is clamped so reported
// progress never decreases. No-op after a terminal state.
func (j *Job) Progress(current, total int) {
	j.mu.Lock()
	if j.done {
		j.mu.Unlock()
		return
	}
	if current < j.current {
		current = j.current
	}
	if total > 0 && current > total {
		current = total
	}
	j.current, j.total = current, total
	first := j.state != models.StatusProgressing
	j.state = models.StatusProgressing
	j.emit(Event{Kind: EventProgress, JobID: j.ID, Current: current, Total: total})
	notify := j.notify
	j.mu.Unlock()

	if first && notify != nil {
		notify(models.StatusProgressing)
	}
}

func (j *Job) enqueue() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.done || j.state != models.StatusCreated {
		return
	}
	j.state = models.StatusEnqueued
	j.emit(Event{Kind: EventEnqueue, JobID: j.ID})
}

func (j *Job) activate() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.done {
		j.state = models.StatusActive
	}
}

// finish moves the job to its terminal state and closes the stream.
// Subsequent calls are no-ops, so redelivered work cannot emit a second
// terminal event.
func (j *Job) finish(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.done {
		return
	}
	j.done = true

	ev := Event{Kind: EventComplete, JobID: j.ID}
	j.state = models.StatusCompleted
	if err != nil {
		ev = Event{Kind: EventFailed, JobID: j.ID, Err: err}
		j.state = models.StatusFailed
	}

	// Make room for the terminal event if lagging listeners filled the
	// buffer with progress events.
	for {
		select {
		case j.events <- ev:
			close(j.events)
			return
		default:
			select {
			case <-j.events:
			default:
			}
		}
	}
}

// emit drops the event when the buffer is full; only finish guarantees
// delivery. Callers must hold j.mu.
func (j *Job) emit(ev Event) {
	select {
	case j.events <- ev:
	default:
	}
}
