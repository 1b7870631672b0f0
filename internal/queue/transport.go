package queue

import (
	"context"
	"sync"
)

// Delivery is one message handed over by the transport. Ack confirms the
// work reached a terminal state; an unacked delivery may be redelivered.
type Delivery struct {
	Body []byte
	Ack  func()
}

// Transport is the at-least-once work-distribution mechanism behind the
// queue. Message bodies carry only the job id; payloads stay in the status
// store.
type Transport interface {
	Publish(ctx context.Context, jobType string, body []byte) error
	Consume(ctx context.Context, jobType string) (<-chan Delivery, error)
}

const laneBuffer = 64

// LocalTransport distributes work inside the process. It backs tests and
// single-node runs where no broker is available.
type LocalTransport struct {
	mu    sync.Mutex
	lanes map[string]chan Delivery
}

func NewLocalTransport() *LocalTransport {
	return &LocalTransport{lanes: make(map[string]chan Delivery)}
}

func (t *LocalTransport) lane(jobType string) chan Delivery {
	t.mu.Lock()
	defer t.mu.Unlock()
	ln, ok := t.lanes[jobType]
	if !ok {
		ln = make(chan Delivery, laneBuffer)
		t.lanes[jobType] = ln
	}
	return ln
}

func (t *LocalTransport) Publish(ctx context.Context, jobType string, body []byte) error {
	select {
	case t.lane(jobType) <- Delivery{Body: body, Ack: func() {}}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *LocalTransport) Consume(_ context.Context, jobType string) (<-chan Delivery, error) {
	return t.lane(jobType), nil
}
