// Package memory implements messaging.Queue on a buffered channel.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/viant/stride/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	// Buffer is the channel capacity.
	Buffer int
	// DropWhenFull makes Publish fail with messaging.ErrQueueFull instead of
	// blocking.
	DropWhenFull bool
	// MaxRetries bounds how often a nacked message is requeued.
	MaxRetries int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{Buffer: 256, DropWhenFull: true, MaxRetries: 1}
}

// Message is a queued payload.
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	retries   int
	mu        sync.Mutex
	processed bool
}

// ID returns the message id.
func (m *Message[T]) ID() string { return m.id }

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	return nil
}

// Nack marks the message failed and requeues it while retries remain.
// A message that cannot be requeued is dropped.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	if m.retries >= m.queue.config.MaxRetries {
		return nil
	}
	retry := &Message[T]{id: m.id, payload: m.payload, queue: m.queue, retries: m.retries + 1}
	select {
	case m.queue.messages <- retry:
	default:
		m.queue.countDrop()
	}
	return nil
}

// Queue implements an in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	mu       sync.Mutex
	dropped  int
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.Buffer <= 0 {
		config.Buffer = DefaultConfig().Buffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.Buffer),
		config:   config,
	}
}

// Publish adds a new item to the queue
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{id: uuid.New().String(), payload: *t, queue: q}
	if q.config.DropWhenFull {
		select {
		case q.messages <- msg:
			return nil
		default:
			q.countDrop()
			return messaging.ErrQueueFull
		}
	}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// Dropped returns how many messages were discarded for lack of room.
func (q *Queue[T]) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

func (q *Queue[T]) countDrop() {
	q.mu.Lock()
	q.dropped++
	q.mu.Unlock()
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
