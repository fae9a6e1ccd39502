// Package event publishes kernel events, such as task state transitions,
// onto in-memory queues and dispatches them to listeners.
package event

import (
	"time"

	"github.com/viant/stride/internal/clock"
)

// Context identifies where an event came from.
type Context struct {
	TaskID    int    `json:"taskID"`
	TaskName  string `json:"taskName,omitempty"`
	EventType string `json:"eventType"`
	Syscall   string `json:"syscall,omitempty"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Data:      data,
	}
}
