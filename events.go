package stride

import (
	"context"

	"github.com/viant/stride/runtime/task"
	"github.com/viant/stride/service/event"
)

// Transition is published on every task status change when events are
// enabled.
type Transition struct {
	TaskID   int         `json:"taskID"`
	Name     string      `json:"name"`
	From     task.Status `json:"from"`
	To       task.Status `json:"to"`
	Reason   string      `json:"reason"`
	ExitCode int         `json:"exitCode,omitempty"`
}

// OnTransition registers a listener for task transitions. It has no effect
// when events are disabled.
func (r *Runtime) OnTransition(handler func(*event.Event[Transition])) {
	if r.events == nil {
		return
	}
	event.SetListenerOf[Transition](r.events, handler)
}

func (r *Runtime) transition(ctx context.Context, tcb *task.ControlBlock, next task.Status, reason string) {
	from := tcb.Status
	tcb.Transition(next)
	r.logger.Debug("task transition", "task", tcb.ID, "from", from, "to", next, "reason", reason)
	if r.events == nil {
		return
	}
	payload := Transition{TaskID: tcb.ID, Name: tcb.Name, From: from, To: next, Reason: reason, ExitCode: tcb.ExitCode}
	e := event.NewEvent(&event.Context{TaskID: tcb.ID, TaskName: tcb.Name, EventType: "transition"}, payload)
	if err := event.PublisherOf[Transition](r.events).Publish(ctx, e); err != nil {
		r.logger.Debug("transition event dropped", "task", tcb.ID, "error", err)
	}
}
