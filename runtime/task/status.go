package task

import "fmt"

// Status is the lifecycle state of a task. The numeric values are visible to
// user space through task_info.
type Status uint8

const (
	UnInit Status = iota
	Ready
	Running
	Exited
)

var statusNames = [...]string{"uninit", "ready", "running", "exited"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", s)
}

var transitions = map[Status][]Status{
	UnInit:  {Ready},
	Ready:   {Running},
	Running: {Ready, Exited},
}

// CanTransition reports whether a task may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}
