// Package task defines the task control block and its lifecycle.
package task

import (
	"errors"
	"fmt"

	amm "github.com/viant/stride/model/mm"
	"github.com/viant/stride/model/stride"
	"github.com/viant/stride/service/mm"
)

// ErrInvalidPriority is returned when a task is created with priority < 1.
var ErrInvalidPriority = errors.New("task: invalid priority")

// MinPriority is the lowest priority accepted at creation.
const MinPriority = 1

// ControlBlock holds the scheduling and memory state of one task.
type ControlBlock struct {
	ID           int
	Name         string
	Status       Status
	Stride       stride.Stride
	Priority     int
	Space        *mm.AddressSpace
	HeapBottom   amm.VirtAddr
	ProgramBreak amm.VirtAddr
	// StartedAt is the clock value in microseconds of the first dispatch,
	// valid once Started is set.
	StartedAt uint64
	Started   bool
	ExitCode  int
}

// New creates an UnInit control block.
func New(id int, name string, priority int, space *mm.AddressSpace) (*ControlBlock, error) {
	if err := ValidatePriority(priority); err != nil {
		return nil, err
	}
	return &ControlBlock{ID: id, Name: name, Priority: priority, Space: space}, nil
}

// ValidatePriority checks priority against MinPriority.
func ValidatePriority(priority int) error {
	if priority < MinPriority {
		return fmt.Errorf("priority %d below %d: %w", priority, MinPriority, ErrInvalidPriority)
	}
	return nil
}

// Transition moves the task to next. An illegal move is a kernel bug and
// panics.
func (c *ControlBlock) Transition(next Status) {
	if !c.Status.CanTransition(next) {
		panic(fmt.Sprintf("task %d: illegal transition %s -> %s", c.ID, c.Status, next))
	}
	c.Status = next
}

// MarkStarted records the first dispatch time; later calls are ignored.
func (c *ControlBlock) MarkStarted(micros uint64) {
	if c.Started {
		return
	}
	c.Started = true
	c.StartedAt = micros
}

func (c *ControlBlock) String() string {
	return fmt.Sprintf("task %d (%s) %s stride=%d prio=%d", c.ID, c.Name, c.Status, c.Stride, c.Priority)
}
