// Package scheduler implements the stride scheduler: the ready task with the
// smallest stride runs next, and every dispatch advances its stride by
// BigStride / priority.
//
// Strides are 8-bit and wrap, so ordering uses the half-range comparison of
// model/stride. That ordering is only consistent while all ready strides sit
// within HalfRange of each other, which holds as long as every pass is at
// most HalfRange, i.e. every priority is at least 2. Priority 1 is accepted
// but gives no fairness guarantee.
package scheduler

import (
	"container/heap"
	"fmt"

	"github.com/viant/stride/internal/exclusive"
	"github.com/viant/stride/model/stride"
	"github.com/viant/stride/runtime/task"
)

// Scheduler owns the ready set.
type Scheduler struct {
	ready *exclusive.Cell[readySet]
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{ready: exclusive.New("ready set", &readySet{})}
}

// Enqueue adds a Ready task keyed by its current stride. Tasks with equal
// strides leave in the order they were enqueued.
func (s *Scheduler) Enqueue(tcb *task.ControlBlock) {
	if tcb.Status != task.Ready {
		panic(fmt.Sprintf("scheduler: enqueue of %s", tcb))
	}
	s.ready.With(func(r *readySet) {
		r.seq++
		heap.Push(&r.queue, entry{tcb: tcb, seq: r.seq})
	})
}

// PickNext removes and returns the task with the smallest stride, or nil when
// nothing is ready.
func (s *Scheduler) PickNext() *task.ControlBlock {
	var next *task.ControlBlock
	s.ready.With(func(r *readySet) {
		if len(r.queue) == 0 {
			return
		}
		next = heap.Pop(&r.queue).(entry).tcb
	})
	return next
}

// OnSchedule advances the stride of a task that is about to run.
func (s *Scheduler) OnSchedule(tcb *task.ControlBlock) {
	tcb.Stride = tcb.Stride.Advance(stride.Pass(tcb.Priority))
}

// Len returns the number of ready tasks.
func (s *Scheduler) Len() int {
	n := 0
	s.ready.With(func(r *readySet) { n = len(r.queue) })
	return n
}

// Remove drops the task with id from the ready set and reports whether it
// was there.
func (s *Scheduler) Remove(id int) bool {
	removed := false
	s.ready.With(func(r *readySet) {
		for i, e := range r.queue {
			if e.tcb.ID == id {
				heap.Remove(&r.queue, i)
				removed = true
				return
			}
		}
	})
	return removed
}

type readySet struct {
	queue readyQueue
	seq   uint64
}

type entry struct {
	tcb *task.ControlBlock
	seq uint64
}

type readyQueue []entry

func (q readyQueue) Len() int { return len(q) }

func (q readyQueue) Less(i, j int) bool {
	if c := stride.Compare(q[i].tcb.Stride, q[j].tcb.Stride); c != 0 {
		return c < 0
	}
	return q[i].seq < q[j].seq
}

func (q readyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *readyQueue) Push(x any) { *q = append(*q, x.(entry)) }

func (q *readyQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = entry{}
	*q = old[:n-1]
	return e
}
