// Package progress provides a lightweight tracker of kernel activity. The
// run loop updates it through Delta values; observers read snapshots or
// register a change callback.

package progress

import (
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the run loop.
type Delta struct {
	Spawned    int
	Dispatched int
	Yielded    int
	Preempted  int
	Exited     int
	Faulted    int
	Syscalls   int
}

// Progress keeps aggregated counters for one kernel instance. It is safe for
// concurrent use.
type Progress struct {
	BootID    string
	StartedAt time.Time

	Spawned    int
	Dispatched int
	Yielded    int
	Preempted  int
	Exited     int
	Faulted    int
	Syscalls   int

	sync.Mutex
	onChange func(Progress)
}

// New creates a tracker for the kernel identified by bootID.
func New(bootID string, startedAt time.Time) *Progress {
	return &Progress{BootID: bootID, StartedAt: startedAt}
}

// Update applies the supplied delta. A registered onChange callback gets a
// copy of the updated tracker outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.Lock()

	p.Spawned += d.Spawned
	p.Dispatched += d.Dispatched
	p.Yielded += d.Yielded
	p.Preempted += d.Preempted
	p.Exited += d.Exited
	p.Faulted += d.Faulted
	p.Syscalls += d.Syscalls

	snapshot := p.copyLocked()
	cb := p.onChange

	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copyLocked()
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

func (p *Progress) copyLocked() Progress {
	return Progress{
		BootID:     p.BootID,
		StartedAt:  p.StartedAt,
		Spawned:    p.Spawned,
		Dispatched: p.Dispatched,
		Yielded:    p.Yielded,
		Preempted:  p.Preempted,
		Exited:     p.Exited,
		Faulted:    p.Faulted,
		Syscalls:   p.Syscalls,
	}
}
