package stride

import "fmt"

type trapKind int

const (
	trapSyscall trapKind = iota
	trapTick
	trapLoad
	trapStore
	trapReturn
	trapPanic
)

// trap is what a task hands to the kernel when it gives up the CPU.
type trap struct {
	kind trapKind
	num  uint64
	args [3]uint64
	va   VirtAddr
	n    int
	data []byte
	err  error
}

// reply resumes a task. kill makes the task goroutine exit instead.
type reply struct {
	ret  int64
	data []byte
	kill bool
}

// thread is the execution context of one task. The kernel and the task
// goroutine hand control to each other over unbuffered channels, so exactly
// one of them runs at a time.
type thread struct {
	user    *User
	program Program
	traps   chan trap
	replies chan reply
	started bool
	// pending is delivered when a yielded or preempted task runs again.
	pending reply
}

func newThread(program Program, layout Layout) *thread {
	th := &thread{
		program: program,
		traps:   make(chan trap),
		replies: make(chan reply),
	}
	th.user = &User{thread: th, layout: layout}
	return th
}

// switchTo gives the CPU to the task and waits for its next trap.
func (th *thread) switchTo() trap {
	if !th.started {
		th.started = true
		go th.run()
	} else {
		th.replies <- th.pending
		th.pending = reply{}
	}
	return <-th.traps
}

// resume answers the current trap and waits for the next one.
func (th *thread) resume(rep reply) trap {
	th.replies <- rep
	return <-th.traps
}

// kill ends a task parked in a trap.
func (th *thread) kill() {
	th.replies <- reply{kill: true}
}

func (th *thread) run() {
	defer func() {
		if v := recover(); v != nil {
			th.traps <- trap{kind: trapPanic, err: fmt.Errorf("task panicked: %v", v)}
		}
	}()
	th.program(th.user)
	th.traps <- trap{kind: trapReturn}
}
