package stride

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/viant/stride/internal/clock"
	"github.com/viant/stride/progress"
	"github.com/viant/stride/runtime/task"
	"github.com/viant/stride/service/accounting"
	"github.com/viant/stride/service/dao"
	"github.com/viant/stride/service/dao/store"
	"github.com/viant/stride/service/event"
	"github.com/viant/stride/service/mm"
	"github.com/viant/stride/service/mm/dump"
	"github.com/viant/stride/service/scheduler"
	"github.com/viant/stride/service/syscall"
)

// FaultExitCode is the exit code of a task killed by a memory fault.
const FaultExitCode = -2

var (
	// ErrRunning is returned when Run is called while another Run is active.
	ErrRunning = errors.New("stride: runtime already running")
	// ErrDumpDisabled is returned by Dump when no dump URL is configured.
	ErrDumpDisabled = errors.New("stride: memory dump disabled")
)

// Runtime loads tasks and runs them until none is ready. It is driven from
// a single goroutine: Spawn, Run and Close must not be called concurrently.
type Runtime struct {
	config     *Config
	logger     *slog.Logger
	clock      clock.Clock
	machine    mm.Machine
	scheduler  *scheduler.Scheduler
	accounting *accounting.Table
	syscalls   *syscall.Handler
	tasks      *store.MemoryStore[int, task.ControlBlock]
	threads    map[int]*thread
	exits      map[int]int
	progress   *progress.Progress
	events     *event.Service
	dumper     *dump.Service
	nextID     int
	running    atomic.Bool
}

// Run dispatches ready tasks until none is left. It returns ctx.Err() when
// the context is cancelled between dispatches; remaining tasks stay loaded
// until Close.
func (r *Runtime) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer r.running.Store(false)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tcb := r.scheduler.PickNext()
		if tcb == nil {
			return nil
		}
		r.dispatch(ctx, tcb)
	}
}

// dispatch runs tcb until it yields, is preempted, exits or faults.
func (r *Runtime) dispatch(ctx context.Context, tcb *task.ControlBlock) {
	r.scheduler.OnSchedule(tcb)
	r.transition(ctx, tcb, task.Running, "dispatch")
	tcb.MarkStarted(r.clock.Micros())
	r.progress.Update(progress.Delta{Dispatched: 1})

	th := r.threads[tcb.ID]
	tr := th.switchTo()
	for {
		switch tr.kind {
		case trapSyscall:
			r.progress.Update(progress.Delta{Syscalls: 1})
			ret, action := r.syscalls.Dispatch(ctx, tcb, tr.num, tr.args)
			switch action {
			case syscall.ActionYield:
				th.pending = reply{ret: ret}
				r.requeue(ctx, tcb, "yield")
				r.progress.Update(progress.Delta{Yielded: 1})
				return
			case syscall.ActionExit:
				th.kill()
				r.reap(ctx, tcb, "exit")
				return
			}
			tr = th.resume(reply{ret: ret})
		case trapTick:
			th.pending = reply{}
			r.requeue(ctx, tcb, "timer")
			r.progress.Update(progress.Delta{Preempted: 1})
			return
		case trapLoad:
			data, err := tcb.Space.ReadUser(tr.va, tr.n)
			if err != nil {
				th.kill()
				r.fault(ctx, tcb, err)
				return
			}
			tr = th.resume(reply{data: data})
		case trapStore:
			if err := tcb.Space.WriteUser(tr.va, tr.data); err != nil {
				th.kill()
				r.fault(ctx, tcb, err)
				return
			}
			tr = th.resume(reply{})
		case trapReturn:
			tcb.ExitCode = 0
			r.reap(ctx, tcb, "return")
			return
		case trapPanic:
			r.fault(ctx, tcb, tr.err)
			return
		default:
			panic(fmt.Sprintf("stride: unknown trap %d from task %d", tr.kind, tcb.ID))
		}
	}
}

func (r *Runtime) requeue(ctx context.Context, tcb *task.ControlBlock, reason string) {
	r.transition(ctx, tcb, task.Ready, reason)
	r.scheduler.Enqueue(tcb)
}

func (r *Runtime) fault(ctx context.Context, tcb *task.ControlBlock, cause error) {
	r.logger.Warn("task fault", "task", tcb.ID, "name", tcb.Name, "error", cause)
	tcb.ExitCode = FaultExitCode
	r.progress.Update(progress.Delta{Faulted: 1})
	if r.dumper != nil {
		if _, err := r.dumper.Dump(ctx, tcb.ID, tcb.Space); err != nil {
			r.logger.Error("failed to dump faulted task", "task", tcb.ID, "error", err)
		}
	}
	r.reap(ctx, tcb, "fault")
}

// reap destroys an exited task: frames go back to the machine and the task
// leaves every table.
func (r *Runtime) reap(ctx context.Context, tcb *task.ControlBlock, reason string) {
	r.transition(ctx, tcb, task.Exited, reason)
	tcb.Space.Release()
	r.accounting.Remove(ctx, tcb.ID)
	_ = r.tasks.Delete(ctx, tcb.ID)
	delete(r.threads, tcb.ID)
	r.exits[tcb.ID] = tcb.ExitCode
	r.progress.Update(progress.Delta{Exited: 1})
	r.logger.Info("task exited", "task", tcb.ID, "name", tcb.Name, "code", tcb.ExitCode, "reason", reason)
}

// Close stops every loaded task and releases its memory.
func (r *Runtime) Close(ctx context.Context) {
	for id, th := range r.threads {
		if th.started {
			th.kill()
		}
		r.scheduler.Remove(id)
		if tcb, err := r.tasks.Load(ctx, id); err == nil {
			tcb.Space.Release()
			_ = r.tasks.Delete(ctx, id)
		}
		r.accounting.Remove(ctx, id)
		delete(r.threads, id)
	}
	if r.events != nil {
		r.events.Close()
	}
}

// Task returns the control block of a live task.
func (r *Runtime) Task(ctx context.Context, id int) (*task.ControlBlock, error) {
	tcb, err := r.tasks.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", id, err)
	}
	return tcb, nil
}

// Tasks lists live tasks ordered by id, optionally filtered by "Status" or
// "Name" parameters.
func (r *Runtime) Tasks(ctx context.Context, parameters ...*dao.Parameter) ([]*task.ControlBlock, error) {
	tasks, err := r.tasks.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// ExitCode returns the exit code of a reaped task.
func (r *Runtime) ExitCode(id int) (int, bool) {
	code, ok := r.exits[id]
	return code, ok
}

// TaskInfo reports what task_info would return for a live task.
func (r *Runtime) TaskInfo(ctx context.Context, id int) (*syscall.TaskInfoValue, error) {
	tcb, err := r.Task(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := r.accounting.Counts(ctx, id)
	if err != nil {
		return nil, err
	}
	info := &syscall.TaskInfoValue{Status: tcb.Status, SyscallTimes: counts}
	if now := r.clock.Micros(); tcb.Started && now > tcb.StartedAt {
		info.Time = (now - tcb.StartedAt) / 1000
	}
	return info, nil
}

// Progress returns a snapshot of the kernel counters.
func (r *Runtime) Progress() progress.Progress {
	return r.progress.Snapshot()
}

// OnProgress registers a callback invoked after every counter change.
func (r *Runtime) OnProgress(cb func(progress.Progress)) {
	r.progress.OnChange(cb)
}

// Dump writes the mapped memory of a live task to Config.DumpURL and
// returns the dump URL.
func (r *Runtime) Dump(ctx context.Context, id int) (string, error) {
	if r.dumper == nil {
		return "", ErrDumpDisabled
	}
	tcb, err := r.Task(ctx, id)
	if err != nil {
		return "", err
	}
	return r.dumper.Dump(ctx, id, tcb.Space)
}

func taskAttribute(tcb *task.ControlBlock, name string) (string, bool) {
	switch name {
	case "Status":
		return tcb.Status.String(), true
	case "Name":
		return tcb.Name, true
	}
	return "", false
}
