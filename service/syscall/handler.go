// Package syscall services user traps: it decodes the syscall number,
// counts it, applies the syscall policy and runs the handler against the
// calling task. Every failure reaches user space as -1.
package syscall

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/viant/stride/internal/clock"
	amm "github.com/viant/stride/model/mm"
	"github.com/viant/stride/policy"
	"github.com/viant/stride/runtime/task"
	"github.com/viant/stride/service/accounting"
	"github.com/viant/stride/tracing"
)

// Action tells the run loop what to do after a syscall returns.
type Action int

const (
	// ActionContinue resumes the calling task.
	ActionContinue Action = iota
	// ActionYield puts the calling task back into the ready set.
	ActionYield
	// ActionExit reaps the calling task.
	ActionExit
)

// MinUserPriority is the lowest priority set_priority accepts.
const MinUserPriority = 2

// StdOut is the only file descriptor write accepts.
const StdOut = 1

var (
	// ErrDenied is returned when the policy refuses a syscall.
	ErrDenied = errors.New("syscall: denied by policy")
	// ErrUnknown is returned for numbers without a handler.
	ErrUnknown = errors.New("syscall: unknown number")
	// ErrInvalidArgument covers arguments rejected before touching state.
	ErrInvalidArgument = errors.New("syscall: invalid argument")
)

// Handler services syscalls.
type Handler struct {
	clock      clock.Clock
	accounting *accounting.Table
	policy     *policy.Policy
	console    io.Writer
	logger     *slog.Logger
}

// New creates a handler. Without an accounting table the syscalls are not
// counted and task_info reports zero counters.
func New(opts ...Option) *Handler {
	h := &Handler{logger: slog.Default(), console: io.Discard}
	for _, opt := range opts {
		opt(h)
	}
	if h.clock == nil {
		h.clock = clock.NewSystem()
	}
	return h
}

// Dispatch services syscall num for tcb. The syscall is counted before
// anything else, including unknown and refused ones.
func (h *Handler) Dispatch(ctx context.Context, tcb *task.ControlBlock, num uint64, args [3]uint64) (int64, Action) {
	if h.accounting != nil {
		h.accounting.Increment(ctx, tcb.ID, num)
	}
	name := Name(num)
	ctx, span := tracing.StartSpan(ctx, "syscall."+name)
	span.WithInt("task.id", int64(tcb.ID)).WithInt("syscall.num", int64(num))

	ret, action, err := h.dispatch(ctx, tcb, num, name, args)
	tracing.EndSpan(span, err)
	switch {
	case errors.Is(err, ErrUnknown), errors.Is(err, ErrDenied):
		h.logger.Warn("syscall refused", "task", tcb.ID, "syscall", name, "error", err)
	case err != nil:
		h.logger.Debug("syscall failed", "task", tcb.ID, "syscall", name, "error", err)
	}
	return ret, action
}

func (h *Handler) dispatch(ctx context.Context, tcb *task.ControlBlock, num uint64, name string, args [3]uint64) (int64, Action, error) {
	if !Known(num) {
		return -1, ActionContinue, fmt.Errorf("%d: %w", num, ErrUnknown)
	}
	if num != Exit && !h.permit(ctx, name, args) {
		return -1, ActionContinue, fmt.Errorf("%s: %w", name, ErrDenied)
	}
	switch num {
	case Exit:
		tcb.ExitCode = int(int32(args[0]))
		return 0, ActionExit, nil
	case Yield:
		return 0, ActionYield, nil
	case GetPID:
		return int64(tcb.ID), ActionContinue, nil
	case SetPriority:
		return result(h.setPriority(tcb, int64(args[0])))
	case GetTime:
		return result(h.getTime(tcb, amm.VirtAddr(args[0])))
	case TaskInfo:
		return result(h.taskInfo(ctx, tcb, amm.VirtAddr(args[0])))
	case Sbrk:
		return result(h.sbrk(tcb, int32(args[0])))
	case Mmap:
		return result(0, tcb.Space.Map(amm.VirtAddr(args[0]), args[1], args[2]))
	case Munmap:
		return result(0, tcb.Space.Unmap(amm.VirtAddr(args[0]), args[1]))
	case Write:
		return result(h.write(tcb, args[0], amm.VirtAddr(args[1]), args[2]))
	}
	return -1, ActionContinue, fmt.Errorf("%d: %w", num, ErrUnknown)
}

func result(ret int64, err error) (int64, Action, error) {
	if err != nil {
		return -1, ActionContinue, err
	}
	return ret, ActionContinue, nil
}

func (h *Handler) permit(ctx context.Context, name string, args [3]uint64) bool {
	p := policy.FromContext(ctx)
	if p == nil {
		p = h.policy
	}
	return p.Permit(ctx, name, args[:])
}

func (h *Handler) setPriority(tcb *task.ControlBlock, prio int64) (int64, error) {
	if prio < MinUserPriority {
		return 0, fmt.Errorf("priority %d: %w", prio, ErrInvalidArgument)
	}
	tcb.Priority = int(prio)
	return prio, nil
}

func (h *Handler) getTime(tcb *task.ControlBlock, ts amm.VirtAddr) (int64, error) {
	tv := NewTimeVal(h.clock.Micros())
	if err := tcb.Space.WriteUser(ts, tv.Encode()); err != nil {
		return 0, err
	}
	return 0, nil
}

func (h *Handler) taskInfo(ctx context.Context, tcb *task.ControlBlock, ti amm.VirtAddr) (int64, error) {
	info := &TaskInfoValue{Status: tcb.Status}
	if h.accounting != nil {
		counts, err := h.accounting.Counts(ctx, tcb.ID)
		if err != nil {
			return 0, err
		}
		info.SyscallTimes = counts
	}
	if now := h.clock.Micros(); tcb.Started && now > tcb.StartedAt {
		info.Time = (now - tcb.StartedAt) / 1000
	}
	if err := tcb.Space.WriteUser(ti, info.Encode()); err != nil {
		return 0, err
	}
	return 0, nil
}

func (h *Handler) sbrk(tcb *task.ControlBlock, delta int32) (int64, error) {
	old := tcb.ProgramBreak
	brk, err := tcb.Space.ChangeBreak(tcb.HeapBottom, old, int64(delta))
	if err != nil {
		return 0, err
	}
	tcb.ProgramBreak = brk
	return int64(old), nil
}

func (h *Handler) write(tcb *task.ControlBlock, fd uint64, buf amm.VirtAddr, n uint64) (int64, error) {
	if fd != StdOut {
		return 0, fmt.Errorf("fd %d: %w", fd, ErrInvalidArgument)
	}
	if n > uint64(amm.UserLimit) {
		return 0, fmt.Errorf("length %d: %w", n, ErrInvalidArgument)
	}
	data, err := tcb.Space.ReadUser(buf, int(n))
	if err != nil {
		return 0, err
	}
	if _, err = h.console.Write(data); err != nil {
		return 0, fmt.Errorf("console: %w", err)
	}
	return int64(n), nil
}
