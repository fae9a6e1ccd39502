package stride

import (
	"runtime"

	amm "github.com/viant/stride/model/mm"
	"github.com/viant/stride/service/syscall"
)

// VirtAddr is a user virtual address.
type VirtAddr = amm.VirtAddr

// Program is the user code of a task.
type Program func(u *User)

// Layout is the initial address space of a task.
type Layout struct {
	ImageBase   VirtAddr
	ImageEnd    VirtAddr
	StackBottom VirtAddr
	StackTop    VirtAddr
	HeapBottom  VirtAddr
}

// User is a task's view of the kernel. Its methods trap into the kernel and
// must only be called from the task's own Program.
type User struct {
	thread *thread
	layout Layout
}

// Layout returns the initial address space layout.
func (u *User) Layout() Layout { return u.layout }

func (u *User) trap(t trap) reply {
	u.thread.traps <- t
	rep := <-u.thread.replies
	if rep.kill {
		runtime.Goexit()
	}
	return rep
}

// Syscall issues a raw syscall.
func (u *User) Syscall(num uint64, args ...uint64) int64 {
	t := trap{kind: trapSyscall, num: num}
	copy(t.args[:], args)
	return u.trap(t).ret
}

// Exit terminates the task; it never returns.
func (u *User) Exit(code int32) {
	u.Syscall(syscall.Exit, uint64(uint32(code)))
	panic("stride: exit returned")
}

// Yield gives up the CPU.
func (u *User) Yield() int64 { return u.Syscall(syscall.Yield) }

// Write copies n bytes at buf to file descriptor fd.
func (u *User) Write(fd uint64, buf VirtAddr, n uint64) int64 {
	return u.Syscall(syscall.Write, fd, uint64(buf), n)
}

// GetPID returns the task id.
func (u *User) GetPID() int64 { return u.Syscall(syscall.GetPID) }

// SetPriority changes the task priority; it must be at least 2.
func (u *User) SetPriority(prio int64) int64 {
	return u.Syscall(syscall.SetPriority, uint64(prio))
}

// GetTime stores a TimeVal at ts.
func (u *User) GetTime(ts VirtAddr) int64 {
	return u.Syscall(syscall.GetTime, uint64(ts), 0)
}

// TaskInfo stores a TaskInfo at ti.
func (u *User) TaskInfo(ti VirtAddr) int64 {
	return u.Syscall(syscall.TaskInfo, uint64(ti))
}

// Sbrk moves the program break by delta and returns the old break.
func (u *User) Sbrk(delta int32) int64 {
	return u.Syscall(syscall.Sbrk, uint64(uint32(delta)))
}

// Mmap maps [start, start+length) with port permissions (R=1, W=2, X=4).
func (u *User) Mmap(start VirtAddr, length, port uint64) int64 {
	return u.Syscall(syscall.Mmap, uint64(start), length, port)
}

// Munmap unmaps [start, start+length).
func (u *User) Munmap(start VirtAddr, length uint64) int64 {
	return u.Syscall(syscall.Munmap, uint64(start), length)
}

// Tick simulates a timer interrupt: the task is preempted and requeued.
func (u *User) Tick() {
	u.trap(trap{kind: trapTick})
}

// Load reads n bytes of user memory. A fault kills the task.
func (u *User) Load(va VirtAddr, n int) []byte {
	return u.trap(trap{kind: trapLoad, va: va, n: n}).data
}

// Store writes data to user memory. A fault kills the task.
func (u *User) Store(va VirtAddr, data []byte) {
	u.trap(trap{kind: trapStore, va: va, data: append([]byte(nil), data...)})
}
