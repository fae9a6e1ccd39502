package syscall

import "strconv"

// Syscall numbers follow the RISC-V Linux numbering used by the user
// library.
const (
	Write       uint64 = 64
	Exit        uint64 = 93
	Yield       uint64 = 124
	SetPriority uint64 = 140
	GetTime     uint64 = 169
	GetPID      uint64 = 172
	Sbrk        uint64 = 214
	Munmap      uint64 = 215
	Mmap        uint64 = 222
	TaskInfo    uint64 = 410
)

var names = map[uint64]string{
	Write:       "write",
	Exit:        "exit",
	Yield:       "yield",
	SetPriority: "set_priority",
	GetTime:     "get_time",
	GetPID:      "getpid",
	Sbrk:        "sbrk",
	Munmap:      "munmap",
	Mmap:        "mmap",
	TaskInfo:    "task_info",
}

// Name returns the syscall name, or "syscall_<num>" for unknown numbers.
func Name(num uint64) string {
	if name, ok := names[num]; ok {
		return name
	}
	return "syscall_" + strconv.FormatUint(num, 10)
}

// Known reports whether num is serviced.
func Known(num uint64) bool {
	_, ok := names[num]
	return ok
}
