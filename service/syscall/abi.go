package syscall

import (
	"encoding/binary"
	"fmt"

	"github.com/viant/stride/runtime/task"
	"github.com/viant/stride/service/accounting"
)

const (
	// TimeValSize is the size of TimeVal in user memory.
	TimeValSize = 16
	// TaskInfoSize is the size of TaskInfo in user memory.
	TaskInfoSize = 2016

	taskInfoCountsOffset = 4
	taskInfoTimeOffset   = 2008
)

// TimeVal is the user-visible time value.
type TimeVal struct {
	Sec  uint64
	Usec uint64
}

// NewTimeVal splits a microsecond clock reading.
func NewTimeVal(micros uint64) TimeVal {
	return TimeVal{Sec: micros / 1_000_000, Usec: micros % 1_000_000}
}

// Encode returns the little-endian user layout.
func (t TimeVal) Encode() []byte {
	buf := make([]byte, TimeValSize)
	binary.LittleEndian.PutUint64(buf, t.Sec)
	binary.LittleEndian.PutUint64(buf[8:], t.Usec)
	return buf
}

// DecodeTimeVal reads the user layout.
func DecodeTimeVal(data []byte) (TimeVal, error) {
	if len(data) < TimeValSize {
		return TimeVal{}, fmt.Errorf("time value needs %d bytes, got %d", TimeValSize, len(data))
	}
	return TimeVal{
		Sec:  binary.LittleEndian.Uint64(data),
		Usec: binary.LittleEndian.Uint64(data[8:]),
	}, nil
}

// TaskInfoValue is the user-visible task_info result. Time is in
// milliseconds since the task first ran.
type TaskInfoValue struct {
	Status       task.Status
	SyscallTimes accounting.Counts
	Time         uint64
}

// Encode returns the little-endian user layout: status byte, 3 bytes of
// padding, the counters, 4 bytes of padding, then time.
func (t *TaskInfoValue) Encode() []byte {
	buf := make([]byte, TaskInfoSize)
	buf[0] = byte(t.Status)
	for i, count := range t.SyscallTimes {
		binary.LittleEndian.PutUint32(buf[taskInfoCountsOffset+4*i:], count)
	}
	binary.LittleEndian.PutUint64(buf[taskInfoTimeOffset:], t.Time)
	return buf
}

// DecodeTaskInfo reads the user layout.
func DecodeTaskInfo(data []byte) (*TaskInfoValue, error) {
	if len(data) < TaskInfoSize {
		return nil, fmt.Errorf("task info needs %d bytes, got %d", TaskInfoSize, len(data))
	}
	ret := &TaskInfoValue{Status: task.Status(data[0])}
	for i := range ret.SyscallTimes {
		ret.SyscallTimes[i] = binary.LittleEndian.Uint32(data[taskInfoCountsOffset+4*i:])
	}
	ret.Time = binary.LittleEndian.Uint64(data[taskInfoTimeOffset:])
	return ret, nil
}
