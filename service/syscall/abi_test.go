package syscall

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/stride/runtime/task"
)

func TestTaskInfoValue_Layout(t *testing.T) {
	info := &TaskInfoValue{Status: task.Running, Time: 42}
	info.SyscallTimes[0] = 1
	info.SyscallTimes[Yield] = 5
	info.SyscallTimes[499] = 9

	data := info.Encode()
	require.Len(t, data, TaskInfoSize)
	assert.Equal(t, byte(2), data[0])
	assert.Equal(t, []byte{0, 0, 0}, data[1:4])
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[4:]))
	assert.Equal(t, uint32(5), binary.LittleEndian.Uint32(data[4+4*124:]))
	assert.Equal(t, uint32(9), binary.LittleEndian.Uint32(data[2000:]))
	assert.Equal(t, []byte{0, 0, 0, 0}, data[2004:2008])
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(data[2008:]))

	decoded, err := DecodeTaskInfo(data)
	require.NoError(t, err)
	assert.Equal(t, info, decoded)

	_, err = DecodeTaskInfo(data[:100])
	assert.Error(t, err)
}

func TestTimeVal(t *testing.T) {
	tv := NewTimeVal(12_000_345)
	assert.Equal(t, TimeVal{Sec: 12, Usec: 345}, tv)
	data := tv.Encode()
	require.Len(t, data, TimeValSize)
	assert.Equal(t, uint64(12), binary.LittleEndian.Uint64(data))
	assert.Equal(t, uint64(345), binary.LittleEndian.Uint64(data[8:]))
}

func TestName(t *testing.T) {
	assert.Equal(t, "task_info", Name(TaskInfo))
	assert.Equal(t, "syscall_7", Name(7))
	assert.False(t, Known(7))
}
