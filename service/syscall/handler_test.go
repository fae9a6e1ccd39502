package syscall

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/stride/internal/clock"
	amm "github.com/viant/stride/model/mm"
	"github.com/viant/stride/policy"
	"github.com/viant/stride/runtime/task"
	"github.com/viant/stride/service/accounting"
	"github.com/viant/stride/service/mm"
	"github.com/viant/stride/service/mm/memory"
)

const (
	userPage = amm.VirtAddr(0x10000)
	heap     = amm.VirtAddr(0x40000)
)

type fixture struct {
	handler *Handler
	tcb     *task.ControlBlock
	clock   *clock.Manual
	table   *accounting.Table
	console *bytes.Buffer
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	space := mm.New(memory.New(16))
	require.NoError(t, space.Map(userPage, amm.PageSize, 3))
	tcb, err := task.New(7, "test", 16, space)
	require.NoError(t, err)
	tcb.HeapBottom, tcb.ProgramBreak = heap, heap
	tcb.Transition(task.Ready)
	tcb.Transition(task.Running)

	f := &fixture{tcb: tcb, clock: &clock.Manual{}, table: accounting.New(), console: &bytes.Buffer{}}
	f.table.Register(context.Background(), tcb.ID)
	opts = append([]Option{WithClock(f.clock), WithAccounting(f.table), WithConsole(f.console)}, opts...)
	f.handler = New(opts...)
	return f
}

func (f *fixture) call(num uint64, args ...uint64) (int64, Action) {
	var a [3]uint64
	copy(a[:], args)
	return f.handler.Dispatch(context.Background(), f.tcb, num, a)
}

func TestHandler_GetTime(t *testing.T) {
	f := newFixture(t)
	f.clock.Value = 3_250_000

	ret, action := f.call(GetTime, uint64(userPage+8), 0)
	assert.Equal(t, int64(0), ret)
	assert.Equal(t, ActionContinue, action)

	data, err := f.tcb.Space.ReadUser(userPage+8, TimeValSize)
	require.NoError(t, err)
	tv, err := DecodeTimeVal(data)
	require.NoError(t, err)
	assert.Equal(t, TimeVal{Sec: 3, Usec: 250_000}, tv)

	ret, _ = f.call(GetTime, uint64(userPage+amm.PageSize-8), 0)
	assert.Equal(t, int64(-1), ret, "tail of the value falls on an unmapped page")
	ret, _ = f.call(GetTime, 0, 0)
	assert.Equal(t, int64(-1), ret)
}

func TestHandler_TaskInfo(t *testing.T) {
	f := newFixture(t)
	f.tcb.MarkStarted(1_000_000)
	for i := 0; i < 3; i++ {
		f.call(Yield)
	}
	f.call(GetTime, uint64(userPage), 0)
	f.clock.Value = 1_000_000 + uint64((1500 * time.Millisecond).Microseconds())

	va := userPage + amm.PageSize - 100
	ret, _ := f.call(TaskInfo, uint64(va))
	require.Equal(t, int64(-1), ret, "the value runs past the mapped page")

	require.NoError(t, f.tcb.Space.Map(userPage+amm.PageSize, amm.PageSize, 3))
	ret, _ = f.call(TaskInfo, uint64(va))
	require.Equal(t, int64(0), ret)

	data, err := f.tcb.Space.ReadUser(va, TaskInfoSize)
	require.NoError(t, err)
	info, err := DecodeTaskInfo(data)
	require.NoError(t, err)
	assert.Equal(t, task.Running, info.Status)
	assert.Equal(t, uint32(3), info.SyscallTimes[Yield])
	assert.Equal(t, uint32(1), info.SyscallTimes[GetTime])
	assert.Equal(t, uint32(2), info.SyscallTimes[TaskInfo], "both task_info calls are counted")
	assert.Equal(t, uint64(1500), info.Time)
}

func TestHandler_Memory(t *testing.T) {
	var testCases = []struct {
		description string
		num         uint64
		args        []uint64
		expect      int64
	}{
		{description: "mmap", num: Mmap, args: []uint64{0x20000, 4096, 3}, expect: 0},
		{description: "mmap misaligned", num: Mmap, args: []uint64{0x20001, 4096, 3}, expect: -1},
		{description: "mmap bad port", num: Mmap, args: []uint64{0x20000, 4096, 0}, expect: -1},
		{description: "mmap overlap", num: Mmap, args: []uint64{uint64(userPage), 4096, 1}, expect: -1},
		{description: "mmap zero length", num: Mmap, args: []uint64{0x20001, 0, 0}, expect: 0},
		{description: "munmap", num: Munmap, args: []uint64{uint64(userPage), 4096}, expect: 0},
		{description: "munmap unmapped", num: Munmap, args: []uint64{0x30000, 4096}, expect: -1},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			f := newFixture(t)
			ret, action := f.call(testCase.num, testCase.args...)
			assert.Equal(t, testCase.expect, ret)
			assert.Equal(t, ActionContinue, action)
		})
	}
}

func TestHandler_Sbrk(t *testing.T) {
	f := newFixture(t)
	ret, _ := f.call(Sbrk, 100)
	assert.Equal(t, int64(heap), ret)
	assert.Equal(t, heap+100, f.tcb.ProgramBreak)

	negative := int32(-200)
	ret, _ = f.call(Sbrk, uint64(uint32(negative)))
	assert.Equal(t, int64(-1), ret)
	assert.Equal(t, heap+100, f.tcb.ProgramBreak)

	shrink := int32(-100)
	ret, _ = f.call(Sbrk, uint64(uint32(shrink)))
	assert.Equal(t, int64(heap+100), ret)
	assert.Equal(t, heap, f.tcb.ProgramBreak)
}

func TestHandler_Control(t *testing.T) {
	f := newFixture(t)

	ret, action := f.call(Yield)
	assert.Equal(t, int64(0), ret)
	assert.Equal(t, ActionYield, action)

	ret, _ = f.call(GetPID)
	assert.Equal(t, int64(7), ret)

	ret, _ = f.call(SetPriority, 1)
	assert.Equal(t, int64(-1), ret)
	ret, _ = f.call(SetPriority, 5)
	assert.Equal(t, int64(5), ret)
	assert.Equal(t, 5, f.tcb.Priority)

	ret, _ = f.call(999)
	assert.Equal(t, int64(-1), ret)

	code := int32(-3)
	_, action = f.call(Exit, uint64(uint32(code)))
	assert.Equal(t, ActionExit, action)
	assert.Equal(t, -3, f.tcb.ExitCode)

	counts, err := f.table.Counts(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), counts[Yield])
	assert.Equal(t, uint32(2), counts[SetPriority])
	assert.Equal(t, uint32(1), counts[Exit])
}

func TestHandler_Write(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tcb.Space.WriteUser(userPage, []byte("hello\n")))

	ret, _ := f.call(Write, StdOut, uint64(userPage), 6)
	assert.Equal(t, int64(6), ret)
	assert.Equal(t, "hello\n", f.console.String())

	ret, _ = f.call(Write, 2, uint64(userPage), 6)
	assert.Equal(t, int64(-1), ret)
	ret, _ = f.call(Write, StdOut, 0x90000, 6)
	assert.Equal(t, int64(-1), ret)
}

func TestHandler_Policy(t *testing.T) {
	f := newFixture(t, WithPolicy(&policy.Policy{BlockList: []string{"mmap"}}))
	ret, _ := f.call(Mmap, 0x20000, 4096, 3)
	assert.Equal(t, int64(-1), ret)
	ret, _ = f.call(GetPID)
	assert.Equal(t, int64(7), ret)

	deny := newFixture(t, WithPolicy(&policy.Policy{Mode: policy.ModeDeny}))
	ret, _ = deny.call(Yield)
	assert.Equal(t, int64(-1), ret)
	_, action := deny.call(Exit, 0)
	assert.Equal(t, ActionExit, action, "exit is never refused")

	ctx := policy.WithPolicy(context.Background(), &policy.Policy{Mode: policy.ModeDeny})
	ret, _ = f.handler.Dispatch(ctx, f.tcb, GetPID, [3]uint64{})
	assert.Equal(t, int64(-1), ret, "context policy takes precedence")
}
