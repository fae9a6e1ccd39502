// Package memory provides in-process frame storage, a stack frame allocator
// and a map-backed page table for the address space.
package memory

import (
	"fmt"

	amm "github.com/viant/stride/model/mm"
	"github.com/viant/stride/service/mm"
)

// BasePPN is the first frame number handed out.
const BasePPN amm.PhysPageNum = 0x80000

// Memory is a fixed pool of physical frames.
type Memory struct {
	bytes    []byte
	current  amm.PhysPageNum
	end      amm.PhysPageNum
	recycled []amm.PhysPageNum
}

// New creates memory holding frames frames.
func New(frames int) *Memory {
	if frames < 0 {
		frames = 0
	}
	return &Memory{
		bytes:   make([]byte, frames*amm.PageSize),
		current: BasePPN,
		end:     BasePPN + amm.PhysPageNum(frames),
	}
}

// Alloc returns a zeroed frame. Recycled frames are reused first.
func (m *Memory) Alloc() (amm.PhysPageNum, bool) {
	var ppn amm.PhysPageNum
	switch {
	case len(m.recycled) > 0:
		ppn = m.recycled[len(m.recycled)-1]
		m.recycled = m.recycled[:len(m.recycled)-1]
	case m.current < m.end:
		ppn = m.current
		m.current++
	default:
		return 0, false
	}
	clear(m.Frame(ppn))
	return ppn, true
}

// Dealloc returns ppn to the pool. Freeing a frame that was never handed out
// or is already free panics.
func (m *Memory) Dealloc(ppn amm.PhysPageNum) {
	if ppn < BasePPN || ppn >= m.current {
		panic(fmt.Sprintf("memory: frame %#x was never allocated", uint64(ppn)))
	}
	for _, free := range m.recycled {
		if free == ppn {
			panic(fmt.Sprintf("memory: frame %#x freed twice", uint64(ppn)))
		}
	}
	m.recycled = append(m.recycled, ppn)
}

// Available returns how many frames Alloc can still hand out.
func (m *Memory) Available() int {
	return int(m.end-m.current) + len(m.recycled)
}

// Total returns the pool size in frames.
func (m *Memory) Total() int { return int(m.end - BasePPN) }

// Frame returns the bytes backing ppn.
func (m *Memory) Frame(ppn amm.PhysPageNum) []byte {
	if ppn < BasePPN || ppn >= m.end {
		panic(fmt.Sprintf("memory: frame %#x out of range", uint64(ppn)))
	}
	offset := int(ppn-BasePPN) * amm.PageSize
	return m.bytes[offset : offset+amm.PageSize : offset+amm.PageSize]
}

// NewPageTable returns an empty page table.
func (m *Memory) NewPageTable() mm.PageTable {
	return NewPageTable()
}
