package mm

import (
	amm "github.com/viant/stride/model/mm"
)

// Entry is a resolved page-table entry.
type Entry struct {
	PPN   amm.PhysPageNum
	Flags amm.Permission
}

// FrameAllocator hands out physical frames.
type FrameAllocator interface {
	// Alloc returns a zeroed frame, or false when memory is exhausted.
	Alloc() (amm.PhysPageNum, bool)
	// Dealloc returns a frame to the allocator.
	Dealloc(ppn amm.PhysPageNum)
	// Available returns the number of frames Alloc can still hand out.
	Available() int
}

// PageTable maps virtual pages of one address space to frames.
type PageTable interface {
	Map(vpn amm.VirtPageNum, ppn amm.PhysPageNum, flags amm.Permission)
	Unmap(vpn amm.VirtPageNum)
	Translate(vpn amm.VirtPageNum) (Entry, bool)
}

// PhysicalMemory exposes the bytes of a frame.
type PhysicalMemory interface {
	// Frame returns the PageSize bytes backing ppn.
	Frame(ppn amm.PhysPageNum) []byte
}

// Machine bundles the collaborators an address space needs.
type Machine interface {
	FrameAllocator
	PhysicalMemory
	NewPageTable() PageTable
}
