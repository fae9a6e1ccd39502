// Package mm defines page-granular address types shared by the address space,
// the page table and the syscall layer.
package mm

import "fmt"

const (
	// PageShift is log2 of the page size.
	PageShift = 12
	// PageSize is the size of a page and of a physical frame.
	PageSize = 1 << PageShift
	// UserLimit is the first address above the user half of an Sv39 address
	// space; user mappings must end at or below it.
	UserLimit = VirtAddr(1) << 38
)

// VirtAddr is a user virtual address.
type VirtAddr uint64

// VirtPageNum is a virtual page number.
type VirtPageNum uint64

// PhysPageNum is a physical frame number.
type PhysPageNum uint64

// Floor returns the page containing a.
func (a VirtAddr) Floor() VirtPageNum { return VirtPageNum(a >> PageShift) }

// Ceil returns the first page starting at or above a.
func (a VirtAddr) Ceil() VirtPageNum {
	return VirtPageNum((a + PageSize - 1) >> PageShift)
}

// Offset returns the byte offset of a within its page.
func (a VirtAddr) Offset() int { return int(a & (PageSize - 1)) }

// Aligned reports whether a sits on a page boundary.
func (a VirtAddr) Aligned() bool { return a.Offset() == 0 }

func (a VirtAddr) String() string { return fmt.Sprintf("%#x", uint64(a)) }

// Addr returns the first address of page p.
func (p VirtPageNum) Addr() VirtAddr { return VirtAddr(p) << PageShift }

// Range is a half-open range of virtual pages.
type Range struct {
	Start VirtPageNum
	End   VirtPageNum
}

// NewRange returns the page range covering [start, start+length).
func NewRange(start VirtAddr, length uint64) Range {
	return Range{Start: start.Floor(), End: (start + VirtAddr(length)).Ceil()}
}

// Len returns the number of pages in r.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return int(r.End - r.Start)
}

// Empty reports whether r holds no pages.
func (r Range) Empty() bool { return r.Len() == 0 }

// Contains reports whether page p lies in r.
func (r Range) Contains(p VirtPageNum) bool { return p >= r.Start && p < r.End }

// Overlaps reports whether r and other share at least one page.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Intersect returns the pages common to r and other, possibly empty.
func (r Range) Intersect(other Range) Range {
	out := Range{Start: max(r.Start, other.Start), End: min(r.End, other.End)}
	if out.End < out.Start {
		out.End = out.Start
	}
	return out
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Addr(), r.End.Addr())
}
