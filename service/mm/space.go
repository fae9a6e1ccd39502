package mm

import (
	"fmt"
	"sort"

	amm "github.com/viant/stride/model/mm"
)

// AddressSpace is the set of areas owned by one task together with the page
// table backing them. It is not safe for concurrent use; the kernel touches a
// task's address space only from the single kernel context.
type AddressSpace struct {
	machine Machine
	table   PageTable
	areas   []Area
}

// New creates an empty address space on machine.
func New(machine Machine) *AddressSpace {
	return &AddressSpace{machine: machine, table: machine.NewPageTable()}
}

// Areas returns a copy of the areas ordered by start page.
func (s *AddressSpace) Areas() []Area {
	return append([]Area(nil), s.areas...)
}

// FrameCount returns the number of frames the areas hold.
func (s *AddressSpace) FrameCount() int {
	total := 0
	for _, a := range s.areas {
		total += a.Len()
	}
	return total
}

// Translate resolves a virtual page through the page table.
func (s *AddressSpace) Translate(vpn amm.VirtPageNum) (Entry, bool) {
	return s.table.Translate(vpn)
}

// Map services mmap: it maps [start, start+length) with the permissions in
// port plus user access. A zero length is a successful no-op. Nothing changes
// unless the call succeeds.
func (s *AddressSpace) Map(start amm.VirtAddr, length uint64, port uint64) error {
	if length == 0 {
		return nil
	}
	if !start.Aligned() {
		return fmt.Errorf("mmap %s: %w", start, ErrMisaligned)
	}
	if !amm.ValidPort(port) {
		return fmt.Errorf("mmap port %#x: %w", port, ErrInvalidPermission)
	}
	if err := checkRange(start, length); err != nil {
		return fmt.Errorf("mmap %s+%#x: %w", start, length, err)
	}
	return s.MapArea(Area{
		Range: amm.NewRange(start, length),
		Perm:  amm.FromPort(port) | amm.PermUser,
		Kind:  KindMapped,
	})
}

// MapArea maps every page of area to a fresh zeroed frame and records it.
// It fails without side effects when the range is taken or memory is short.
func (s *AddressSpace) MapArea(area Area) error {
	if area.Empty() {
		return nil
	}
	if area.End.Addr() > amm.UserLimit || area.End < area.Start {
		return fmt.Errorf("map %s: %w", area.Range, ErrOutOfRange)
	}
	if !s.free(area.Range) {
		return fmt.Errorf("map %s: %w", area.Range, ErrOverlap)
	}
	if available := s.machine.Available(); available < area.Len() {
		return fmt.Errorf("map %s needs %d frames, %d free: %w", area.Range, area.Len(), available, ErrOutOfMemory)
	}
	s.populate(area.Range, area.Perm)
	s.insert(area)
	return nil
}

// Unmap services munmap: every page in [start, start+length) must be mapped.
// Areas partially covered are shrunk or split. A zero length is a successful
// no-op.
func (s *AddressSpace) Unmap(start amm.VirtAddr, length uint64) error {
	if length == 0 {
		return nil
	}
	if !start.Aligned() {
		return fmt.Errorf("munmap %s: %w", start, ErrMisaligned)
	}
	if err := checkRange(start, length); err != nil {
		return fmt.Errorf("munmap %s+%#x: %w", start, length, err)
	}
	r := amm.NewRange(start, length)
	if !s.covered(r) {
		return fmt.Errorf("munmap %s: %w", r, ErrNotMapped)
	}
	s.cut(r, func(Area) bool { return true })
	return nil
}

// Release unmaps every area and returns all frames. It is safe to call more
// than once.
func (s *AddressSpace) Release() {
	for _, a := range s.areas {
		s.depopulate(a.Range)
	}
	s.areas = nil
}

func checkRange(start amm.VirtAddr, length uint64) error {
	end := start + amm.VirtAddr(length)
	if end < start || end > amm.UserLimit {
		return ErrOutOfRange
	}
	return nil
}

func (s *AddressSpace) free(r amm.Range) bool {
	for _, a := range s.areas {
		if a.Overlaps(r) {
			return false
		}
	}
	return true
}

func (s *AddressSpace) covered(r amm.Range) bool {
	pages := 0
	for _, a := range s.areas {
		pages += a.Intersect(r).Len()
	}
	return pages == r.Len()
}

func (s *AddressSpace) insert(area Area) {
	i := sort.Search(len(s.areas), func(i int) bool { return s.areas[i].Start >= area.Start })
	s.areas = append(s.areas, Area{})
	copy(s.areas[i+1:], s.areas[i:])
	s.areas[i] = area
}

// cut removes the pages of r from every matching area.
func (s *AddressSpace) cut(r amm.Range, match func(Area) bool) {
	kept := make([]Area, 0, len(s.areas)+1)
	for _, a := range s.areas {
		inter := a.Intersect(r)
		if inter.Empty() || !match(a) {
			kept = append(kept, a)
			continue
		}
		s.depopulate(inter)
		kept = append(kept, a.without(inter)...)
	}
	s.areas = kept
}

func (s *AddressSpace) populate(r amm.Range, perm amm.Permission) {
	for vpn := r.Start; vpn < r.End; vpn++ {
		ppn, ok := s.machine.Alloc()
		if !ok {
			panic(fmt.Sprintf("mm: frame allocation failed after availability check at %s", vpn.Addr()))
		}
		s.table.Map(vpn, ppn, perm|amm.PermValid)
	}
}

func (s *AddressSpace) depopulate(r amm.Range) {
	for vpn := r.Start; vpn < r.End; vpn++ {
		entry, ok := s.table.Translate(vpn)
		if !ok {
			panic(fmt.Sprintf("mm: area page %s has no page table entry", vpn.Addr()))
		}
		s.table.Unmap(vpn)
		s.machine.Dealloc(entry.PPN)
	}
}

// Page returns the frame bytes backing vpn, or false when vpn is not mapped.
func (s *AddressSpace) Page(vpn amm.VirtPageNum) ([]byte, bool) {
	entry, ok := s.table.Translate(vpn)
	if !ok {
		return nil, false
	}
	return s.machine.Frame(entry.PPN), true
}
