package mm

import (
	"fmt"

	amm "github.com/viant/stride/model/mm"
)

// ChangeBreak moves the program break from brk by delta bytes. The heap
// starts at heapBottom, which is page aligned. It returns the new break; on
// error nothing changes.
func (s *AddressSpace) ChangeBreak(heapBottom, brk amm.VirtAddr, delta int64) (amm.VirtAddr, error) {
	next := int64(brk) + delta
	if next < int64(heapBottom) {
		return brk, fmt.Errorf("break %s%+d below heap bottom %s: %w", brk, delta, heapBottom, ErrInvalidBreak)
	}
	newBrk := amm.VirtAddr(next)
	if newBrk > amm.UserLimit {
		return brk, fmt.Errorf("break %s: %w", newBrk, ErrOutOfRange)
	}
	current, target := brk.Ceil(), newBrk.Ceil()
	switch {
	case target > current:
		grow := amm.Range{Start: current, End: target}
		if !s.free(grow) {
			return brk, fmt.Errorf("grow heap %s: %w", grow, ErrOverlap)
		}
		if available := s.machine.Available(); available < grow.Len() {
			return brk, fmt.Errorf("grow heap by %d pages, %d free: %w", grow.Len(), available, ErrOutOfMemory)
		}
		s.extendHeap(grow)
	case target < current:
		s.cut(amm.Range{Start: target, End: current}, func(a Area) bool { return a.Kind == KindHeap })
	}
	return newBrk, nil
}

func (s *AddressSpace) extendHeap(grow amm.Range) {
	perm := amm.PermRead | amm.PermWrite | amm.PermUser
	s.populate(grow, perm)
	for i := range s.areas {
		if a := &s.areas[i]; a.Kind == KindHeap && a.End == grow.Start {
			a.End = grow.End
			return
		}
	}
	s.insert(Area{Range: grow, Perm: perm, Kind: KindHeap})
}
