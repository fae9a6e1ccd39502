package mm

import (
	"fmt"

	amm "github.com/viant/stride/model/mm"
)

// TranslatedByteBuffer resolves the user range [va, va+n) into one byte slice
// per physical page it touches, in address order. Every page must be mapped
// with PermUser and need; the slices alias physical memory.
func (s *AddressSpace) TranslatedByteBuffer(va amm.VirtAddr, n int, need amm.Permission) ([][]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative length %d: %w", n, ErrFault)
	}
	end := va + amm.VirtAddr(n)
	if end < va || end > amm.UserLimit {
		return nil, fmt.Errorf("user range %s+%d: %w", va, n, ErrFault)
	}
	var segments [][]byte
	for cursor := va; cursor < end; {
		entry, ok := s.table.Translate(cursor.Floor())
		if !ok || !entry.Flags.Has(amm.PermValid|amm.PermUser|need) {
			return nil, fmt.Errorf("user page %s (%s): %w", cursor.Floor().Addr(), need, ErrFault)
		}
		frame := s.machine.Frame(entry.PPN)
		offset := cursor.Offset()
		take := min(amm.PageSize-offset, int(end-cursor))
		segments = append(segments, frame[offset:offset+take])
		cursor += amm.VirtAddr(take)
	}
	return segments, nil
}

// WriteUser copies data into user memory at va. The whole range is resolved
// before the first byte is written, so a fault leaves memory untouched.
func (s *AddressSpace) WriteUser(va amm.VirtAddr, data []byte) error {
	segments, err := s.TranslatedByteBuffer(va, len(data), amm.PermWrite)
	if err != nil {
		return err
	}
	for _, segment := range segments {
		data = data[copy(segment, data):]
	}
	return nil
}

// ReadUser copies n bytes of user memory starting at va.
func (s *AddressSpace) ReadUser(va amm.VirtAddr, n int) ([]byte, error) {
	segments, err := s.TranslatedByteBuffer(va, n, amm.PermRead)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, n)
	for _, segment := range segments {
		out = append(out, segment...)
	}
	return out, nil
}
