package mm

import "errors"

// Address space errors. Syscalls collapse all of them into -1; they exist so
// that callers and tests can tell the causes apart with errors.Is.
var (
	ErrMisaligned        = errors.New("mm: start address not page aligned")
	ErrInvalidPermission = errors.New("mm: invalid permission bits")
	ErrOutOfRange        = errors.New("mm: range outside user address space")
	ErrOverlap           = errors.New("mm: range overlaps an existing mapping")
	ErrNotMapped         = errors.New("mm: range not fully mapped")
	ErrOutOfMemory       = errors.New("mm: out of physical frames")
	ErrInvalidBreak      = errors.New("mm: invalid program break")
	ErrFault             = errors.New("mm: user memory fault")
)
