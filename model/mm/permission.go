package mm

import "strings"

// Permission holds page-table style flag bits.
type Permission uint8

const (
	PermValid Permission = 1 << iota
	PermRead
	PermWrite
	PermExecute
	PermUser
)

// PortMask covers the bits accepted from user space in an mmap port:
// R=1, W=2, X=4.
const PortMask = 0x7

// FromPort converts a user mmap port into permission bits. It does not add
// PermUser; the address space does that for every user mapping.
func FromPort(port uint64) Permission {
	return Permission(port&PortMask) << 1
}

// ValidPort reports whether port requests at least one access bit and no
// unknown bits.
func ValidPort(port uint64) bool {
	return port&^PortMask == 0 && port&PortMask != 0
}

// Has reports whether every bit of flag is set.
func (p Permission) Has(flag Permission) bool { return p&flag == flag }

func (p Permission) String() string {
	var b strings.Builder
	for _, f := range []struct {
		flag Permission
		char byte
	}{{PermValid, 'V'}, {PermRead, 'R'}, {PermWrite, 'W'}, {PermExecute, 'X'}, {PermUser, 'U'}} {
		if p.Has(f.flag) {
			b.WriteByte(f.char)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
