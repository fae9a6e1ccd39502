package idgen

import "github.com/google/uuid"

// NewFunc returns a new globally unique identifier as string. Tests may
// replace it with a deterministic generator.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier.
func New() string { return NewFunc() }

// Short returns an abbreviated identifier for log lines.
func Short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
