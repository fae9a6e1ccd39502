package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Clock is the hardware timer as seen by the kernel: a monotonically
// increasing microsecond counter.
type Clock interface {
	Micros() uint64
}

// System counts microseconds since its creation using NowFunc.
type System struct {
	boot time.Time
}

// NewSystem returns a clock that starts at zero now.
func NewSystem() *System {
	return &System{boot: Now()}
}

// Micros returns microseconds elapsed since boot.
func (s *System) Micros() uint64 {
	elapsed := Now().Sub(s.boot)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed.Microseconds())
}

// Manual is a clock driven by the caller.
type Manual struct {
	Value uint64
}

// Micros returns the current manual value.
func (m *Manual) Micros() uint64 { return m.Value }

// Advance moves the clock forward.
func (m *Manual) Advance(d time.Duration) {
	m.Value += uint64(d.Microseconds())
}
