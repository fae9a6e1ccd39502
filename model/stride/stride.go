// Package stride implements the 8-bit wrap-around pass value used by the
// stride scheduler.
package stride

const (
	// BigStride is the numerator of every pass: a task of priority p
	// advances by BigStride/p each time it is scheduled.
	BigStride = 255
	// HalfRange is the largest gap between two live strides for which raw
	// ordering still holds.
	HalfRange = 127
)

// Stride is a per-task counter that wraps modulo 256.
type Stride uint8

// Compare orders a and b. When the raw gap between them exceeds HalfRange
// the larger raw value is taken to have wrapped and the order is inverted.
// Equal values compare equal; callers break ties themselves.
func Compare(a, b Stride) int {
	if a == b {
		return 0
	}
	lower, gap := a < b, b-a
	if !lower {
		gap = a - b
	}
	if gap > HalfRange {
		lower = !lower
	}
	if lower {
		return -1
	}
	return 1
}

// Less reports whether s runs before other.
func (s Stride) Less(other Stride) bool { return Compare(s, other) < 0 }

// Greater reports whether s runs after other.
func (s Stride) Greater(other Stride) bool { return Compare(s, other) > 0 }

// Advance returns s moved forward by pass, wrapping around.
func (s Stride) Advance(pass uint8) Stride { return s + Stride(pass) }

// Pass returns the increment for priority. Priority must be at least 1; it is
// validated when a task is created.
func Pass(priority int) uint8 {
	return uint8(BigStride / priority)
}
