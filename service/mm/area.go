package mm

import (
	"fmt"

	amm "github.com/viant/stride/model/mm"
)

// Kind tells what an area was created for.
type Kind uint8

const (
	KindImage Kind = iota
	KindStack
	KindHeap
	KindMapped
)

var kindNames = [...]string{"image", "stack", "heap", "mapped"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Area is a contiguous, permission-tagged run of mapped pages.
type Area struct {
	amm.Range
	Perm amm.Permission
	Kind Kind
}

func (a Area) String() string {
	return fmt.Sprintf("%s %s %s", a.Kind, a.Range, a.Perm)
}

// without returns the parts of a that remain after removing cut: zero, one
// or two areas.
func (a Area) without(cut amm.Range) []Area {
	var rest []Area
	if cut.Start > a.Start {
		left := a
		left.End = cut.Start
		rest = append(rest, left)
	}
	if cut.End < a.End {
		right := a
		right.Start = cut.End
		rest = append(rest, right)
	}
	return rest
}
