// Package exclusive provides a single-owner container for kernel globals.
// Unlike a mutex it never waits: on a single CPU a second acquisition can
// only come from the holder itself, which is a programming error.
package exclusive

import (
	"fmt"
	"sync/atomic"
)

// Cell guards a value of type T. The zero value is not usable, use New.
type Cell[T any] struct {
	name  string
	held  atomic.Bool
	value *T
}

// New wraps value in a Cell. The name shows up in the panic message.
func New[T any](name string, value *T) *Cell[T] {
	return &Cell[T]{name: name, value: value}
}

// With runs fn with exclusive access to the guarded value. It panics when the
// cell is already held.
func (c *Cell[T]) With(fn func(v *T)) {
	if !c.held.CompareAndSwap(false, true) {
		panic(fmt.Sprintf("exclusive: reentrant access to %s", c.name))
	}
	defer c.held.Store(false)
	fn(c.value)
}

// Held reports whether the cell is currently acquired.
func (c *Cell[T]) Held() bool {
	return c.held.Load()
}
