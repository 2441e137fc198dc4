// Package node provides materialized, immutable element buffers.
//
// Stateful stages (sorted, distinct) and parallel collection produce Nodes:
// either flat leaves backed by a slice or internal nodes concatenating two
// children in encounter order. A Node is built by a Builder, which is itself
// a sink, and may be shared read-only across goroutines once built.
package node

import (
	"github.com/kbukum/gostream/spliterator"
)

// Node is an immutable, possibly tree-shaped buffer of elements.
type Node[T any] interface {
	// Count returns the number of elements.
	Count() int64
	// ChildCount returns the number of children; zero for leaves.
	ChildCount() int
	// Child returns the i-th child.
	Child(i int) Node[T]
	// ForEach calls fn for every element in encounter order.
	ForEach(fn func(T))
	// CopyInto copies the elements into dst starting at offset.
	CopyInto(dst []T, offset int)
	// AsSlice returns the elements as a slice. Leaves return their backing
	// slice, which must not be modified.
	AsSlice() []T
	// Spliterator returns a spliterator over the elements.
	Spliterator() spliterator.Spliterator[T]
}

type leaf[T any] struct {
	items []T
}

// Of returns a leaf node backed by items. The node takes ownership of items.
func Of[T any](items []T) Node[T] {
	return &leaf[T]{items: items}
}

// Empty returns a node with no elements.
func Empty[T any]() Node[T] { return &leaf[T]{} }

func (l *leaf[T]) Count() int64                 { return int64(len(l.items)) }
func (l *leaf[T]) ChildCount() int              { return 0 }
func (l *leaf[T]) Child(int) Node[T]            { panic("node: leaf has no children") }
func (l *leaf[T]) AsSlice() []T                 { return l.items }
func (l *leaf[T]) CopyInto(dst []T, offset int) { copy(dst[offset:], l.items) }

func (l *leaf[T]) ForEach(fn func(T)) {
	for _, t := range l.items {
		fn(t)
	}
}

func (l *leaf[T]) Spliterator() spliterator.Spliterator[T] {
	return spliterator.OfSlice(l.items, spliterator.Immutable)
}

// conc is an internal node: left's elements followed by right's.
type conc[T any] struct {
	left, right Node[T]
	size        int64
}

// Conc returns a node concatenating left and right. An empty side is elided.
func Conc[T any](left, right Node[T]) Node[T] {
	switch {
	case left == nil || left.Count() == 0:
		if right == nil {
			return Empty[T]()
		}
		return right
	case right == nil || right.Count() == 0:
		return left
	}
	return &conc[T]{left: left, right: right, size: left.Count() + right.Count()}
}

func (c *conc[T]) Count() int64    { return c.size }
func (c *conc[T]) ChildCount() int { return 2 }

func (c *conc[T]) Child(i int) Node[T] {
	switch i {
	case 0:
		return c.left
	case 1:
		return c.right
	}
	panic("node: child index out of range")
}

func (c *conc[T]) ForEach(fn func(T)) {
	c.left.ForEach(fn)
	c.right.ForEach(fn)
}

func (c *conc[T]) CopyInto(dst []T, offset int) {
	c.left.CopyInto(dst, offset)
	c.right.CopyInto(dst, offset+int(c.left.Count()))
}

func (c *conc[T]) AsSlice() []T {
	out := make([]T, c.size)
	c.CopyInto(out, 0)
	return out
}

func (c *conc[T]) Spliterator() spliterator.Spliterator[T] {
	return &treeSpliterator[T]{cur: c}
}

// Flatten returns n as a single leaf.
func Flatten[T any](n Node[T]) Node[T] {
	if n.ChildCount() == 0 {
		return n
	}
	return Of(n.AsSlice())
}
