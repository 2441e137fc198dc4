package spliterator

import (
	"math"
	"strings"
)

// Characteristics describe structural properties of a Spliterator and of the
// elements it delivers.
type Characteristics uint32

const (
	// Ordered: elements have a defined encounter order.
	Ordered Characteristics = 1 << iota
	// Distinct: no two delivered elements are equal.
	Distinct
	// Sorted: elements are delivered in their natural sort order.
	Sorted
	// Sized: EstimateSize is exact before traversal.
	Sized
	// Subsized: every spliterator produced by TrySplit is Sized.
	Subsized
	// Immutable: the element source cannot be structurally modified.
	Immutable
	// Concurrent: the element source may be modified concurrently without
	// external synchronization.
	Concurrent
)

var characteristicNames = []struct {
	c    Characteristics
	name string
}{
	{Ordered, "ORDERED"},
	{Distinct, "DISTINCT"},
	{Sorted, "SORTED"},
	{Sized, "SIZED"},
	{Subsized, "SUBSIZED"},
	{Immutable, "IMMUTABLE"},
	{Concurrent, "CONCURRENT"},
}

// Has reports whether all bits of x are set.
func (c Characteristics) Has(x Characteristics) bool { return c&x == x }

func (c Characteristics) String() string {
	var parts []string
	for _, cn := range characteristicNames {
		if c.Has(cn.c) {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}

// Unknown is the size reported by sources that cannot estimate it.
const Unknown = math.MaxInt64

// Spliterator traverses and partitions the elements of a source.
type Spliterator[T any] interface {
	// TryAdvance delivers the next element to action, if any, and reports
	// whether an element was delivered.
	TryAdvance(action func(T)) bool
	// ForEachRemaining delivers every remaining element to action.
	ForEachRemaining(action func(T))
	// TrySplit moves a part of the remaining elements to a new Spliterator
	// and returns it, or returns nil if the receiver cannot or should not
	// be split further.
	TrySplit() Spliterator[T]
	// EstimateSize returns the number of remaining elements, exact when the
	// spliterator is Sized, or Unknown.
	EstimateSize() int64
	// Characteristics returns the properties of this spliterator.
	Characteristics() Characteristics
}

// Releaser is implemented by spliterators that hold resources beyond their
// elements, such as the coroutine behind an iter.Seq. Release may be called
// more than once, and before the spliterator is exhausted.
type Releaser interface {
	Release()
}

// Release releases s if it is a Releaser.
func Release[T any](s Spliterator[T]) {
	if r, ok := s.(Releaser); ok {
		r.Release()
	}
}

// ExactSizeIfKnown returns s.EstimateSize() if s is Sized, or -1.
func ExactSizeIfKnown[T any](s Spliterator[T]) int64 {
	if s.Characteristics().Has(Sized) {
		return s.EstimateSize()
	}
	return -1
}

// Drain is the generic ForEachRemaining: it loops TryAdvance until the
// spliterator is exhausted.
func Drain[T any](s Spliterator[T], action func(T)) {
	for s.TryAdvance(action) {
	}
}

// Collect drains s into a slice.
func Collect[T any](s Spliterator[T]) []T {
	var out []T
	if n := ExactSizeIfKnown(s); n > 0 {
		out = make([]T, 0, n)
	}
	s.ForEachRemaining(func(t T) { out = append(out, t) })
	return out
}
