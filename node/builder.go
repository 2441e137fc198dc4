package node

import (
	"github.com/kbukum/gostream/errors"
)

// Builder accumulates elements pushed through the sink protocol into a Node.
// Begin with a known size preallocates exactly; with -1 the buffer grows on
// demand. A builder owns its buffer until Build is called.
type Builder[T any] struct {
	items    []T
	fixed    int64
	accepted int64
	building bool
}

// NewBuilder returns a builder. sizeHint preallocates capacity when >= 0.
func NewBuilder[T any](sizeHint int64) *Builder[T] {
	b := &Builder[T]{fixed: -1}
	if sizeHint > 0 {
		b.items = make([]T, 0, sizeHint)
	}
	return b
}

// Begin starts a traversal of size elements, or of unknown size when -1.
func (b *Builder[T]) Begin(size int64) {
	b.building = true
	b.fixed = size
	b.accepted = 0
	if size >= 0 && int64(cap(b.items)-len(b.items)) < size {
		grown := make([]T, len(b.items), int64(len(b.items))+size)
		copy(grown, b.items)
		b.items = grown
	}
}

// Accept appends t. A builder begun with an exact size rejects extra
// elements.
func (b *Builder[T]) Accept(t T) {
	if b.fixed >= 0 && b.accepted >= b.fixed {
		errors.Throw(errors.IllegalState("node builder: more elements than announced size"))
	}
	b.accepted++
	b.items = append(b.items, t)
}

// End finishes the traversal.
func (b *Builder[T]) End() {
	b.building = false
}

// CancellationRequested always returns false.
func (b *Builder[T]) CancellationRequested() bool { return false }

// Build returns the accumulated elements as a leaf node. The builder must
// not be used afterwards.
func (b *Builder[T]) Build() Node[T] {
	if b.building {
		errors.Throw(errors.IllegalState("node builder: build called before end"))
	}
	items := b.items
	b.items = nil
	return Of(items)
}
