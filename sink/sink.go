// Package sink defines the push-based consumer protocol that drives stream
// evaluation.
//
// A traversal calls Begin once with the number of elements it is about to
// push (or -1 when unknown), then Accept once per element, then End once.
// Stages wrap their downstream sink in a sink of their own, so a pipeline
// becomes a single composed Sink whose calls ripple from the source to the
// terminal operation.
package sink

import "github.com/kbukum/gostream/errors"

// Sink consumes the elements of one traversal.
type Sink[T any] interface {
	// Begin resets the sink before elements are pushed. size is the exact
	// number of elements to come, or -1 if unknown.
	Begin(size int64)
	// Accept consumes one element.
	Accept(t T)
	// End signals that no more elements will be pushed.
	End()
	// CancellationRequested reports whether the sink wants no more
	// elements. Only short-circuiting stages ever return true.
	CancellationRequested() bool
}

// Chained is the base of a stage sink. It forwards Begin, End and
// CancellationRequested to Downstream; the embedding type supplies Accept.
type Chained[D any] struct {
	Downstream Sink[D]
}

// Begin forwards size downstream.
func (c *Chained[D]) Begin(size int64) { c.Downstream.Begin(size) }

// End forwards downstream.
func (c *Chained[D]) End() { c.Downstream.End() }

// CancellationRequested forwards downstream.
func (c *Chained[D]) CancellationRequested() bool { return c.Downstream.CancellationRequested() }

// funcSink calls a function for every element.
type funcSink[T any] struct {
	fn func(T)
}

// Func returns a sink that calls fn for every element and never requests
// cancellation.
func Func[T any](fn func(T)) Sink[T] { return funcSink[T]{fn: fn} }

func (funcSink[T]) Begin(int64)                 {}
func (s funcSink[T]) Accept(t T)                { s.fn(t) }
func (funcSink[T]) End()                        {}
func (funcSink[T]) CancellationRequested() bool { return false }

type state int

const (
	idle state = iota
	active
	ended
)

// checked enforces the sink protocol on the sink it wraps.
type checked[T any] struct {
	Chained[T]
	state state
}

// Checked wraps s so that protocol violations (Accept outside Begin/End, a
// second Begin before End, End without Begin) abort the evaluation with an
// ILLEGAL_STATE error instead of corrupting s.
func Checked[T any](s Sink[T]) Sink[T] {
	return &checked[T]{Chained: Chained[T]{Downstream: s}}
}

func (c *checked[T]) Begin(size int64) {
	if c.state == active {
		errors.Throw(errors.IllegalState("sink: begin called twice"))
	}
	c.state = active
	c.Downstream.Begin(size)
}

func (c *checked[T]) Accept(t T) {
	switch c.state {
	case idle:
		errors.Throw(errors.IllegalState("sink: accept called before begin"))
	case ended:
		errors.Throw(errors.IllegalState("sink: accept called after end"))
	}
	c.Downstream.Accept(t)
}

func (c *checked[T]) End() {
	if c.state != active {
		errors.Throw(errors.IllegalState("sink: end called without begin"))
	}
	c.state = ended
	c.Downstream.End()
}
