package collector

import "strings"

// Characteristics are hints that let the engine evaluate a collector more
// cheaply.
type Characteristics uint8

const (
	// Concurrent means the accumulator may be called from several goroutines
	// on one shared accumulator.
	Concurrent Characteristics = 1 << iota
	// Unordered means the result does not depend on encounter order.
	Unordered
	// IdentityFinish means the finisher is the identity and may be skipped.
	IdentityFinish
)

// Has reports whether all bits of other are set.
func (c Characteristics) Has(other Characteristics) bool { return c&other == other }

func (c Characteristics) String() string {
	var names []string
	if c.Has(Concurrent) {
		names = append(names, "CONCURRENT")
	}
	if c.Has(Unordered) {
		names = append(names, "UNORDERED")
	}
	if c.Has(IdentityFinish) {
		names = append(names, "IDENTITY_FINISH")
	}
	return strings.Join(names, "|")
}

// Collector is an immutable description of a mutable reduction of T values
// through an accumulator A into a result R.
type Collector[T, A, R any] struct {
	supplier    func() A
	accumulator func(A, T)
	combiner    func(A, A) A
	finisher    func(A) R
	chars       Characteristics
	err         error
}

// Of creates a collector whose accumulator is the result. IdentityFinish is
// implied.
func Of[T, A any](supplier func() A, accumulator func(A, T), combiner func(A, A) A, chars ...Characteristics) Collector[T, A, A] {
	return Collector[T, A, A]{
		supplier:    supplier,
		accumulator: accumulator,
		combiner:    combiner,
		finisher:    identity[A],
		chars:       join(chars) | IdentityFinish,
	}
}

// OfFinished creates a collector with an explicit finisher.
func OfFinished[T, A, R any](supplier func() A, accumulator func(A, T), combiner func(A, A) A, finisher func(A) R, chars ...Characteristics) Collector[T, A, R] {
	return Collector[T, A, R]{
		supplier:    supplier,
		accumulator: accumulator,
		combiner:    combiner,
		finisher:    finisher,
		chars:       join(chars) &^ IdentityFinish,
	}
}

// Supplier returns the function creating a fresh accumulator.
func (c Collector[T, A, R]) Supplier() func() A { return c.supplier }

// Accumulator returns the function folding an element into an accumulator.
func (c Collector[T, A, R]) Accumulator() func(A, T) { return c.accumulator }

// Combiner returns the function merging two accumulators.
func (c Collector[T, A, R]) Combiner() func(A, A) A { return c.combiner }

// Finisher returns the function producing the result.
func (c Collector[T, A, R]) Finisher() func(A) R { return c.finisher }

// Characteristics returns the collector's characteristic set.
func (c Collector[T, A, R]) Characteristics() Characteristics { return c.chars }

// Has reports whether the collector declares every bit of ch.
func (c Collector[T, A, R]) Has(ch Characteristics) bool { return c.chars.Has(ch) }

// Err returns the error recorded while the collector was built, such as an
// out of range percentile. Terminal operations report it before traversal.
func (c Collector[T, A, R]) Err() error { return c.err }

// Finish applies the finisher, skipping it for IdentityFinish collectors.
func (c Collector[T, A, R]) Finish(a A) R {
	if c.chars.Has(IdentityFinish) {
		if r, ok := any(a).(R); ok {
			return r
		}
	}
	return c.finisher(a)
}

// Reduce accumulates items sequentially and finishes the result. It is the
// reference evaluation every parallel evaluation must agree with.
func (c Collector[T, A, R]) Reduce(items []T) R {
	a := c.supplier()
	for _, it := range items {
		c.accumulator(a, it)
	}
	return c.Finish(a)
}

func identity[A any](a A) A { return a }

func join(chars []Characteristics) Characteristics {
	var out Characteristics
	for _, ch := range chars {
		out |= ch
	}
	return out
}

func withErr[T, A, R any](c Collector[T, A, R], err error) Collector[T, A, R] {
	if c.err == nil {
		c.err = err
	}
	return c
}
