package collector

import "iter"

// Mapping adapts a collector of U to one of T by transforming each element
// before it is accumulated.
func Mapping[T, U, A, R any](mapper func(T) U, downstream Collector[U, A, R]) Collector[T, A, R] {
	acc := downstream.accumulator
	return Collector[T, A, R]{
		supplier:    downstream.supplier,
		accumulator: func(a A, t T) { acc(a, mapper(t)) },
		combiner:    downstream.combiner,
		finisher:    downstream.finisher,
		chars:       downstream.chars,
		err:         downstream.err,
	}
}

// Filtering accumulates only the elements matching predicate.
func Filtering[T, A, R any](predicate func(T) bool, downstream Collector[T, A, R]) Collector[T, A, R] {
	acc := downstream.accumulator
	downstream.accumulator = func(a A, t T) {
		if predicate(t) {
			acc(a, t)
		}
	}
	return downstream
}

// FlatMapping accumulates every element of the sequence mapper returns.
func FlatMapping[T, U, A, R any](mapper func(T) iter.Seq[U], downstream Collector[U, A, R]) Collector[T, A, R] {
	acc := downstream.accumulator
	return Collector[T, A, R]{
		supplier: downstream.supplier,
		accumulator: func(a A, t T) {
			seq := mapper(t)
			if seq == nil {
				return
			}
			for u := range seq {
				acc(a, u)
			}
		},
		combiner: downstream.combiner,
		finisher: downstream.finisher,
		chars:    downstream.chars,
		err:      downstream.err,
	}
}

// CollectingAndThen applies finisher to the downstream result.
func CollectingAndThen[T, A, R, RR any](downstream Collector[T, A, R], finisher func(R) RR) Collector[T, A, RR] {
	inner := downstream.Finish
	return Collector[T, A, RR]{
		supplier:    downstream.supplier,
		accumulator: downstream.accumulator,
		combiner:    downstream.combiner,
		finisher:    func(a A) RR { return finisher(inner(a)) },
		chars:       downstream.chars &^ IdentityFinish,
		err:         downstream.err,
	}
}

type teeAcc[A1, A2 any] struct {
	left  A1
	right A2
}

// Teeing feeds every element to two collectors and merges their results.
func Teeing[T, A1, R1, A2, R2, R any](c1 Collector[T, A1, R1], c2 Collector[T, A2, R2], merger func(R1, R2) R) Collector[T, *teeAcc[A1, A2], R] {
	chars := c1.chars & c2.chars & (Concurrent | Unordered)
	out := Collector[T, *teeAcc[A1, A2], R]{
		supplier: func() *teeAcc[A1, A2] {
			return &teeAcc[A1, A2]{left: c1.supplier(), right: c2.supplier()}
		},
		accumulator: func(a *teeAcc[A1, A2], t T) {
			c1.accumulator(a.left, t)
			c2.accumulator(a.right, t)
		},
		combiner: func(a, b *teeAcc[A1, A2]) *teeAcc[A1, A2] {
			a.left = c1.combiner(a.left, b.left)
			a.right = c2.combiner(a.right, b.right)
			return a
		},
		finisher: func(a *teeAcc[A1, A2]) R {
			return merger(c1.Finish(a.left), c2.Finish(a.right))
		},
		chars: chars,
	}
	if c1.err != nil {
		return withErr(out, c1.err)
	}
	return withErr(out, c2.err)
}
