package stream

import (
	"github.com/kbukum/gostream/errors"
	"github.com/kbukum/gostream/sink"
	"github.com/kbukum/gostream/spliterator"
)

// chain appends a stateless stage that turns a Sink[T] into a Sink[U].
func chain[U, T any](up *Stream[U], name string, op opFlags, wrap func(sink.Sink[T]) sink.Sink[U]) *Stream[T] {
	st := up.st.push(name, op, false)
	return &Stream[T]{
		st: st,
		plan: func(ev *evaluation) segment[T] {
			return &stagedSegment[U, T]{inner: up.plan(ev), wrap: wrap, sized: st.combined().Has(FlagSized)}
		},
	}
}

var (
	mapFlags     = opFlags{clear: FlagSorted | FlagDistinct}
	filterFlags  = opFlags{clear: FlagSized}
	flatMapFlags = opFlags{clear: FlagSorted | FlagDistinct | FlagSized}
)

type filterSink[T any] struct {
	sink.Chained[T]
	pred func(T) bool
}

func (s *filterSink[T]) Begin(int64) { s.Downstream.Begin(-1) }

func (s *filterSink[T]) Accept(t T) {
	if s.pred(t) {
		s.Downstream.Accept(t)
	}
}

// Filter keeps the elements matching pred.
func Filter[T any](s *Stream[T], pred func(T) bool) *Stream[T] {
	return chain(s, "filter", filterFlags, func(down sink.Sink[T]) sink.Sink[T] {
		return &filterSink[T]{Chained: sink.Chained[T]{Downstream: down}, pred: pred}
	})
}

type mapSink[T, R any] struct {
	sink.Chained[R]
	fn func(T) R
}

func (s *mapSink[T, R]) Accept(t T) { s.Downstream.Accept(s.fn(t)) }

// Map transforms each element with fn.
func Map[T, R any](s *Stream[T], fn func(T) R) *Stream[R] {
	return chain(s, "map", mapFlags, func(down sink.Sink[R]) sink.Sink[T] {
		return &mapSink[T, R]{Chained: sink.Chained[R]{Downstream: down}, fn: fn}
	})
}

// TryMap transforms each element with fn. The first error returned by fn
// fails the evaluation with CLOSURE_FAILED.
func TryMap[T, R any](s *Stream[T], fn func(T) (R, error)) *Stream[R] {
	return Map(s, func(t T) R {
		r, err := fn(t)
		if err != nil {
			errors.Throw(errors.ClosureFailed("map", err))
		}
		return r
	})
}

// Peek calls fn for each element as it flows past, in the order and on the
// goroutine the element is processed.
func Peek[T any](s *Stream[T], fn func(T)) *Stream[T] {
	return chain(s, "peek", opFlags{}, func(down sink.Sink[T]) sink.Sink[T] {
		return &mapSink[T, T]{Chained: sink.Chained[T]{Downstream: down}, fn: func(t T) T {
			fn(t)
			return t
		}}
	})
}

type mapMultiSink[T, R any] struct {
	sink.Chained[R]
	fn   func(T, func(R))
	emit func(R)
}

func (s *mapMultiSink[T, R]) Begin(int64) { s.Downstream.Begin(-1) }

func (s *mapMultiSink[T, R]) Accept(t T) { s.fn(t, s.emit) }

// MapMulti replaces each element with the values fn passes to emit.
func MapMulti[T, R any](s *Stream[T], fn func(t T, emit func(R))) *Stream[R] {
	return chain(s, "mapMulti", flatMapFlags, func(down sink.Sink[R]) sink.Sink[T] {
		return &mapMultiSink[T, R]{Chained: sink.Chained[R]{Downstream: down}, fn: fn, emit: down.Accept}
	})
}

// FlatMapSlice replaces each element with the elements of fn's result.
// Expansion stops early once a downstream stage is satisfied.
func FlatMapSlice[T, R any](s *Stream[T], fn func(T) []R) *Stream[R] {
	return chain(s, "flatMap", flatMapFlags, func(down sink.Sink[R]) sink.Sink[T] {
		return &mapMultiSink[T, R]{Chained: sink.Chained[R]{Downstream: down}, fn: func(t T, emit func(R)) {
			for _, r := range fn(t) {
				if down.CancellationRequested() {
					return
				}
				emit(r)
			}
		}, emit: down.Accept}
	})
}

// FlatMap replaces each element with the elements of the stream fn returns.
// The inner stream is evaluated sequentially and closed afterwards; a nil
// result contributes nothing.
func FlatMap[T, R any](s *Stream[T], fn func(T) *Stream[R]) *Stream[R] {
	return chain(s, "flatMap", flatMapFlags, func(down sink.Sink[R]) sink.Sink[T] {
		return &mapMultiSink[T, R]{Chained: sink.Chained[R]{Downstream: down}, fn: func(t T, emit func(R)) {
			inner := fn(t)
			if inner == nil {
				return
			}
			func() {
				defer func() {
					if r := recover(); r != nil {
						_ = inner.Close()
						panic(r)
					}
				}()
				src, err := toSpliterator(inner, true)
				if err != nil {
					errors.Throw(err)
				}
				defer spliterator.Release(src)
				for !down.CancellationRequested() && src.TryAdvance(emit) {
				}
			}()
			if err := inner.Close(); err != nil {
				errors.Throw(err)
			}
		}, emit: down.Accept}
	})
}
