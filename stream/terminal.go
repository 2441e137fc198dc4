package stream

import (
	"context"

	"github.com/kbukum/gostream/collector"
	"github.com/kbukum/gostream/forkjoin"
	"github.com/kbukum/gostream/sink"
)

var (
	unorderedTerminal = opFlags{clear: FlagOrdered}
	findFirstTerminal = opFlags{set: FlagShortCircuit}
	findAnyTerminal   = opFlags{set: FlagShortCircuit, clear: FlagOrdered}
)

// reduction evaluates seg into one result per leaf and combines the
// results left to right.
func reduction[T, R any](ev *evaluation, seg segment[T], leaf func(segment[T], *token) R, combine func(R, R) R) R {
	if !ev.parallel {
		return leaf(seg, ev.root)
	}
	r := forkJoin(ev, seg, leaf, combine)
	ev.check()
	return r
}

func none(struct{}, struct{}) struct{} { return struct{}{} }

// ForEach calls fn for every element. In parallel mode fn is called
// concurrently from several goroutines, in no particular order.
func ForEach[T any](ctx context.Context, s *Stream[T], fn func(T)) error {
	_, err := evaluate(ctx, s, "forEach", unorderedTerminal, func(ev *evaluation, seg segment[T]) struct{} {
		return reduction(ev, seg, func(seg segment[T], tok *token) struct{} {
			ev.drive(seg.bind(sink.Func(fn)), tok)
			return struct{}{}
		}, none)
	})
	return err
}

// ForEachOrdered calls fn for every element, one at a time and in
// encounter order, on the calling goroutine. In parallel mode the upstream
// is evaluated in parallel first.
func ForEachOrdered[T any](ctx context.Context, s *Stream[T], fn func(T)) error {
	_, err := evaluate(ctx, s, "forEachOrdered", opFlags{}, func(ev *evaluation, seg segment[T]) struct{} {
		if ev.parallel {
			n := materialize(ev, seg)
			ev.check()
			seg = fromSpliterator(n.Spliterator())
		}
		ev.drive(seg.bind(sink.Func(fn)), ev.root)
		return struct{}{}
	})
	return err
}

// ToSlice returns the elements in encounter order. An empty stream yields
// an empty, non-nil slice.
func ToSlice[T any](ctx context.Context, s *Stream[T]) ([]T, error) {
	return evaluate(ctx, s, "toSlice", opFlags{}, func(ev *evaluation, seg segment[T]) []T {
		n := materialize(ev, seg)
		ev.check()
		if out := n.AsSlice(); out != nil {
			return out
		}
		return []T{}
	})
}

// Collect performs a mutable reduction with c. Sequentially one
// accumulator receives every element. In parallel mode each leaf fills its
// own accumulator and the results are merged with the combiner, except for
// concurrent collectors over unordered input, which share one accumulator.
func Collect[T, A, R any](ctx context.Context, s *Stream[T], c collector.Collector[T, A, R]) (R, error) {
	if err := c.Err(); err != nil {
		var zero R
		if linkErr := s.st.consume(); linkErr != nil {
			return zero, linkErr
		}
		return zero, err
	}
	var term opFlags
	if c.Has(collector.Unordered) {
		term = unorderedTerminal
	}
	return evaluate(ctx, s, "collect", term, func(ev *evaluation, seg segment[T]) R {
		supplier, accumulate := c.Supplier(), c.Accumulator()
		into := func(a A, seg segment[T], tok *token) {
			ev.drive(seg.bind(sink.Func(func(t T) { accumulate(a, t) })), tok)
		}
		if ev.parallel && c.Has(collector.Concurrent) && !ev.flags.Has(FlagOrdered) {
			shared := supplier()
			reduction(ev, seg, func(seg segment[T], tok *token) struct{} {
				into(shared, seg, tok)
				return struct{}{}
			}, none)
			return c.Finish(shared)
		}
		a := reduction(ev, seg, func(seg segment[T], tok *token) A {
			a := supplier()
			into(a, seg, tok)
			return a
		}, c.Combiner())
		return c.Finish(a)
	})
}

// Fold reduces the elements starting from identity. accumulate folds one
// element into a partial result and combine merges two partial results;
// identity must be an identity for combine, and both functions must be
// associative for parallel evaluation to match sequential evaluation.
func Fold[T, R any](ctx context.Context, s *Stream[T], identity R, accumulate func(R, T) R, combine func(R, R) R) (R, error) {
	return evaluate(ctx, s, "fold", opFlags{}, func(ev *evaluation, seg segment[T]) R {
		return reduction(ev, seg, func(seg segment[T], tok *token) R {
			r := identity
			ev.drive(seg.bind(sink.Func(func(t T) { r = accumulate(r, t) })), tok)
			return r
		}, combine)
	})
}

// Reduce folds the elements with the associative op, starting from
// identity.
func Reduce[T any](ctx context.Context, s *Stream[T], identity T, op func(T, T) T) (T, error) {
	return Fold(ctx, s, identity, op, op)
}

// ReduceOptional folds the elements with the associative op. ok is false
// for an empty stream.
func ReduceOptional[T any](ctx context.Context, s *Stream[T], op func(T, T) T) (result T, ok bool, err error) {
	o, err := reduceOptional(ctx, s, "reduce", op)
	return o.Value, o.Present, err
}

func reduceOptional[T any](ctx context.Context, s *Stream[T], name string, op func(T, T) T) (collector.Optional[T], error) {
	return evaluate(ctx, s, name, opFlags{}, func(ev *evaluation, seg segment[T]) collector.Optional[T] {
		return reduction(ev, seg, func(seg segment[T], tok *token) collector.Optional[T] {
			var acc collector.Optional[T]
			ev.drive(seg.bind(sink.Func(func(t T) {
				if acc.Present {
					acc.Value = op(acc.Value, t)
				} else {
					acc = collector.Some(t)
				}
			})), tok)
			return acc
		}, func(l, r collector.Optional[T]) collector.Optional[T] {
			switch {
			case !l.Present:
				return r
			case !r.Present:
				return l
			default:
				return collector.Some(op(l.Value, r.Value))
			}
		})
	})
}

// Count returns the number of elements. When the count is known from the
// source without traversal, no element is traversed and Peek callbacks do
// not run.
func Count[T any](ctx context.Context, s *Stream[T]) (int64, error) {
	return evaluate(ctx, s, "count", unorderedTerminal, func(ev *evaluation, seg segment[T]) int64 {
		if n := seg.exactSize(); n >= 0 && ev.flags.Has(FlagSized) {
			return n
		}
		return reduction(ev, seg, func(seg segment[T], tok *token) int64 {
			var n int64
			ev.drive(seg.bind(sink.Func(func(T) { n++ })), tok)
			return n
		}, func(l, r int64) int64 { return l + r })
	})
}

// Min returns the least element by compare; the first one wins ties. ok is
// false for an empty stream.
func Min[T any](ctx context.Context, s *Stream[T], compare func(a, b T) int) (result T, ok bool, err error) {
	o, err := reduceOptional(ctx, s, "min", func(a, b T) T {
		if compare(b, a) < 0 {
			return b
		}
		return a
	})
	return o.Value, o.Present, err
}

// Max returns the greatest element by compare; the first one wins ties.
func Max[T any](ctx context.Context, s *Stream[T], compare func(a, b T) int) (result T, ok bool, err error) {
	o, err := reduceOptional(ctx, s, "max", func(a, b T) T {
		if compare(b, a) > 0 {
			return b
		}
		return a
	})
	return o.Value, o.Present, err
}

// matchSink stops at the first element for which pred returns stopOn.
type matchSink[T any] struct {
	pred    func(T) bool
	stopOn  bool
	decided bool
	onStop  func()
}

func (s *matchSink[T]) Begin(int64) {}

func (s *matchSink[T]) Accept(t T) {
	if !s.decided && s.pred(t) == s.stopOn {
		s.decided = true
		s.onStop()
	}
}

func (s *matchSink[T]) End() {}

func (s *matchSink[T]) CancellationRequested() bool { return s.decided }

// match reports whether some element made pred return stopOn. The first
// such element cancels every other leaf.
func match[T any](ctx context.Context, s *Stream[T], name string, pred func(T) bool, stopOn bool) (bool, error) {
	return evaluate(ctx, s, name, findAnyTerminal, func(ev *evaluation, seg segment[T]) bool {
		return reduction(ev, seg, func(seg segment[T], tok *token) bool {
			ms := &matchSink[T]{pred: pred, stopOn: stopOn, onStop: ev.root.cancel}
			ev.drive(seg.bind(ms), tok)
			return ms.decided
		}, func(l, r bool) bool { return l || r })
	})
}

// AnyMatch reports whether any element satisfies pred. It stops at the
// first match and is false for an empty stream.
func AnyMatch[T any](ctx context.Context, s *Stream[T], pred func(T) bool) (bool, error) {
	return match(ctx, s, "anyMatch", pred, true)
}

// AllMatch reports whether every element satisfies pred. It stops at the
// first mismatch and is true for an empty stream.
func AllMatch[T any](ctx context.Context, s *Stream[T], pred func(T) bool) (bool, error) {
	found, err := match(ctx, s, "allMatch", pred, false)
	return !found && err == nil, err
}

// NoneMatch reports whether no element satisfies pred.
func NoneMatch[T any](ctx context.Context, s *Stream[T], pred func(T) bool) (bool, error) {
	found, err := match(ctx, s, "noneMatch", pred, true)
	return !found && err == nil, err
}

// findSink keeps the first element it receives.
type findSink[T any] struct {
	result  collector.Optional[T]
	onFound func()
}

func (s *findSink[T]) Begin(int64) {}

func (s *findSink[T]) Accept(t T) {
	if !s.result.Present {
		s.result = collector.Some(t)
		if s.onFound != nil {
			s.onFound()
		}
	}
}

func (s *findSink[T]) End() {}

func (s *findSink[T]) CancellationRequested() bool { return s.result.Present }

func findLeaf[T any](ev *evaluation, seg segment[T], tok *token, onFound func()) collector.Optional[T] {
	fs := &findSink[T]{onFound: onFound}
	ev.drive(seg.bind(fs), tok)
	return fs.result
}

func firstPresent[T any](l, r collector.Optional[T]) collector.Optional[T] {
	if l.Present {
		return l
	}
	return r
}

// FindFirst returns the first element in encounter order. On an unordered
// stream it behaves like FindAny. ok is false for an empty stream.
func FindFirst[T any](ctx context.Context, s *Stream[T]) (first T, ok bool, err error) {
	o, err := evaluate(ctx, s, "findFirst", findFirstTerminal, func(ev *evaluation, seg segment[T]) collector.Optional[T] {
		switch {
		case !ev.parallel:
			return findLeaf(ev, seg, ev.root, nil)
		case !ev.flags.Has(FlagOrdered):
			return findAny(ev, seg)
		}
		threshold := ev.pool.SuggestTargetSize(seg.estimateSize())
		ev.threshold.Store(threshold)
		r := findFirstTask(ev, seg, ev.root, threshold)
		ev.check()
		return r
	})
	return o.Value, o.Present, err
}

// findFirstTask searches the left part before trusting the right one: a
// match on the left cancels the right subtree through its own token.
func findFirstTask[T any](ev *evaluation, seg segment[T], tok *token, threshold int64) collector.Optional[T] {
	leaf := func(seg segment[T], tok *token) collector.Optional[T] {
		return findLeaf(ev, seg, tok, nil)
	}
	if tok.cancelled() {
		return collector.None[T]()
	}
	if seg.estimateSize() <= threshold {
		return runLeaf(ev, seg, tok, leaf)
	}
	prefix := seg.trySplit()
	if prefix == nil {
		return runLeaf(ev, seg, tok, leaf)
	}
	rightTok := tok.child()
	right := forkjoin.Fork(ev.pool, func() (collector.Optional[T], error) {
		return findFirstTask(ev, seg, rightTok, threshold), nil
	})
	left := guarded(ev, func() collector.Optional[T] {
		return findFirstTask(ev, prefix, tok, threshold)
	})
	if left.Present {
		rightTok.cancel()
	}
	r, err := right.Join()
	if err != nil {
		ev.fail(err)
	}
	return firstPresent(left, r)
}

func findAny[T any](ev *evaluation, seg segment[T]) collector.Optional[T] {
	return reduction(ev, seg, func(seg segment[T], tok *token) collector.Optional[T] {
		return findLeaf(ev, seg, tok, ev.root.cancel)
	}, firstPresent[T])
}

// FindAny returns some element of the stream, not necessarily the first.
func FindAny[T any](ctx context.Context, s *Stream[T]) (found T, ok bool, err error) {
	o, err := evaluate(ctx, s, "findAny", findAnyTerminal, func(ev *evaluation, seg segment[T]) collector.Optional[T] {
		if !ev.parallel {
			return findLeaf(ev, seg, ev.root, nil)
		}
		return findAny(ev, seg)
	})
	return o.Value, o.Present, err
}
