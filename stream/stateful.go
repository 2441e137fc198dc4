package stream

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/kbukum/gostream/errors"
	"github.com/kbukum/gostream/sink"
)

// stateful appends a stage that must see its whole input, or a prefix of
// it, before the downstream result is known. Sequentially the stage is
// just another sink. In parallel mode parallel decides how the upstream is
// evaluated; a nil parallel materializes the upstream and applies wrap to
// the result.
func stateful[U, T any](up *Stream[U], name string, op opFlags, wrap func(sink.Sink[T]) sink.Sink[U], parallel func(ev *evaluation, seg segment[U]) segment[T]) *Stream[T] {
	st := up.st.push(name, op, true)
	return &Stream[T]{
		st: st,
		plan: func(ev *evaluation) segment[T] {
			seg := up.plan(ev)
			switch {
			case !ev.parallel:
				return &stagedSegment[U, T]{inner: seg, wrap: wrap, sized: st.combined().Has(FlagSized)}
			case parallel != nil:
				return parallel(ev, seg)
			default:
				return barrier(ev, seg, wrap)
			}
		},
	}
}

// passThrough is a stage that changes nothing.
func passThrough[T any](s *Stream[T], name string) *Stream[T] {
	return &Stream[T]{st: s.st.push(name, opFlags{}, false), plan: s.plan}
}

func negative(param string, n int64) error {
	return errors.InvalidArgument(param, fmt.Sprintf("must not be negative, got %d", n)).WithDetail("value", n)
}

type distinctSink[T any, K comparable] struct {
	sink.Chained[T]
	key  func(T) K
	seen map[K]struct{}
}

func (s *distinctSink[T, K]) Begin(int64) {
	s.seen = make(map[K]struct{})
	s.Downstream.Begin(-1)
}

func (s *distinctSink[T, K]) Accept(t T) {
	k := s.key(t)
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.Downstream.Accept(t)
}

func (s *distinctSink[T, K]) End() {
	s.seen = nil
	s.Downstream.End()
}

// Distinct drops elements equal to an earlier one. The first occurrence is
// kept when the stream is ordered. It is a no-op on a stream already known
// to be distinct.
func Distinct[T comparable](s *Stream[T]) *Stream[T] {
	if s.st.combined().Has(FlagDistinct) {
		return passThrough(s, "distinct")
	}
	return distinctBy(s, "distinct", func(t T) T { return t })
}

// DistinctBy drops elements whose key equals the key of an earlier element.
func DistinctBy[T any, K comparable](s *Stream[T], key func(T) K) *Stream[T] {
	return distinctBy(s, "distinctBy", key)
}

func distinctBy[T any, K comparable](s *Stream[T], name string, key func(T) K) *Stream[T] {
	op := opFlags{set: FlagDistinct, clear: FlagSized}
	return stateful(s, name, op, func(down sink.Sink[T]) sink.Sink[T] {
		return &distinctSink[T, K]{Chained: sink.Chained[T]{Downstream: down}, key: key}
	}, nil)
}

type sortSink[T any] struct {
	sink.Chained[T]
	cmp   func(a, b T) int
	items []T
}

func (s *sortSink[T]) Begin(size int64) {
	if size >= 0 {
		s.items = make([]T, 0, size)
	} else {
		s.items = nil
	}
}

func (s *sortSink[T]) Accept(t T) { s.items = append(s.items, t) }

func (s *sortSink[T]) End() {
	slices.SortStableFunc(s.items, s.cmp)
	s.Downstream.Begin(int64(len(s.items)))
	for _, t := range s.items {
		if s.Downstream.CancellationRequested() {
			break
		}
		s.Downstream.Accept(t)
	}
	s.items = nil
	s.Downstream.End()
}

// CancellationRequested is false while buffering: the downstream only sees
// elements once the input is complete.
func (s *sortSink[T]) CancellationRequested() bool { return false }

// Sorted orders the elements by compare. The sort is stable.
func Sorted[T any](s *Stream[T], compare func(a, b T) int) *Stream[T] {
	return sorted(s, "sorted", opFlags{set: FlagOrdered, clear: FlagSorted}, compare)
}

// SortedNatural orders the elements by cmp.Compare. It is a no-op on a
// stream already known to be sorted.
func SortedNatural[T cmp.Ordered](s *Stream[T]) *Stream[T] {
	if s.st.combined().Has(FlagSorted) {
		return passThrough(s, "sorted")
	}
	return sorted(s, "sorted", opFlags{set: FlagOrdered | FlagSorted}, cmp.Compare[T])
}

func sorted[T any](s *Stream[T], name string, op opFlags, compare func(a, b T) int) *Stream[T] {
	return stateful(s, name, op, func(down sink.Sink[T]) sink.Sink[T] {
		return &sortSink[T]{Chained: sink.Chained[T]{Downstream: down}, cmp: compare}
	}, nil)
}

// Limit truncates the stream to its first n elements. n must not be
// negative.
func Limit[T any](s *Stream[T], n int64) *Stream[T] {
	if n < 0 {
		out := slice(s, "limit", 0, 0)
		out.st.invalid(negative("limit", n))
		return out
	}
	return slice(s, "limit", 0, n)
}

// Skip drops the first n elements. n must not be negative.
func Skip[T any](s *Stream[T], n int64) *Stream[T] {
	if n < 0 {
		out := slice(s, "skip", 0, -1)
		out.st.invalid(negative("skip", n))
		return out
	}
	return slice(s, "skip", n, -1)
}

// slice keeps the elements at positions [skip, skip+limit), or from skip on
// when limit is negative. In parallel mode a sized upstream whose splits
// are sized is cut by position without materializing; otherwise a limited
// upstream is drained sequentially so that it can stop early.
func slice[T any](s *Stream[T], name string, skip, limit int64) *Stream[T] {
	op := opFlags{clear: FlagSized}
	if limit >= 0 {
		op.set = FlagShortCircuit
	}
	upSized := s.st.combined().Has(FlagSized)
	wrap := func(down sink.Sink[T]) sink.Sink[T] {
		return newSliceSink(down, skip, limit)
	}
	return stateful(s, name, op, wrap, func(ev *evaluation, seg segment[T]) segment[T] {
		switch {
		case upSized && seg.subsized():
			return newSlicedSegment(seg, skip, limit)
		case limit < 0:
			return barrier(ev, seg, wrap)
		default:
			return drain(ev, seg, wrap)
		}
	})
}

type takeWhileSink[T any] struct {
	sink.Chained[T]
	pred   func(T) bool
	taking bool
}

func (s *takeWhileSink[T]) Begin(int64) {
	s.taking = true
	s.Downstream.Begin(-1)
}

func (s *takeWhileSink[T]) Accept(t T) {
	if s.taking && s.pred(t) {
		s.Downstream.Accept(t)
		return
	}
	s.taking = false
}

func (s *takeWhileSink[T]) CancellationRequested() bool {
	return !s.taking || s.Downstream.CancellationRequested()
}

// TakeWhile keeps elements up to, not including, the first one failing
// pred. Traversal stops there.
func TakeWhile[T any](s *Stream[T], pred func(T) bool) *Stream[T] {
	wrap := func(down sink.Sink[T]) sink.Sink[T] {
		return &takeWhileSink[T]{Chained: sink.Chained[T]{Downstream: down}, pred: pred}
	}
	op := opFlags{set: FlagShortCircuit, clear: FlagSized}
	return stateful(s, "takeWhile", op, wrap, func(ev *evaluation, seg segment[T]) segment[T] {
		return drain(ev, seg, wrap)
	})
}

type dropWhileSink[T any] struct {
	sink.Chained[T]
	pred     func(T) bool
	dropping bool
}

func (s *dropWhileSink[T]) Begin(int64) {
	s.dropping = true
	s.Downstream.Begin(-1)
}

func (s *dropWhileSink[T]) Accept(t T) {
	if s.dropping {
		if s.pred(t) {
			return
		}
		s.dropping = false
	}
	s.Downstream.Accept(t)
}

// DropWhile drops elements up to, not including, the first one failing
// pred, and keeps everything after it.
func DropWhile[T any](s *Stream[T], pred func(T) bool) *Stream[T] {
	return stateful(s, "dropWhile", opFlags{clear: FlagSized}, func(down sink.Sink[T]) sink.Sink[T] {
		return &dropWhileSink[T]{Chained: sink.Chained[T]{Downstream: down}, pred: pred}
	}, nil)
}

type chunkSink[T any] struct {
	sink.Chained[[]T]
	size int
	buf  []T
}

func (s *chunkSink[T]) Begin(size int64) {
	s.buf = make([]T, 0, s.size)
	if size >= 0 {
		size = (size + int64(s.size) - 1) / int64(s.size)
	}
	s.Downstream.Begin(size)
}

func (s *chunkSink[T]) Accept(t T) {
	s.buf = append(s.buf, t)
	if len(s.buf) == s.size {
		s.Downstream.Accept(s.buf)
		s.buf = make([]T, 0, s.size)
	}
}

func (s *chunkSink[T]) End() {
	if len(s.buf) > 0 && !s.Downstream.CancellationRequested() {
		s.Downstream.Accept(s.buf)
	}
	s.buf = nil
	s.Downstream.End()
}

// Chunk groups consecutive elements into slices of size elements; the last
// chunk may be shorter. size must be positive.
func Chunk[T any](s *Stream[T], size int) *Stream[[]T] {
	n := max(size, 1)
	out := stateful(s, "chunk", flatMapFlags, func(down sink.Sink[[]T]) sink.Sink[T] {
		return &chunkSink[T]{Chained: sink.Chained[[]T]{Downstream: down}, size: n}
	}, nil)
	if size <= 0 {
		out.st.invalid(errors.InvalidArgument("size", fmt.Sprintf("must be positive, got %d", size)).WithDetail("value", size))
	}
	return out
}
