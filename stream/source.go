package stream

import (
	"iter"

	"github.com/kbukum/gostream/spliterator"
)

// FromSpliterator returns a sequential stream over src. The head flags are
// read from src.Characteristics.
func FromSpliterator[T any](src spliterator.Spliterator[T]) *Stream[T] {
	return head("spliterator", sourceFlags(src.Characteristics()), func() spliterator.Spliterator[T] { return src })
}

// FromSupplier returns a stream whose spliterator is obtained from supplier
// when the terminal operation starts. characteristics must match those of
// the supplied spliterator.
func FromSupplier[T any](supplier func() spliterator.Spliterator[T], characteristics spliterator.Characteristics) *Stream[T] {
	return head("supplier", sourceFlags(characteristics), supplier)
}

func head[T any](name string, flags Flags, src func() spliterator.Spliterator[T]) *Stream[T] {
	return &Stream[T]{
		st: newHead(name, flags),
		plan: func(ev *evaluation) segment[T] {
			sp := src()
			ev.hold(sp)
			return fromSpliterator(sp)
		},
	}
}

// Of returns an ordered, sized stream of items.
func Of[T any](items ...T) *Stream[T] {
	return FromSlice(items)
}

// FromSlice returns an ordered, sized stream over items. The slice is not
// copied and must not be modified until the terminal operation returns.
func FromSlice[T any](items []T) *Stream[T] {
	return FromSpliterator(spliterator.OfSlice(items, 0))
}

// FromList returns a stream over list. The list is bound when the terminal
// operation starts, and structural changes during traversal fail the
// evaluation with CONCURRENT_MODIFICATION.
func FromList[T any](list *spliterator.List[T]) *Stream[T] {
	return FromSupplier(list.Spliterator, spliterator.Ordered|spliterator.Sized|spliterator.Subsized)
}

// FromIterator returns an ordered stream over it. size is the exact
// element count, or negative when unknown.
func FromIterator[T any](it spliterator.Iterator[T], size int64) *Stream[T] {
	return FromSpliterator(spliterator.FromIterator(it, size, spliterator.Ordered))
}

// FromSeq returns an ordered stream over seq.
func FromSeq[T any](seq iter.Seq[T]) *Stream[T] {
	return FromSpliterator(spliterator.FromSeq(seq))
}

// FromChannel returns an ordered stream of the values received from ch
// until it is closed.
func FromChannel[T any](ch <-chan T) *Stream[T] {
	return FromSpliterator(spliterator.FromChannel(ch))
}

// Range returns the integers in [from, to).
func Range(from, to int64) *Stream[int64] {
	return FromSpliterator(spliterator.Range(from, to))
}

// RangeClosed returns the integers in [from, to].
func RangeClosed(from, to int64) *Stream[int64] {
	return FromSpliterator(spliterator.RangeClosed(from, to))
}

// Iterate returns the infinite ordered stream seed, f(seed), f(f(seed)), ...
func Iterate[T any](seed T, f func(T) T) *Stream[T] {
	return FromSpliterator(spliterator.Iterate(seed, f))
}

// IterateWhile returns seed, next(seed), ... for as long as hasNext holds.
func IterateWhile[T any](seed T, hasNext func(T) bool, next func(T) T) *Stream[T] {
	return FromSpliterator(spliterator.IterateWhile(seed, hasNext, next))
}

// Generate returns an infinite unordered stream of values produced by gen.
func Generate[T any](gen func() T) *Stream[T] {
	return FromSpliterator(spliterator.Generate(gen))
}

// Empty returns a stream with no elements.
func Empty[T any]() *Stream[T] {
	return FromSpliterator(spliterator.Empty[T]())
}

// Concat returns a stream of the elements of a followed by those of b.
// Both inputs are consumed. The result is parallel if either input is, and
// closing it runs the close handlers of a, then of b.
func Concat[T any](a, b *Stream[T]) *Stream[T] {
	flags := a.st.combined() & b.st.combined() &^ (FlagDistinct | FlagSorted | FlagShortCircuit)
	left, errA := toSpliterator(a, false)
	right, errB := toSpliterator(b, false)
	s := head("concat", flags, func() spliterator.Spliterator[T] {
		return spliterator.Concat(left, right)
	})
	if errA != nil {
		s.st.invalid(errA)
	} else if errB != nil {
		s.st.invalid(errB)
	}
	if a.IsParallel() || b.IsParallel() {
		s.Parallel()
	}
	s.OnClose(a.Close)
	s.OnClose(b.Close)
	return s
}
