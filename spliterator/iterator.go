package spliterator

import (
	"iter"
)

const (
	batchUnit = 1 << 10
	maxBatch  = 1 << 25
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value, or false when the iterator is exhausted.
	Next() (T, bool)
}

// IteratorFunc adapts a function to the Iterator interface.
type IteratorFunc[T any] func() (T, bool)

// Next calls f.
func (f IteratorFunc[T]) Next() (T, bool) { return f() }

// iteratorSpliterator splits by copying a batch of elements into an array.
// Successive batches grow arithmetically so that a small source still
// yields some parallelism while a large one does not pay for many tiny
// tasks.
type iteratorSpliterator[T any] struct {
	it              Iterator[T]
	est             int64
	batch           int
	characteristics Characteristics
	done            bool
	release         func()
}

// FromIterator returns a spliterator over it. size is the exact number of
// elements when known (the result is then Sized), or a negative value.
func FromIterator[T any](it Iterator[T], size int64, characteristics Characteristics) Spliterator[T] {
	s := &iteratorSpliterator[T]{it: it, est: Unknown, characteristics: characteristics &^ (Sized | Subsized)}
	if size >= 0 {
		s.est = size
		s.characteristics |= Sized | Subsized
	}
	return s
}

// FromSeq returns an ordered spliterator of unknown size over seq. The
// sequence is started on first use and stopped once exhausted or released.
func FromSeq[T any](seq iter.Seq[T]) Spliterator[T] {
	var next func() (T, bool)
	var stop func()
	return &iteratorSpliterator[T]{
		it: IteratorFunc[T](func() (T, bool) {
			if next == nil {
				next, stop = iter.Pull(seq)
			}
			v, ok := next()
			if !ok {
				stop()
			}
			return v, ok
		}),
		est:             Unknown,
		characteristics: Ordered,
		release: func() {
			if stop != nil {
				stop()
			}
		},
	}
}

// FromChannel returns an ordered spliterator of unknown size that receives
// from ch until it is closed.
func FromChannel[T any](ch <-chan T) Spliterator[T] {
	return &iteratorSpliterator[T]{
		it: IteratorFunc[T](func() (T, bool) {
			v, ok := <-ch
			return v, ok
		}),
		est:             Unknown,
		characteristics: Ordered,
	}
}

func (s *iteratorSpliterator[T]) next() (T, bool) {
	if s.done {
		var zero T
		return zero, false
	}
	v, ok := s.it.Next()
	if !ok {
		s.done = true
	}
	return v, ok
}

func (s *iteratorSpliterator[T]) TryAdvance(action func(T)) bool {
	v, ok := s.next()
	if !ok {
		return false
	}
	if s.est != Unknown && s.est > 0 {
		s.est--
	}
	action(v)
	return true
}

func (s *iteratorSpliterator[T]) ForEachRemaining(action func(T)) {
	for {
		v, ok := s.next()
		if !ok {
			break
		}
		action(v)
	}
	if s.est != Unknown {
		s.est = 0
	}
}

func (s *iteratorSpliterator[T]) TrySplit() Spliterator[T] {
	if s.done || s.est <= 1 {
		return nil
	}
	n := s.batch + batchUnit
	if int64(n) > s.est {
		n = int(s.est)
	}
	if n > maxBatch {
		n = maxBatch
	}
	buf := make([]T, 0, n)
	for len(buf) < n {
		v, ok := s.next()
		if !ok {
			break
		}
		buf = append(buf, v)
	}
	if len(buf) == 0 {
		return nil
	}
	s.batch = len(buf)
	if s.est != Unknown {
		s.est -= int64(len(buf))
	}
	return OfSlice(buf, s.characteristics&^(Sized|Subsized))
}

func (s *iteratorSpliterator[T]) EstimateSize() int64 {
	if s.done && s.est == Unknown {
		return 0
	}
	return s.est
}

func (s *iteratorSpliterator[T]) Characteristics() Characteristics { return s.characteristics }

// Release stops the underlying sequence, if any. Later advances report no
// elements.
func (s *iteratorSpliterator[T]) Release() {
	s.done = true
	if s.release != nil {
		s.release()
	}
}
