package spliterator

// lateSpliterator defers calling its supplier until the first traversal,
// split or size query.
type lateSpliterator[T any] struct {
	supplier        func() Spliterator[T]
	s               Spliterator[T]
	characteristics Characteristics
}

// Late returns a spliterator that obtains its delegate from supplier on
// first use. characteristics are reported until then and must match those
// of the delegate.
func Late[T any](supplier func() Spliterator[T], characteristics Characteristics) Spliterator[T] {
	return &lateSpliterator[T]{supplier: supplier, characteristics: characteristics}
}

func (l *lateSpliterator[T]) get() Spliterator[T] {
	if l.s == nil {
		l.s = l.supplier()
		l.supplier = nil
	}
	return l.s
}

func (l *lateSpliterator[T]) TryAdvance(action func(T)) bool { return l.get().TryAdvance(action) }

func (l *lateSpliterator[T]) ForEachRemaining(action func(T)) { l.get().ForEachRemaining(action) }

func (l *lateSpliterator[T]) TrySplit() Spliterator[T] { return l.get().TrySplit() }

func (l *lateSpliterator[T]) EstimateSize() int64 { return l.get().EstimateSize() }

func (l *lateSpliterator[T]) Characteristics() Characteristics {
	if l.s == nil {
		return l.characteristics
	}
	return l.s.Characteristics()
}

// Release releases the delegate if it was obtained.
func (l *lateSpliterator[T]) Release() {
	if l.s != nil {
		Release(l.s)
	}
}

type emptySpliterator[T any] struct{}

// Empty returns a spliterator with no elements.
func Empty[T any]() Spliterator[T] { return emptySpliterator[T]{} }

func (emptySpliterator[T]) TryAdvance(func(T)) bool  { return false }
func (emptySpliterator[T]) ForEachRemaining(func(T)) {}
func (emptySpliterator[T]) TrySplit() Spliterator[T] { return nil }
func (emptySpliterator[T]) EstimateSize() int64      { return 0 }
func (emptySpliterator[T]) Characteristics() Characteristics {
	return Ordered | Sized | Subsized | Immutable | Distinct
}
