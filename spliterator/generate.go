package spliterator

// generateSpliterator is an unordered, infinite source. Splitting halves the
// nominal estimate so that a parallel traversal still terminates its split
// recursion, while both halves keep producing elements on demand.
type generateSpliterator[T any] struct {
	est int64
	gen func() T
}

// Generate returns an infinite, unordered spliterator whose elements are
// produced by gen. gen may be called from several goroutines at once once
// the spliterator has been split.
func Generate[T any](gen func() T) Spliterator[T] {
	return &generateSpliterator[T]{est: Unknown, gen: gen}
}

func (g *generateSpliterator[T]) TryAdvance(action func(T)) bool {
	action(g.gen())
	return true
}

func (g *generateSpliterator[T]) ForEachRemaining(action func(T)) {
	for {
		action(g.gen())
	}
}

func (g *generateSpliterator[T]) TrySplit() Spliterator[T] {
	if g.est == 0 {
		return nil
	}
	g.est >>= 1
	return &generateSpliterator[T]{est: g.est, gen: g.gen}
}

func (g *generateSpliterator[T]) EstimateSize() int64 { return g.est }

func (g *generateSpliterator[T]) Characteristics() Characteristics { return Immutable }

// Iterate returns an infinite, ordered spliterator producing seed, f(seed),
// f(f(seed)), and so on.
func Iterate[T any](seed T, f func(T) T) Spliterator[T] {
	return IterateWhile(seed, func(T) bool { return true }, f)
}

// IterateWhile returns an ordered spliterator producing seed, next(seed), ...
// for as long as hasNext accepts the current value.
func IterateWhile[T any](seed T, hasNext func(T) bool, next func(T) T) Spliterator[T] {
	var prev T
	started, finished := false, false
	return FromIterator[T](IteratorFunc[T](func() (T, bool) {
		var zero T
		if finished {
			return zero, false
		}
		var t T
		if started {
			t = next(prev)
		} else {
			t = seed
			started = true
		}
		if !hasNext(t) {
			finished = true
			return zero, false
		}
		prev = t
		return t, true
	}), -1, Ordered|Immutable)
}
