package collector

import "sync"

// GroupingBy groups elements by classifier and reduces each group with
// downstream. A group's accumulator is created the first time its key is
// seen.
func GroupingBy[T any, K comparable, A, D any](classifier func(T) K, downstream Collector[T, A, D]) Collector[T, map[K]A, map[K]D] {
	supplier, acc, combine := downstream.supplier, downstream.accumulator, downstream.combiner
	return Collector[T, map[K]A, map[K]D]{
		supplier: func() map[K]A { return make(map[K]A) },
		accumulator: func(m map[K]A, t T) {
			k := classifier(t)
			a, ok := m[k]
			if !ok {
				a = supplier()
				m[k] = a
			}
			acc(a, t)
		},
		combiner: func(left, right map[K]A) map[K]A {
			for k, r := range right {
				if l, ok := left[k]; ok {
					left[k] = combine(l, r)
				} else {
					left[k] = r
				}
			}
			return left
		},
		finisher: func(m map[K]A) map[K]D {
			out := make(map[K]D, len(m))
			for k, a := range m {
				out[k] = downstream.Finish(a)
			}
			return out
		},
		err: downstream.err,
	}
}

// GroupingByTo is GroupingBy into a Map of the given kind, so callers can
// choose sorted or first-seen key order.
func GroupingByTo[T any, K comparable, A, D any](classifier func(T) K, kind MapKind[K], downstream Collector[T, A, D]) Collector[T, Map[K, A], Map[K, D]] {
	supplier, acc, combine := downstream.supplier, downstream.accumulator, downstream.combiner
	return Collector[T, Map[K, A], Map[K, D]]{
		supplier: func() Map[K, A] { return NewMap[K, A](kind) },
		accumulator: func(m Map[K, A], t T) {
			k := classifier(t)
			a, ok := m.Get(k)
			if !ok {
				a = supplier()
				m.Put(k, a)
			}
			acc(a, t)
		},
		combiner: func(left, right Map[K, A]) Map[K, A] {
			right.Each(func(k K, r A) {
				if l, ok := left.Get(k); ok {
					left.Put(k, combine(l, r))
				} else {
					left.Put(k, r)
				}
			})
			return left
		},
		finisher: func(m Map[K, A]) Map[K, D] {
			out := NewMap[K, D](kind)
			m.Each(func(k K, a A) { out.Put(k, downstream.Finish(a)) })
			return out
		},
		err: downstream.err,
	}
}

// groupCell guards one key's accumulator in a concurrent grouping.
type groupCell[A any] struct {
	mu  sync.Mutex
	acc A
}

// ConcurrentGroups is the shared accumulator of GroupingByConcurrent.
type ConcurrentGroups[K comparable, A any] struct {
	m sync.Map // K -> *groupCell[A]
}

func (g *ConcurrentGroups[K, A]) cell(k K, supplier func() A) *groupCell[A] {
	if c, ok := g.m.Load(k); ok {
		return c.(*groupCell[A])
	}
	c, _ := g.m.LoadOrStore(k, &groupCell[A]{acc: supplier()})
	return c.(*groupCell[A])
}

// GroupingByConcurrent groups into one accumulator shared by every worker.
// Group accumulators are locked per key unless downstream is itself
// Concurrent. The result does not preserve encounter order within groups.
func GroupingByConcurrent[T any, K comparable, A, D any](classifier func(T) K, downstream Collector[T, A, D]) Collector[T, *ConcurrentGroups[K, A], map[K]D] {
	supplier, acc, combine := downstream.supplier, downstream.accumulator, downstream.combiner
	lockFree := downstream.Has(Concurrent)
	return Collector[T, *ConcurrentGroups[K, A], map[K]D]{
		supplier: func() *ConcurrentGroups[K, A] { return &ConcurrentGroups[K, A]{} },
		accumulator: func(g *ConcurrentGroups[K, A], t T) {
			c := g.cell(classifier(t), supplier)
			if lockFree {
				acc(c.acc, t)
				return
			}
			c.mu.Lock()
			defer c.mu.Unlock()
			acc(c.acc, t)
		},
		combiner: func(left, right *ConcurrentGroups[K, A]) *ConcurrentGroups[K, A] {
			right.m.Range(func(k, v any) bool {
				r := v.(*groupCell[A])
				actual, loaded := left.m.LoadOrStore(k, r)
				if loaded {
					l := actual.(*groupCell[A])
					l.mu.Lock()
					l.acc = combine(l.acc, r.acc)
					l.mu.Unlock()
				}
				return true
			})
			return left
		},
		finisher: func(g *ConcurrentGroups[K, A]) map[K]D {
			out := make(map[K]D)
			g.m.Range(func(k, v any) bool {
				out[k.(K)] = downstream.Finish(v.(*groupCell[A]).acc)
				return true
			})
			return out
		},
		chars: Concurrent | Unordered,
		err:   downstream.err,
	}
}

// Partition is the accumulator of PartitioningBy.
type Partition[A any] struct {
	False A
	True  A
}

// PartitioningBy splits elements by predicate into two groups. Both keys
// are present in the result even when a group is empty.
func PartitioningBy[T, A, D any](predicate func(T) bool, downstream Collector[T, A, D]) Collector[T, *Partition[A], map[bool]D] {
	supplier, acc, combine := downstream.supplier, downstream.accumulator, downstream.combiner
	return Collector[T, *Partition[A], map[bool]D]{
		supplier: func() *Partition[A] {
			return &Partition[A]{False: supplier(), True: supplier()}
		},
		accumulator: func(p *Partition[A], t T) {
			if predicate(t) {
				acc(p.True, t)
			} else {
				acc(p.False, t)
			}
		},
		combiner: func(left, right *Partition[A]) *Partition[A] {
			left.False = combine(left.False, right.False)
			left.True = combine(left.True, right.True)
			return left
		},
		finisher: func(p *Partition[A]) map[bool]D {
			return map[bool]D{
				false: downstream.Finish(p.False),
				true:  downstream.Finish(p.True),
			}
		},
		err: downstream.err,
	}
}
