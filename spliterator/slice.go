package spliterator

// sliceSpliterator covers items[index:fence].
type sliceSpliterator[T any] struct {
	items           []T
	index, fence    int
	characteristics Characteristics
}

// OfSlice returns a spliterator over items. The result is always Ordered,
// Sized and Subsized; extra adds further characteristics such as Immutable
// or Sorted.
func OfSlice[T any](items []T, extra Characteristics) Spliterator[T] {
	return &sliceSpliterator[T]{
		items:           items,
		fence:           len(items),
		characteristics: extra | Ordered | Sized | Subsized,
	}
}

func (s *sliceSpliterator[T]) TryAdvance(action func(T)) bool {
	if s.index >= s.fence {
		return false
	}
	t := s.items[s.index]
	s.index++
	action(t)
	return true
}

func (s *sliceSpliterator[T]) ForEachRemaining(action func(T)) {
	items, i, hi := s.items, s.index, s.fence
	s.index = hi
	for ; i < hi; i++ {
		action(items[i])
	}
}

func (s *sliceSpliterator[T]) TrySplit() Spliterator[T] {
	lo, mid := s.index, (s.index+s.fence)>>1
	if lo >= mid {
		return nil
	}
	s.index = mid
	return &sliceSpliterator[T]{items: s.items, index: lo, fence: mid, characteristics: s.characteristics}
}

func (s *sliceSpliterator[T]) EstimateSize() int64 { return int64(s.fence - s.index) }

func (s *sliceSpliterator[T]) Characteristics() Characteristics { return s.characteristics }
