package spliterator

import (
	"sync"

	"github.com/kbukum/gostream/errors"
)

// List is a growable sequence whose spliterators bind late and fail fast.
//
// A spliterator obtained from Spliterator does not fix its view of the list
// until it is first traversed, split or sized, so elements added between
// building a pipeline and running it are seen. Once bound, any structural
// change to the list (Add, Remove, Clear) makes the spliterator abort the
// traversal with a CONCURRENT_MODIFICATION error, checked after every
// element of TryAdvance and at the end of ForEachRemaining.
//
// List guards its own state with a mutex, but traversal reads elements
// without holding it; mutating the list while a pipeline runs over it is a
// programming error that is detected on a best-effort basis only.
type List[T any] struct {
	mu       sync.RWMutex
	items    []T
	modCount int
}

// NewList returns a list holding a copy of items.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: append([]T(nil), items...)}
}

// Add appends items to the list.
func (l *List[T]) Add(items ...T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, items...)
	l.modCount++
}

// Set replaces the element at index i. It is not a structural change.
func (l *List[T]) Set(i int, v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[i] = v
}

// Remove deletes the element at index i.
func (l *List[T]) Remove(i int) T {
	l.mu.Lock()
	defer l.mu.Unlock()
	v := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.modCount++
	return v
}

// Clear removes all elements.
func (l *List[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.modCount++
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// At returns the element at index i.
func (l *List[T]) At(i int) T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.items[i]
}

// Slice returns a copy of the elements.
func (l *List[T]) Slice() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

func (l *List[T]) snapshot() ([]T, int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.items, l.modCount
}

func (l *List[T]) mods() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modCount
}

// Spliterator returns a late-binding, fail-fast spliterator over the list.
func (l *List[T]) Spliterator() Spliterator[T] {
	return &listSpliterator[T]{list: l, fence: -1}
}

type listSpliterator[T any] struct {
	list             *List[T]
	items            []T
	index            int
	fence            int // -1 until bound
	expectedModCount int
}

func (s *listSpliterator[T]) bind() int {
	if s.fence < 0 {
		s.items, s.expectedModCount = s.list.snapshot()
		s.fence = len(s.items)
	}
	return s.fence
}

func (s *listSpliterator[T]) check() {
	if s.list.mods() != s.expectedModCount {
		errors.Throw(errors.ConcurrentModification("list"))
	}
}

func (s *listSpliterator[T]) TryAdvance(action func(T)) bool {
	hi := s.bind()
	if s.index >= hi {
		return false
	}
	t := s.items[s.index]
	s.index++
	action(t)
	s.check()
	return true
}

func (s *listSpliterator[T]) ForEachRemaining(action func(T)) {
	hi := s.bind()
	items, i := s.items, s.index
	s.index = hi
	for ; i < hi; i++ {
		action(items[i])
	}
	s.check()
}

func (s *listSpliterator[T]) TrySplit() Spliterator[T] {
	hi := s.bind()
	lo, mid := s.index, (s.index+hi)>>1
	if lo >= mid {
		return nil
	}
	s.index = mid
	return &listSpliterator[T]{
		list:             s.list,
		items:            s.items,
		index:            lo,
		fence:            mid,
		expectedModCount: s.expectedModCount,
	}
}

func (s *listSpliterator[T]) EstimateSize() int64 {
	return int64(s.bind() - s.index)
}

func (s *listSpliterator[T]) Characteristics() Characteristics {
	return Ordered | Sized | Subsized
}
