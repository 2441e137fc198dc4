package stream

import (
	"math/rand"
	"sync/atomic"

	"github.com/kbukum/gostream/forkjoin"
	"github.com/kbukum/gostream/spliterator"
)

func testPool(parallelism int) *forkjoin.Pool {
	return forkjoin.NewPool(forkjoin.Config{Parallelism: parallelism, LeafTargetFactor: 4, MinLeafSize: 1})
}

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// randomSplitter is an ordered, sized source that splits at a random
// position every time, so each run exercises a different split tree.
type randomSplitter[T any] struct {
	items  []T
	lo, hi int
	rng    *rand.Rand
}

func newRandomSplitter[T any](items []T, seed int64) *randomSplitter[T] {
	return &randomSplitter[T]{items: items, hi: len(items), rng: rand.New(rand.NewSource(seed))}
}

func (r *randomSplitter[T]) TryAdvance(action func(T)) bool {
	if r.lo >= r.hi {
		return false
	}
	r.lo++
	action(r.items[r.lo-1])
	return true
}

func (r *randomSplitter[T]) ForEachRemaining(action func(T)) {
	for r.TryAdvance(action) {
	}
}

func (r *randomSplitter[T]) TrySplit() spliterator.Spliterator[T] {
	if r.hi-r.lo < 2 {
		return nil
	}
	mid := r.lo + 1 + r.rng.Intn(r.hi-r.lo-1)
	prefix := &randomSplitter[T]{items: r.items, lo: r.lo, hi: mid, rng: rand.New(rand.NewSource(r.rng.Int63()))}
	r.lo = mid
	return prefix
}

func (r *randomSplitter[T]) EstimateSize() int64 { return int64(r.hi - r.lo) }

func (r *randomSplitter[T]) Characteristics() spliterator.Characteristics {
	return spliterator.Ordered | spliterator.Sized | spliterator.Subsized
}

// countingSeq yields 0..n-1 and counts how many values were pulled.
func countingSeq(n int, pulled *atomic.Int64) func(yield func(int) bool) {
	return func(yield func(int) bool) {
		for i := 0; i < n; i++ {
			pulled.Add(1)
			if !yield(i) {
				return
			}
		}
	}
}

func isEven(n int) bool { return n%2 == 0 }

func isEven64(n int64) bool { return n%2 == 0 }
