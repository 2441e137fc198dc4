package spliterator

import "math"

// rangeSpliterator covers [from, upTo), plus upTo itself when last is set.
type rangeSpliterator struct {
	from, upTo int64
	last       bool
}

const rangeCharacteristics = Ordered | Sized | Subsized | Immutable | Distinct | Sorted

// Range returns a spliterator over the integers in [from, to).
func Range(from, to int64) Spliterator[int64] {
	if to < from {
		to = from
	}
	return &rangeSpliterator{from: from, upTo: to}
}

// RangeClosed returns a spliterator over the integers in [from, to].
func RangeClosed(from, to int64) Spliterator[int64] {
	if to < from {
		return &rangeSpliterator{from: from, upTo: from}
	}
	return &rangeSpliterator{from: from, upTo: to, last: true}
}

func (r *rangeSpliterator) TryAdvance(action func(int64)) bool {
	if r.from < r.upTo {
		i := r.from
		r.from++
		action(i)
		return true
	}
	if r.last {
		r.last = false
		action(r.from)
		return true
	}
	return false
}

func (r *rangeSpliterator) ForEachRemaining(action func(int64)) {
	i, hi, last := r.from, r.upTo, r.last
	r.from, r.last = hi, false
	for ; i < hi; i++ {
		action(i)
	}
	if last {
		action(hi)
	}
}

func (r *rangeSpliterator) TrySplit() Spliterator[int64] {
	size := r.EstimateSize()
	if size <= 1 {
		return nil
	}
	// Halve in unsigned space so that full-width ranges do not overflow.
	mid := r.from + int64(uint64(size)>>1)
	lo := r.from
	r.from = mid
	return &rangeSpliterator{from: lo, upTo: mid}
}

func (r *rangeSpliterator) EstimateSize() int64 {
	n := uint64(r.upTo - r.from)
	if r.last {
		if n == math.MaxUint64 {
			return math.MaxInt64
		}
		n++
	}
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

func (r *rangeSpliterator) Characteristics() Characteristics { return rangeCharacteristics }
