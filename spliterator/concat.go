package spliterator

// concatSpliterator traverses a then b. Until traversal starts it can be
// split into a and b themselves.
type concatSpliterator[T any] struct {
	a, b            Spliterator[T]
	beforeSplit     bool
	characteristics Characteristics
}

// Concat returns a spliterator over the elements of a followed by those of b.
// It is Ordered, Sized or Subsized only if both inputs are. Distinct and
// Sorted never survive concatenation.
func Concat[T any](a, b Spliterator[T]) Spliterator[T] {
	c := a.Characteristics() & b.Characteristics() &^ (Distinct | Sorted)
	if c.Has(Sized) && a.EstimateSize()+b.EstimateSize() < 0 {
		c &^= Sized | Subsized
	}
	return &concatSpliterator[T]{a: a, b: b, beforeSplit: true, characteristics: c}
}

func (c *concatSpliterator[T]) TryAdvance(action func(T)) bool {
	if c.beforeSplit {
		if c.a.TryAdvance(action) {
			return true
		}
		c.beforeSplit = false
	}
	return c.b.TryAdvance(action)
}

func (c *concatSpliterator[T]) ForEachRemaining(action func(T)) {
	if c.beforeSplit {
		c.a.ForEachRemaining(action)
	}
	c.b.ForEachRemaining(action)
}

func (c *concatSpliterator[T]) TrySplit() Spliterator[T] {
	if c.beforeSplit {
		c.beforeSplit = false
		return c.a
	}
	return c.b.TrySplit()
}

func (c *concatSpliterator[T]) EstimateSize() int64 {
	if !c.beforeSplit {
		return c.b.EstimateSize()
	}
	size := c.a.EstimateSize() + c.b.EstimateSize()
	if size < 0 {
		return Unknown
	}
	return size
}

func (c *concatSpliterator[T]) Characteristics() Characteristics {
	if c.beforeSplit {
		return c.characteristics
	}
	return c.b.Characteristics()
}

// Release releases both inputs, including one already handed out by
// TrySplit.
func (c *concatSpliterator[T]) Release() {
	Release(c.a)
	Release(c.b)
}
