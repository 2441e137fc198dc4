package node

import "github.com/kbukum/gostream/spliterator"

// treeSpliterator traverses a node tree. Before traversal starts, splitting
// hands off the left child and continues with the right one; once the
// current node is a leaf, splitting is delegated to the leaf's spliterator.
type treeSpliterator[T any] struct {
	cur  Node[T]
	leaf spliterator.Spliterator[T]
	// stack holds nodes still to visit after cur, top last.
	stack []Node[T]
}

func (s *treeSpliterator[T]) TrySplit() spliterator.Spliterator[T] {
	if s.leaf != nil || len(s.stack) > 0 {
		if s.leaf != nil && len(s.stack) == 0 {
			return s.leaf.TrySplit()
		}
		return nil
	}
	if s.cur.ChildCount() == 0 {
		s.leaf, s.cur = s.cur.Spliterator(), nil
		return s.leaf.TrySplit()
	}
	left := s.cur.Child(0)
	s.cur = s.cur.Child(1)
	return left.Spliterator()
}

// nextLeaf positions s.leaf on the next non-exhausted leaf.
func (s *treeSpliterator[T]) nextLeaf() bool {
	for {
		if s.leaf != nil && s.leaf.EstimateSize() > 0 {
			return true
		}
		var n Node[T]
		switch {
		case s.cur != nil:
			n, s.cur = s.cur, nil
		case len(s.stack) > 0:
			n = s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
		default:
			return false
		}
		for n.ChildCount() > 0 {
			for i := n.ChildCount() - 1; i > 0; i-- {
				s.stack = append(s.stack, n.Child(i))
			}
			n = n.Child(0)
		}
		s.leaf = n.Spliterator()
	}
}

func (s *treeSpliterator[T]) TryAdvance(action func(T)) bool {
	if !s.nextLeaf() {
		return false
	}
	return s.leaf.TryAdvance(action)
}

func (s *treeSpliterator[T]) ForEachRemaining(action func(T)) {
	if s.leaf != nil {
		s.leaf.ForEachRemaining(action)
		s.leaf = nil
	}
	if s.cur != nil {
		s.cur.ForEach(action)
		s.cur = nil
	}
	for len(s.stack) > 0 {
		n := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		n.ForEach(action)
	}
}

func (s *treeSpliterator[T]) EstimateSize() int64 {
	var n int64
	if s.leaf != nil {
		n += s.leaf.EstimateSize()
	}
	if s.cur != nil {
		n += s.cur.Count()
	}
	for _, c := range s.stack {
		n += c.Count()
	}
	return n
}

func (s *treeSpliterator[T]) Characteristics() spliterator.Characteristics {
	return spliterator.Ordered | spliterator.Sized | spliterator.Subsized | spliterator.Immutable
}
