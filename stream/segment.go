package stream

import (
	"github.com/kbukum/gostream/sink"
	"github.com/kbukum/gostream/spliterator"
)

// segment is a splittable fragment of a pipeline: a source fragment plus
// the stages that apply to it. bind composes the sink chain of the
// fragment in front of down.
type segment[T any] interface {
	// trySplit detaches a prefix of the fragment, or returns nil.
	trySplit() segment[T]
	estimateSize() int64
	// exactSize returns the exact element count, or -1.
	exactSize() int64
	// subsized reports whether every split has an exact size.
	subsized() bool
	bind(down sink.Sink[T]) driver
}

// driver feeds one bound fragment into its sink chain.
type driver interface {
	begin()
	tryAdvance() bool
	forEachRemaining()
	end()
	cancellationRequested() bool
}

type sourceSegment[T any] struct {
	src spliterator.Spliterator[T]
}

func fromSpliterator[T any](src spliterator.Spliterator[T]) segment[T] {
	return &sourceSegment[T]{src: src}
}

func (s *sourceSegment[T]) trySplit() segment[T] {
	if prefix := s.src.TrySplit(); prefix != nil {
		return &sourceSegment[T]{src: prefix}
	}
	return nil
}

func (s *sourceSegment[T]) estimateSize() int64 { return s.src.EstimateSize() }

func (s *sourceSegment[T]) exactSize() int64 { return spliterator.ExactSizeIfKnown(s.src) }

func (s *sourceSegment[T]) subsized() bool {
	return s.src.Characteristics().Has(spliterator.Sized | spliterator.Subsized)
}

func (s *sourceSegment[T]) bind(down sink.Sink[T]) driver {
	return &spliteratorDriver[T]{src: s.src, sink: down, accept: down.Accept}
}

type spliteratorDriver[T any] struct {
	src    spliterator.Spliterator[T]
	sink   sink.Sink[T]
	accept func(T)
}

func (d *spliteratorDriver[T]) begin()                      { d.sink.Begin(spliterator.ExactSizeIfKnown(d.src)) }
func (d *spliteratorDriver[T]) tryAdvance() bool            { return d.src.TryAdvance(d.accept) }
func (d *spliteratorDriver[T]) forEachRemaining()           { d.src.ForEachRemaining(d.accept) }
func (d *spliteratorDriver[T]) end()                        { d.sink.End() }
func (d *spliteratorDriver[T]) cancellationRequested() bool { return d.sink.CancellationRequested() }

// stagedSegment applies one stage, whose sink factory is wrap, on top of
// an upstream fragment.
type stagedSegment[U, T any] struct {
	inner segment[U]
	wrap  func(sink.Sink[T]) sink.Sink[U]
	sized bool
}

func (s *stagedSegment[U, T]) trySplit() segment[T] {
	prefix := s.inner.trySplit()
	if prefix == nil {
		return nil
	}
	return &stagedSegment[U, T]{inner: prefix, wrap: s.wrap, sized: s.sized}
}

func (s *stagedSegment[U, T]) estimateSize() int64 { return s.inner.estimateSize() }

func (s *stagedSegment[U, T]) exactSize() int64 {
	if s.sized {
		return s.inner.exactSize()
	}
	return -1
}

func (s *stagedSegment[U, T]) subsized() bool { return s.sized && s.inner.subsized() }

func (s *stagedSegment[U, T]) bind(down sink.Sink[T]) driver {
	return s.inner.bind(s.wrap(down))
}

// slicedSegment restricts a subsized fragment to the absolute index range
// [origin, end). Splits falling entirely outside the range are discarded
// without traversal.
type slicedSegment[T any] struct {
	inner  segment[T]
	origin int64
	end    int64
	index  int64
}

func newSlicedSegment[T any](inner segment[T], skip, limit int64) *slicedSegment[T] {
	end := int64(spliterator.Unknown)
	if limit >= 0 && skip <= end-limit {
		end = skip + limit
	}
	return &slicedSegment[T]{inner: inner, origin: skip, end: end}
}

func (s *slicedSegment[T]) bounds() (lo, hi int64) {
	lo = max(s.index, s.origin)
	hi = min(s.index+s.inner.exactSize(), s.end)
	return lo, max(lo, hi)
}

func (s *slicedSegment[T]) trySplit() segment[T] {
	for {
		if lo, hi := s.bounds(); lo == hi {
			return nil
		}
		prefix := s.inner.trySplit()
		if prefix == nil {
			return nil
		}
		prefixEnd := s.index + prefix.exactSize()
		switch {
		case prefixEnd <= s.origin:
			s.index = prefixEnd
		case prefixEnd >= s.end:
			s.inner = prefix
		default:
			piece := &slicedSegment[T]{inner: prefix, origin: s.origin, end: s.end, index: s.index}
			s.index = prefixEnd
			return piece
		}
	}
}

func (s *slicedSegment[T]) estimateSize() int64 {
	lo, hi := s.bounds()
	return hi - lo
}

func (s *slicedSegment[T]) exactSize() int64 { return s.estimateSize() }

func (s *slicedSegment[T]) subsized() bool { return true }

func (s *slicedSegment[T]) bind(down sink.Sink[T]) driver {
	lo, hi := s.bounds()
	return s.inner.bind(newSliceSink(down, lo-s.index, hi-lo))
}

// sliceSink drops the first skip elements and passes at most limit
// elements after them. A negative limit passes everything.
type sliceSink[T any] struct {
	sink.Chained[T]
	skip  int64
	limit int64
}

func newSliceSink[T any](down sink.Sink[T], skip, limit int64) sink.Sink[T] {
	return &sliceSink[T]{Chained: sink.Chained[T]{Downstream: down}, skip: skip, limit: limit}
}

func (s *sliceSink[T]) Begin(size int64) {
	if size >= 0 {
		size = max(0, size-s.skip)
		if s.limit >= 0 {
			size = min(size, s.limit)
		}
	}
	s.Downstream.Begin(size)
}

func (s *sliceSink[T]) Accept(t T) {
	if s.skip > 0 {
		s.skip--
		return
	}
	if s.limit < 0 {
		s.Downstream.Accept(t)
		return
	}
	if s.limit > 0 {
		s.limit--
		s.Downstream.Accept(t)
	}
}

func (s *sliceSink[T]) CancellationRequested() bool {
	return s.limit == 0 || s.Downstream.CancellationRequested()
}
