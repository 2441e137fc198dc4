package stream

import (
	"context"
	"iter"

	"github.com/kbukum/gostream/errors"
	"github.com/kbukum/gostream/sink"
	"github.com/kbukum/gostream/spliterator"
)

// ToSpliterator consumes s and returns a spliterator over its elements.
// The pipeline is planned on first use of the spliterator and pulled one
// source element at a time. Failures inside the pipeline surface as panics
// raised with errors.Throw from the spliterator methods. A caller that stops
// before exhausting it should pass it to spliterator.Release, which stops
// sources such as FromSeq.
func ToSpliterator[T any](s *Stream[T]) (spliterator.Spliterator[T], error) {
	return toSpliterator(s, false)
}

func toSpliterator[T any](s *Stream[T], sequential bool) (spliterator.Spliterator[T], error) {
	if err := s.st.consume(); err != nil {
		return nil, err
	}
	ev := newEvaluation(context.Background(), s.st, "spliterator", opFlags{})
	if sequential {
		ev.parallel = false
		ev.pool = nil
		ev.checkEach = ev.flags.Has(FlagShortCircuit)
	}
	return &wrappingSpliterator[T]{ev: ev, plan: s.plan}, nil
}

// wrappingSpliterator adapts a planned pipeline to the pull-based
// Spliterator contract. Elements produced while advancing one source
// element are buffered.
type wrappingSpliterator[T any] struct {
	ev   *evaluation
	plan func(*evaluation) segment[T]
	seg  segment[T]

	d        driver
	buf      []T
	pos      int
	started  bool
	finished bool
}

func (w *wrappingSpliterator[T]) init() {
	if w.seg == nil {
		w.seg = w.plan(w.ev)
		w.plan = nil
	}
}

func (w *wrappingSpliterator[T]) Begin(int64)                 {}
func (w *wrappingSpliterator[T]) Accept(t T)                  { w.buf = append(w.buf, t) }
func (w *wrappingSpliterator[T]) End()                        {}
func (w *wrappingSpliterator[T]) CancellationRequested() bool { return false }

// fill advances the source by one element, or finishes the traversal.
func (w *wrappingSpliterator[T]) fill() {
	clear(w.buf)
	w.buf = w.buf[:0]
	w.pos = 0
	if !w.started {
		w.started = true
		w.d = w.seg.bind(w)
		w.d.begin()
	}
	if w.d.cancellationRequested() || !w.d.tryAdvance() {
		w.finished = true
		w.d.end()
	}
}

func (w *wrappingSpliterator[T]) TryAdvance(action func(T)) bool {
	w.init()
	for w.pos >= len(w.buf) {
		if w.finished {
			return false
		}
		w.fill()
	}
	t := w.buf[w.pos]
	w.pos++
	action(t)
	return true
}

func (w *wrappingSpliterator[T]) ForEachRemaining(action func(T)) {
	w.init()
	if !w.started {
		w.started = true
		w.finished = true
		w.ev.drive(w.seg.bind(sink.Func(action)), w.ev.root)
		return
	}
	for w.TryAdvance(action) {
	}
}

func (w *wrappingSpliterator[T]) TrySplit() spliterator.Spliterator[T] {
	if w.started {
		return nil
	}
	w.init()
	prefix := w.seg.trySplit()
	if prefix == nil {
		return nil
	}
	return &wrappingSpliterator[T]{ev: w.ev, seg: prefix}
}

func (w *wrappingSpliterator[T]) EstimateSize() int64 {
	w.init()
	return w.seg.estimateSize()
}

// Release releases the sources of the wrapped pipeline. It is shared by
// every spliterator split from the same pipeline.
func (w *wrappingSpliterator[T]) Release() { w.ev.release() }

func (w *wrappingSpliterator[T]) Characteristics() spliterator.Characteristics {
	if w.seg == nil {
		return characteristicsOf(w.ev.flags, false)
	}
	return characteristicsOf(w.ev.flags, w.seg.subsized())
}

type yieldSink[T any] struct {
	yield     func(T, error) bool
	stopped   bool
	panicked  bool
	bodyPanic any
}

func (s *yieldSink[T]) Begin(int64) {}

func (s *yieldSink[T]) Accept(t T) {
	if s.stopped {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.stopped, s.panicked, s.bodyPanic = true, true, r
			panic(r)
		}
	}()
	if !s.yield(t, nil) {
		s.stopped = true
	}
}

func (s *yieldSink[T]) End() {}

func (s *yieldSink[T]) CancellationRequested() bool { return s.stopped }

// All returns an iterator over the elements in encounter order, for use
// with range. A failure of the evaluation is yielded last, with a zero
// element. Breaking out of the loop stops the traversal.
func All[T any](ctx context.Context, s *Stream[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		ys := &yieldSink[T]{yield: yield}
		_, err := evaluate(ctx, s, "all", findFirstTerminal, func(ev *evaluation, seg segment[T]) struct{} {
			if ev.parallel {
				n := materialize(ev, seg)
				ev.check()
				seg = fromSpliterator(n.Spliterator())
			}
			ev.drive(seg.bind(ys), ev.root)
			return struct{}{}
		})
		if ys.panicked {
			panic(ys.bodyPanic)
		}
		if err != nil && !ys.stopped {
			var zero T
			yield(zero, err)
		}
	}
}

// Chan evaluates s on a new goroutine and sends its elements, in encounter
// order, on the returned channel, which is closed when the evaluation ends.
// A consumer that stops reading early must cancel ctx. wait blocks until
// the evaluation has ended and returns its error.
func Chan[T any](ctx context.Context, s *Stream[T], buffer int) (out <-chan T, wait func() error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ch := make(chan T, max(buffer, 0))
	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		defer close(ch)
		err = ForEachOrdered(ctx, s, func(t T) {
			select {
			case ch <- t:
			case <-ctx.Done():
				errors.Throw(errors.Canceled(ctx.Err()))
			}
		})
	}()
	return ch, func() error {
		<-done
		return err
	}
}
