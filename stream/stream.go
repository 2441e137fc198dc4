package stream

import (
	"sync"
	"sync/atomic"

	"github.com/kbukum/gostream/errors"
	"github.com/kbukum/gostream/forkjoin"
)

// pipeline is the state shared by every stage built from one source.
type pipeline struct {
	parallel atomic.Bool

	mu       sync.Mutex
	pool     *forkjoin.Pool
	handlers []func() error
	closed   bool
}

func (p *pipeline) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *pipeline) poolOrDefault() *forkjoin.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		return p.pool
	}
	return forkjoin.Default()
}

// stage is one link of the backward-linked stage graph. It carries the
// untyped metadata of a Stream; the typed behaviour lives in Stream.plan.
type stage struct {
	p        *pipeline
	upstream *stage
	name     string
	op       opFlags
	head     Flags
	stateful bool
	depth    int

	// err is a construction error, returned by the terminal operation.
	err    error
	linked atomic.Bool

	flagsOnce sync.Once
	flags     Flags
}

func newHead(name string, flags Flags) *stage {
	return &stage{p: &pipeline{}, name: name, head: flags}
}

func errLinked() error {
	return errors.IllegalState("stream has already been operated upon or closed")
}

// combined returns the effective flags of the stage.
func (s *stage) combined() Flags {
	s.flagsOnce.Do(func() {
		if s.upstream == nil {
			s.flags = s.head
			return
		}
		s.flags = s.op.apply(s.upstream.combined())
	})
	return s.flags
}

// push links a new stage downstream of s. Linking a stage twice, or a
// stage of a closed pipeline, records an ILLEGAL_STATE error on the new
// stage.
func (s *stage) push(name string, op opFlags, stateful bool) *stage {
	next := &stage{
		p:        s.p,
		upstream: s,
		name:     name,
		op:       op,
		stateful: stateful,
		depth:    s.depth + 1,
		err:      s.err,
	}
	if !s.linked.CompareAndSwap(false, true) || s.p.isClosed() {
		if next.err == nil {
			next.err = errLinked()
		}
	}
	return next
}

// invalid records a construction error on s unless one is already present.
func (s *stage) invalid(err error) *stage {
	if s.err == nil {
		s.err = err
	}
	return s
}

// consume links s to a terminal operation.
func (s *stage) consume() error {
	if !s.linked.CompareAndSwap(false, true) || s.p.isClosed() {
		return errLinked()
	}
	return s.err
}

// Stream is a lazy sequence of elements of type T.
type Stream[T any] struct {
	st   *stage
	plan func(ev *evaluation) segment[T]
}

// Parallel marks the whole pipeline for parallel evaluation. The last call
// to Parallel or Sequential before the terminal operation wins.
func (s *Stream[T]) Parallel() *Stream[T] {
	s.st.p.parallel.Store(true)
	return s
}

// Sequential marks the whole pipeline for sequential evaluation.
func (s *Stream[T]) Sequential() *Stream[T] {
	s.st.p.parallel.Store(false)
	return s
}

// IsParallel reports whether a terminal operation would evaluate in
// parallel.
func (s *Stream[T]) IsParallel() bool {
	return s.st.p.parallel.Load()
}

// WithPool selects the pool used for parallel evaluation. A nil pool
// selects forkjoin.Default.
func (s *Stream[T]) WithPool(pool *forkjoin.Pool) *Stream[T] {
	s.st.p.mu.Lock()
	s.st.p.pool = pool
	s.st.p.mu.Unlock()
	return s
}

// Flags returns the effective flags of the last stage.
func (s *Stream[T]) Flags() Flags {
	return s.st.combined()
}

// Unordered returns a stream whose encounter order need not be respected.
// Terminal operations such as FindFirst, Limit and Collect may then
// choose cheaper strategies.
func (s *Stream[T]) Unordered() *Stream[T] {
	st := s.st.push("unordered", opFlags{clear: FlagOrdered}, false)
	return &Stream[T]{st: st, plan: s.plan}
}

// OnClose registers a handler run by Close. Handlers run in registration
// order.
func (s *Stream[T]) OnClose(fn func() error) *Stream[T] {
	p := s.st.p
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		s.st.invalid(errLinked())
		return s
	}
	p.handlers = append(p.handlers, fn)
	return s
}

// Close runs the close handlers of the pipeline once. Every handler runs
// even if an earlier one fails; the first failure is returned with the
// others attached as suppressed errors.
func (s *Stream[T]) Close() error {
	return s.st.p.close()
}

func (p *pipeline) close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	handlers := p.handlers
	p.handlers = nil
	p.mu.Unlock()

	var errs []error
	for _, fn := range handlers {
		if err := runHandler(fn); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Combine(errors.CloseFailed, errs...)
}

func runHandler(fn func() error) (err error) {
	defer errors.Recover(&err)
	return fn()
}
