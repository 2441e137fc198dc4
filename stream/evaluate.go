package stream

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/gostream/errors"
	"github.com/kbukum/gostream/forkjoin"
	"github.com/kbukum/gostream/logger"
	"github.com/kbukum/gostream/node"
	"github.com/kbukum/gostream/observability"
	"github.com/kbukum/gostream/sink"
	"github.com/kbukum/gostream/spliterator"
)

const (
	modeSequential = "sequential"
	modeParallel   = "parallel"
)

// token is a cancellation flag. A token is cancelled when it or any of its
// ancestors is.
type token struct {
	parent *token
	flag   atomic.Bool
}

func (t *token) child() *token { return &token{parent: t} }

func (t *token) cancel() { t.flag.Store(true) }

func (t *token) cancelled() bool {
	for c := t; c != nil; c = c.parent {
		if c.flag.Load() {
			return true
		}
	}
	return false
}

// evaluation is the state of one terminal operation.
type evaluation struct {
	ctx       context.Context
	id        string
	op        string
	parallel  bool
	pool      *forkjoin.Pool
	flags     Flags
	checkEach bool
	root      *token

	leaves    atomic.Int64
	threshold atomic.Int64
	failed    atomic.Bool

	mu         sync.Mutex
	primary    error
	suppressed []error
	held       []spliterator.Releaser
}

func newEvaluation(ctx context.Context, st *stage, op string, terminal opFlags) *evaluation {
	ev := &evaluation{
		ctx:      ctx,
		id:       uuid.NewString(),
		op:       op,
		parallel: st.p.parallel.Load(),
		flags:    terminal.apply(st.combined()),
		root:     &token{},
	}
	if ev.parallel {
		ev.pool = st.p.poolOrDefault()
	}
	ev.checkEach = ev.parallel || ev.flags.Has(FlagShortCircuit) || ctx.Done() != nil
	return ev
}

func (ev *evaluation) mode() string {
	if ev.parallel {
		return modeParallel
	}
	return modeSequential
}

// aborted unwinds a goroutine of an evaluation that has already failed.
type aborted struct {
	ev *evaluation
}

func (a aborted) Error() string { return "stream: evaluation aborted" }

// fail records err and cancels every task of the evaluation. The first
// error wins; later ones are kept as suppressed, except cancellations,
// which only echo the first failure.
func (ev *evaluation) fail(err error) {
	if err == nil {
		return
	}
	if a, ok := err.(aborted); ok {
		if a.ev == ev {
			return
		}
		if err = a.ev.firstError(); err == nil {
			return
		}
	}
	ev.mu.Lock()
	switch {
	case ev.primary == nil:
		ev.primary = err
	case errors.HasCode(err, errors.ErrCodeCanceled):
	default:
		ev.suppressed = append(ev.suppressed, err)
	}
	ev.mu.Unlock()
	ev.failed.Store(true)
	ev.root.cancel()
}

// hold registers src to be released when the evaluation ends.
func (ev *evaluation) hold(src any) {
	r, ok := src.(spliterator.Releaser)
	if !ok {
		return
	}
	ev.mu.Lock()
	ev.held = append(ev.held, r)
	ev.mu.Unlock()
}

// release releases held sources in reverse order of registration. It must
// be called after every task has finished; a panic while releasing fails
// the evaluation.
func (ev *evaluation) release() {
	ev.mu.Lock()
	held := ev.held
	ev.held = nil
	ev.mu.Unlock()
	for i := len(held) - 1; i >= 0; i-- {
		guarded(ev, func() struct{} {
			held[i].Release()
			return struct{}{}
		})
	}
}

func (ev *evaluation) isFailed() bool { return ev.failed.Load() }

// check unwinds the caller if the evaluation has failed.
func (ev *evaluation) check() {
	if ev.failed.Load() {
		errors.Throw(aborted{ev: ev})
	}
}

func (ev *evaluation) firstError() error {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return ev.primary
}

// result returns the outcome of the evaluation. It must be called once,
// after every task has finished.
func (ev *evaluation) result() error {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	if ev.primary == nil {
		return nil
	}
	if len(ev.suppressed) == 0 {
		return ev.primary
	}
	errs := append([]error{ev.primary}, ev.suppressed...)
	return errors.Combine(func(err error) *errors.AppError {
		return errors.ClosureFailed(ev.op, err)
	}, errs...)
}

// drive runs one bound fragment to completion or cancellation. End is
// always forwarded once Begin was.
func (ev *evaluation) drive(d driver, tok *token) {
	d.begin()
	if ev.checkEach {
		for !tok.cancelled() && !d.cancellationRequested() && d.tryAdvance() {
		}
	} else {
		d.forEachRemaining()
	}
	d.end()
}

// guarded runs fn, recording a panic as a failure of ev.
func guarded[R any](ev *evaluation, fn func() R) (out R) {
	defer func() {
		if r := recover(); r != nil {
			ev.fail(errors.FromPanic(r))
		}
	}()
	return fn()
}

// forkJoin evaluates seg by recursive splitting. Fragments at or below the
// pool's target size become leaves; sibling results are combined left to
// right. After a failure leaves are skipped and combine is not called.
func forkJoin[T, R any](ev *evaluation, seg segment[T], leaf func(seg segment[T], tok *token) R, combine func(left, right R) R) R {
	threshold := ev.pool.SuggestTargetSize(seg.estimateSize())
	ev.threshold.Store(threshold)
	return forkJoinTask(ev, seg, ev.root, threshold, leaf, combine)
}

func forkJoinTask[T, R any](ev *evaluation, seg segment[T], tok *token, threshold int64, leaf func(segment[T], *token) R, combine func(R, R) R) R {
	var zero R
	if tok.cancelled() {
		return zero
	}
	if seg.estimateSize() <= threshold {
		return runLeaf(ev, seg, tok, leaf)
	}
	prefix := seg.trySplit()
	if prefix == nil {
		return runLeaf(ev, seg, tok, leaf)
	}
	right := forkjoin.Fork(ev.pool, func() (R, error) {
		return forkJoinTask(ev, seg, tok, threshold, leaf, combine), nil
	})
	left := guarded(ev, func() R {
		return forkJoinTask(ev, prefix, tok, threshold, leaf, combine)
	})
	r, err := right.Join()
	if err != nil {
		ev.fail(err)
	}
	if ev.isFailed() {
		return zero
	}
	return combine(left, r)
}

// runLeaf evaluates a fragment sequentially while holding a worker slot.
func runLeaf[T, R any](ev *evaluation, seg segment[T], tok *token, leaf func(segment[T], *token) R) R {
	var out R
	ctx, endLeaf := ev.ctx, func(error) {}
	if obs := observability.EvaluationFromContext(ev.ctx); obs != nil {
		ctx, endLeaf = obs.StartLeaf(ev.ctx)
	}
	err := ev.pool.Run(ctx, func() error {
		out = leaf(seg, tok)
		return nil
	})
	ev.leaves.Add(1)
	if err != nil {
		if ctxErr := ev.ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			err = errors.Canceled(err)
		}
		ev.fail(err)
	}
	endLeaf(err)
	return out
}

// materialize evaluates seg into a node, in parallel when ev is.
func materialize[T any](ev *evaluation, seg segment[T]) node.Node[T] {
	build := func(s segment[T], tok *token) node.Node[T] {
		b := node.NewBuilder[T](s.exactSize())
		ev.drive(s.bind(b), tok)
		return b.Build()
	}
	if !ev.parallel {
		return build(seg, ev.root)
	}
	return forkJoin(ev, seg, build, node.Conc[T])
}

// drain drives seg sequentially through wrap into a node and returns a
// segment over the node. Short-circuiting stages in wrap stop the upstream
// traversal.
func drain[U, T any](ev *evaluation, seg segment[U], wrap func(sink.Sink[T]) sink.Sink[U]) segment[T] {
	b := node.NewBuilder[T](-1)
	ev.drive(seg.bind(wrap(b)), ev.root)
	ev.check()
	return fromSpliterator(b.Build().Spliterator())
}

// barrier materializes seg in parallel, then applies wrap to the node
// sequentially.
func barrier[U, T any](ev *evaluation, seg segment[U], wrap func(sink.Sink[T]) sink.Sink[U]) segment[T] {
	n := materialize(ev, seg)
	ev.check()
	return drain(ev, fromSpliterator(n.Spliterator()), wrap)
}

// logMisuse reports an error caused by incorrect use of the API, such as
// reusing a stream or passing a negative limit.
func logMisuse(op string, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok || !errors.IsUsageCode(appErr.Code) {
		return
	}
	logger.WithComponent("stream").WithError(err).Warn("stream rejected", logger.Fields(
		logger.FieldOperation, op,
		"code", string(appErr.Code),
	))
}

// evaluate runs a terminal operation over s. fn receives the planned
// segment of the pipeline; its result is returned unless the evaluation
// failed.
func evaluate[T, R any](ctx context.Context, s *Stream[T], op string, terminal opFlags, fn func(ev *evaluation, seg segment[T]) R) (R, error) {
	var zero R
	if err := s.st.consume(); err != nil {
		logMisuse(op, err)
		return zero, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return zero, errors.Canceled(err)
	}

	ev := newEvaluation(ctx, s.st, op, terminal)
	ctx, obs := observability.StartEvaluation(ctx, op, ev.mode(), ev.id)
	ev.ctx = ctx
	log := logger.WithComponent("stream").WithContext(ctx)
	if log.DebugEnabled() {
		fields := logger.Fields(
			logger.FieldPipelineID, ev.id,
			logger.FieldOperation, op,
			logger.FieldMode, ev.mode(),
			"stages", s.st.depth,
			"flags", ev.flags.String(),
		)
		if ev.parallel {
			fields[logger.FieldParallelism] = ev.pool.Parallelism()
		}
		log.Debug("evaluation started", fields)
	}

	stop := context.AfterFunc(ctx, func() {
		ev.fail(errors.Canceled(ctx.Err()))
	})
	result := guarded(ev, func() R {
		return fn(ev, s.plan(ev))
	})
	stop()
	ev.release()

	err := ev.result()
	obs.SetLeaves(ev.leaves.Load())
	obs.End(ctx, err)
	if log.DebugEnabled() {
		fields := logger.Fields(
			logger.FieldPipelineID, ev.id,
			logger.FieldOperation, op,
			logger.FieldLeaves, ev.leaves.Load(),
			logger.FieldThreshold, ev.threshold.Load(),
			logger.FieldDuration, float64(obs.Duration())/float64(time.Millisecond),
		)
		if err != nil {
			log.WithError(err).Debug("evaluation failed", fields)
		} else {
			log.Debug("evaluation finished", fields)
		}
	}
	if err != nil {
		return zero, err
	}
	return result, nil
}
