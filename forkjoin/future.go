package forkjoin

import (
	"github.com/kbukum/gostream/errors"
)

// Future is the pending result of a forked task.
type Future[R any] struct {
	done chan struct{}
	val  R
	err  error
}

// Fork starts fn on a new goroutine and returns its future. fn does not hold
// a worker slot unless it calls p.Run. A panic in fn is recovered and
// returned from Join.
func Fork[R any](p *Pool, fn func() (R, error)) *Future[R] {
	f := &Future[R]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer errors.Recover(&f.err)
		f.val, f.err = fn()
	}()
	return f
}

// Join waits for the task and returns its result.
func (f *Future[R]) Join() (R, error) {
	<-f.done
	return f.val, f.err
}

// Done returns a channel closed when the task completes.
func (f *Future[R]) Done() <-chan struct{} { return f.done }
