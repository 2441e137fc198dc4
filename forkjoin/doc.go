// Package forkjoin runs recursively split work on a fixed number of worker
// slots.
//
// Tasks are goroutines, so creating one is cheap. What the pool bounds is how
// many tasks compute at the same time: a task calls Pool.Run to hold one of
// Parallelism slots while it does sequential work, and releases it before
// it waits on children. A parent blocked in Future.Join therefore never
// starves the workers its children need.
//
//	left := forkjoin.Fork(pool, func() (int, error) { return sum(ctx, lo, mid) })
//	r, err := sum(ctx, mid, hi)
//	l, lerr := left.Join()
package forkjoin
