// Package errors provides the structured error type used across gostream.
//
// Every failure surfaced by a terminal operation is either an *AppError or
// wraps one. AppError carries a machine-readable code, an optional cause and
// any secondary failures observed while the primary one was being handled
// (for example by sibling tasks of a parallel evaluation, or by later close
// handlers). Secondary failures are combined with go.uber.org/multierr.
//
// Caller-supplied functions run deep inside a sink chain and have no error
// return. They abort an evaluation with Throw; the engine recovers the value
// at the task boundary and turns it back into an error with FromPanic.
package errors
