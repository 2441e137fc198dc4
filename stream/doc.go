// Package stream implements lazy, composable element pipelines evaluated
// either sequentially or by fork-join splitting over a worker pool.
//
// A pipeline starts at a source, such as FromSlice, Range or FromSeq,
// and is extended by intermediate operations (Filter, Map, Sorted, Limit and
// so on). Nothing is traversed until a terminal operation runs:
//
//	s := stream.Filter(stream.Range(0, 1_000_000), func(n int64) bool { return n%3 == 0 })
//	sum, err := stream.Sum(ctx, stream.Map(s, func(n int64) int64 { return n * n }))
//
// Intermediate operations are package-level functions because they may
// change the element type. Shape operations (Parallel, Sequential,
// Unordered, WithPool, OnClose) are methods.
//
// # Evaluation
//
// Each stage contributes a sink to a chain composed from the terminal back
// to the source. Sequential evaluation pushes every source element through
// that chain. Parallel evaluation splits the source recursively until the
// fragments fall under a size threshold derived from the pool parallelism,
// evaluates each fragment into a leaf result and combines the results left
// to right, so ordered pipelines produce the same result in both modes.
//
// Stateful operations (Sorted, Distinct, DropWhile, Chunk) act as barriers
// in parallel mode: their upstream is materialized in parallel and the
// operation is then applied to the materialized node.
//
// # Errors
//
// Terminal operations return an error instead of panicking. Invalid stage
// arguments, reuse of a consumed stream, errors returned through TryMap or
// raised with errors.Throw, panics in caller-supplied functions and context
// cancellation are all reported this way. Under parallel evaluation the
// first failure cancels sibling tasks and later failures are attached to it
// as suppressed errors.
//
// A stream may be consumed by a single terminal operation.
package stream
