// Package collector describes mutable reductions.
//
// A Collector bundles four functions and a characteristic set:
//
//   - supplier creates a fresh mutable accumulator
//   - accumulator folds one element into an accumulator in place
//   - combiner merges two accumulators built from disjoint parts of the input
//   - finisher turns the final accumulator into the result
//
// Accumulators must be reference types (pointers, maps, slices behind a
// pointer) since the accumulator function mutates them in place.
//
// Parallel evaluation gives every leaf task its own accumulator and merges
// them with the combiner, so a collector must satisfy
//
//	combiner(a, supplier()) == a
//
// and combining two partial results must equal accumulating their
// concatenation. Collectors declaring Concurrent may instead share one
// accumulator across goroutines.
//
// Collectors compose:
//
//	byParity := collector.GroupingBy(
//		func(n int) bool { return n%2 == 0 },
//		collector.Counting[int](),
//	)
package collector
