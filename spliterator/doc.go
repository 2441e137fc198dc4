// Package spliterator defines splittable sequence sources.
//
// A Spliterator delivers the elements of a (possibly unbounded) sequence one
// at a time with TryAdvance, in bulk with ForEachRemaining, and can hand a
// part of its remaining elements to another Spliterator with TrySplit so the
// two halves can be traversed independently, typically by different
// fork-join tasks.
//
// After a successful split the two spliterators cover the original range
// disjointly and exhaustively. Ordered sources split off a prefix: the
// returned spliterator covers elements that come before those left in the
// receiver.
//
// # Adapters
//
//   - OfSlice: a slice, split at the midpoint
//   - Range, RangeClosed: int64 intervals
//   - List: a mutable, fail-fast, late-binding container
//   - FromIterator, FromSeq, FromChannel: sources of unknown size, split
//     by copying growing batches into arrays
//   - Generate, Iterate, IterateWhile: infinite or predicate-bounded sources
//   - Concat: one source after another
//   - Late: defers building a source until it is first traversed
package spliterator
