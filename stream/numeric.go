package stream

import (
	"context"

	"golang.org/x/exp/constraints"

	"github.com/kbukum/gostream/collector"
)

func self[N any](n N) N { return n }

// Sum returns the sum of the elements, or zero for an empty stream.
func Sum[N constraints.Integer](ctx context.Context, s *Stream[N]) (N, error) {
	return Reduce(ctx, s, 0, func(a, b N) N { return a + b })
}

// SumFloat returns the compensated sum of the elements. Infinite inputs
// yield a correctly signed infinity.
func SumFloat[F constraints.Float](ctx context.Context, s *Stream[F]) (float64, error) {
	return Collect(ctx, s, collector.SummingFloat(self[F]))
}

// Average returns the arithmetic mean of the elements. ok is false for an
// empty stream.
func Average[N constraints.Integer](ctx context.Context, s *Stream[N]) (avg float64, ok bool, err error) {
	sum, err := Summarize(ctx, s)
	if err != nil || sum.Count == 0 {
		return 0, false, err
	}
	return sum.Average(), true, nil
}

// AverageFloat returns the mean of the elements using compensated
// summation. ok is false for an empty stream.
func AverageFloat[F constraints.Float](ctx context.Context, s *Stream[F]) (avg float64, ok bool, err error) {
	sum, err := SummarizeFloat(ctx, s)
	if err != nil || sum.Count == 0 {
		return 0, false, err
	}
	return sum.Average(), true, nil
}

// Summarize returns count, sum, min and max of the elements.
func Summarize[N constraints.Integer](ctx context.Context, s *Stream[N]) (collector.IntSummary, error) {
	return Collect(ctx, s, collector.SummarizingInt(self[N]))
}

// SummarizeFloat returns count, compensated sum, min and max of the
// elements.
func SummarizeFloat[F constraints.Float](ctx context.Context, s *Stream[F]) (collector.FloatSummary, error) {
	return Collect(ctx, s, collector.SummarizingFloat(self[F]))
}
