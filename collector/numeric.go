package collector

import (
	"math"

	"github.com/montanaflynn/stats"
	"golang.org/x/exp/constraints"

	"github.com/kbukum/gostream/errors"
)

// Number is any integer or floating-point type.
type Number interface {
	constraints.Integer | constraints.Float
}

// KahanSum is a compensated floating-point sum. Simple holds the plain sum,
// used to recover an infinity of the right sign when compensation yields
// NaN.
type KahanSum struct {
	sum    float64
	c      float64
	simple float64
}

// Add adds v.
func (k *KahanSum) Add(v float64) {
	k.simple += v
	k.addCompensated(v)
}

func (k *KahanSum) addCompensated(v float64) {
	tmp := v - k.c
	velvel := k.sum + tmp
	k.c = (velvel - k.sum) - tmp
	k.sum = velvel
}

// Merge adds the partial sum o, including its compensation term.
func (k *KahanSum) Merge(o *KahanSum) *KahanSum {
	k.addCompensated(o.sum)
	k.addCompensated(-o.c)
	k.simple += o.simple
	return k
}

// Sum returns the compensated total.
func (k *KahanSum) Sum() float64 {
	tmp := k.sum - k.c
	if math.IsNaN(tmp) && math.IsInf(k.simple, 0) {
		return k.simple
	}
	return tmp
}

// SummingInt sums the integer value of each element.
func SummingInt[T any, N constraints.Integer](mapper func(T) N) Collector[T, *N, N] {
	return OfFinished(
		func() *N { return new(N) },
		func(n *N, t T) { *n += mapper(t) },
		func(left, right *N) *N {
			*left += *right
			return left
		},
		func(n *N) N { return *n },
	)
}

// SummingFloat sums the floating-point value of each element with
// compensated summation.
func SummingFloat[T any, F constraints.Float](mapper func(T) F) Collector[T, *KahanSum, float64] {
	return OfFinished(
		func() *KahanSum { return &KahanSum{} },
		func(k *KahanSum, t T) { k.Add(float64(mapper(t))) },
		(*KahanSum).Merge,
		(*KahanSum).Sum,
	)
}

type intAverage struct {
	sum   int64
	count int64
}

// AveragingInt averages the integer value of each element. The average of
// no elements is 0.
func AveragingInt[T any, N constraints.Integer](mapper func(T) N) Collector[T, *intAverage, float64] {
	return OfFinished(
		func() *intAverage { return &intAverage{} },
		func(a *intAverage, t T) {
			a.sum += int64(mapper(t))
			a.count++
		},
		func(left, right *intAverage) *intAverage {
			left.sum += right.sum
			left.count += right.count
			return left
		},
		func(a *intAverage) float64 {
			if a.count == 0 {
				return 0
			}
			return float64(a.sum) / float64(a.count)
		},
	)
}

type floatAverage struct {
	KahanSum
	count int64
}

// AveragingFloat averages the floating-point value of each element with
// compensated summation. The average of no elements is 0.
func AveragingFloat[T any, F constraints.Float](mapper func(T) F) Collector[T, *floatAverage, float64] {
	return OfFinished(
		func() *floatAverage { return &floatAverage{} },
		func(a *floatAverage, t T) {
			a.Add(float64(mapper(t)))
			a.count++
		},
		func(left, right *floatAverage) *floatAverage {
			left.Merge(&right.KahanSum)
			left.count += right.count
			return left
		},
		func(a *floatAverage) float64 {
			if a.count == 0 {
				return 0
			}
			return a.Sum() / float64(a.count)
		},
	)
}

// IntSummary holds count, sum, min and max of integer values. Min and Max
// are math.MaxInt64 and math.MinInt64 when Count is 0.
type IntSummary struct {
	Count int64
	Sum   int64
	Min   int64
	Max   int64
}

// NewIntSummary returns an empty summary.
func NewIntSummary() *IntSummary {
	return &IntSummary{Min: math.MaxInt64, Max: math.MinInt64}
}

// Accept adds v.
func (s *IntSummary) Accept(v int64) {
	s.Count++
	s.Sum += v
	s.Min = min(s.Min, v)
	s.Max = max(s.Max, v)
}

// Combine merges o into s.
func (s *IntSummary) Combine(o *IntSummary) *IntSummary {
	s.Count += o.Count
	s.Sum += o.Sum
	s.Min = min(s.Min, o.Min)
	s.Max = max(s.Max, o.Max)
	return s
}

// Average returns the arithmetic mean, or 0 when empty.
func (s IntSummary) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}

// FloatSummary holds count, compensated sum, min and max of floating-point
// values. Min and Max are +Inf and -Inf when Count is 0; a NaN input makes
// both NaN.
type FloatSummary struct {
	Count int64
	Min   float64
	Max   float64
	sum   KahanSum
}

// NewFloatSummary returns an empty summary.
func NewFloatSummary() *FloatSummary {
	return &FloatSummary{Min: math.Inf(1), Max: math.Inf(-1)}
}

// Accept adds v.
func (s *FloatSummary) Accept(v float64) {
	s.Count++
	s.sum.Add(v)
	s.Min = math.Min(s.Min, v)
	s.Max = math.Max(s.Max, v)
}

// Combine merges o into s.
func (s *FloatSummary) Combine(o *FloatSummary) *FloatSummary {
	s.Count += o.Count
	s.sum.Merge(&o.sum)
	s.Min = math.Min(s.Min, o.Min)
	s.Max = math.Max(s.Max, o.Max)
	return s
}

// Sum returns the compensated sum.
func (s FloatSummary) Sum() float64 { return s.sum.Sum() }

// Average returns the arithmetic mean, or 0 when empty.
func (s FloatSummary) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum() / float64(s.Count)
}

// SummarizingInt computes an IntSummary over the integer value of each
// element.
func SummarizingInt[T any, N constraints.Integer](mapper func(T) N) Collector[T, *IntSummary, IntSummary] {
	return OfFinished(
		NewIntSummary,
		func(s *IntSummary, t T) { s.Accept(int64(mapper(t))) },
		(*IntSummary).Combine,
		func(s *IntSummary) IntSummary { return *s },
	)
}

// SummarizingFloat computes a FloatSummary over the floating-point value of
// each element.
func SummarizingFloat[T any, F constraints.Float](mapper func(T) F) Collector[T, *FloatSummary, FloatSummary] {
	return OfFinished(
		NewFloatSummary,
		func(s *FloatSummary, t T) { s.Accept(float64(mapper(t))) },
		(*FloatSummary).Combine,
		func(s *FloatSummary) FloatSummary { return *s },
	)
}

func collectFloats[T any, N Number](mapper func(T) N, finish func(stats.Float64Data) (float64, error)) Collector[T, *[]float64, Optional[float64]] {
	return OfFinished(
		func() *[]float64 { return new([]float64) },
		func(s *[]float64, t T) { *s = append(*s, float64(mapper(t))) },
		func(left, right *[]float64) *[]float64 {
			*left = append(*left, *right...)
			return left
		},
		func(s *[]float64) Optional[float64] {
			v, err := finish(*s)
			if err != nil {
				return None[float64]()
			}
			return Some(v)
		},
		Unordered,
	)
}

// Percentile computes the p-th percentile (0 < p <= 100) of the mapped
// values. The result is absent for empty input.
func Percentile[T any, N Number](p float64, mapper func(T) N) Collector[T, *[]float64, Optional[float64]] {
	c := collectFloats(mapper, func(d stats.Float64Data) (float64, error) {
		return stats.Percentile(d, p)
	})
	if !(p > 0 && p <= 100) {
		return withErr(c, errors.InvalidArgument("percentile", "must be in (0, 100]"))
	}
	return c
}

// Median computes the median of the mapped values. The result is absent for
// empty input.
func Median[T any, N Number](mapper func(T) N) Collector[T, *[]float64, Optional[float64]] {
	return collectFloats(mapper, stats.Median)
}
