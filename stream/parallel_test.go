package stream

import (
	"context"
	"strconv"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/gostream/collector"
	"github.com/kbukum/gostream/observability"
)

// The same pipeline must give the same result sequentially and under any
// split topology.
func TestParallel_EquivalentToSequential(t *testing.T) {
	ctx := context.Background()
	items := ints(3000)

	type result struct {
		Slice   []string
		Groups  map[int][]int
		Sum     int
		Sorted  []int
		Limited []int
		Joined  string
	}

	run := func(src func() *Stream[int]) result {
		var r result
		var err error
		r.Slice, err = ToSlice(ctx, Map(Filter(src(), func(n int) bool { return n%3 != 0 }), strconv.Itoa))
		require.NoError(t, err)
		r.Groups, err = Collect(ctx, src(), collector.GroupingBy(func(n int) int { return n % 7 }, collector.ToSlice[int]()))
		require.NoError(t, err)
		r.Sum, err = Sum(ctx, Map(src(), func(n int) int { return n * 2 }))
		require.NoError(t, err)
		r.Sorted, err = ToSlice(ctx, Limit(Sorted(src(), func(a, b int) int { return b - a }), 10))
		require.NoError(t, err)
		r.Limited, err = ToSlice(ctx, Limit(Skip(Distinct(Map(src(), func(n int) int { return n / 2 })), 5), 20))
		require.NoError(t, err)
		r.Joined, err = Collect(ctx, Limit(Map(src(), strconv.Itoa), 50), collector.Joining("-"))
		require.NoError(t, err)
		return r
	}

	want := run(func() *Stream[int] { return FromSlice(items) })

	for _, parallelism := range []int{1, 2, 7} {
		pool := testPool(parallelism)
		for seed := int64(0); seed < 5; seed++ {
			got := run(func() *Stream[int] {
				return FromSpliterator(newRandomSplitter(items, seed)).WithPool(pool).Parallel()
			})
			if diff := gocmp.Diff(want, got); diff != "" {
				t.Fatalf("parallelism %d seed %d mismatch (-want +got):\n%s", parallelism, seed, diff)
			}
		}
	}
}

func TestParallel_LimitOnOrderedSizedSource(t *testing.T) {
	for i := 0; i < 20; i++ {
		s := RangeClosed(1, 1000).WithPool(testPool(8)).Parallel()
		got, err := ToSlice(context.Background(), Limit(s, 5))
		require.NoError(t, err)
		require.Equal(t, []int64{1, 2, 3, 4, 5}, got)
	}
}

func TestParallel_UsesSeveralLeaves(t *testing.T) {
	s := FromSlice(ints(10_000)).WithPool(testPool(4)).Parallel()
	var ev *evaluation
	_, err := evaluate(context.Background(), s, "countLeaves", opFlags{}, func(e *evaluation, seg segment[int]) int64 {
		ev = e
		return reduction(e, seg, func(seg segment[int], tok *token) int64 {
			var n int64
			e.drive(seg.bind(countSink[int]{&n}), tok)
			return n
		}, func(a, b int64) int64 { return a + b })
	})
	require.NoError(t, err)
	require.Greater(t, ev.leaves.Load(), int64(1))
	require.EqualValues(t, 10_000/16, ev.threshold.Load())
}

func TestParallel_LeafSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	s := Filter(FromSlice(ints(4000)), isEven).WithPool(testPool(4)).Parallel()
	n, err := Count(context.Background(), s)
	require.NoError(t, err)
	assert.EqualValues(t, 2000, n)

	var leaves, roots int
	var rootID string
	for _, span := range exporter.GetSpans() {
		switch span.Name {
		case observability.SpanEvaluate:
			roots++
			rootID = span.SpanContext.SpanID().String()
		case observability.SpanLeaf:
			leaves++
		}
	}
	require.Equal(t, 1, roots)
	assert.Greater(t, leaves, 1)
	for _, span := range exporter.GetSpans() {
		if span.Name == observability.SpanLeaf {
			assert.Equal(t, rootID, span.Parent.SpanID().String())
		}
	}
}

type countSink[T any] struct {
	n *int64
}

func (countSink[T]) Begin(int64)                 {}
func (s countSink[T]) Accept(T)                  { *s.n++ }
func (countSink[T]) End()                        {}
func (countSink[T]) CancellationRequested() bool { return false }
