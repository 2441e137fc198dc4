package stream

import (
	"cmp"
	"context"
	"strconv"
	"sync/atomic"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/gostream/spliterator"
)

func TestOf_ToSlice(t *testing.T) {
	got, err := ToSlice(context.Background(), Of(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestEmpty_ToSlice(t *testing.T) {
	got, err := ToSlice(context.Background(), Empty[string]())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSources(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		s    *Stream[int64]
		want []int64
	}{
		{"range", Range(0, 4), []int64{0, 1, 2, 3}},
		{"range closed", RangeClosed(2, 4), []int64{2, 3, 4}},
		{"empty range", Range(5, 1), []int64{}},
		{"iterate while", IterateWhile(int64(1), func(n int64) bool { return n < 20 }, func(n int64) int64 { return n * 3 }), []int64{1, 3, 9}},
		{"seq", FromSeq(func(yield func(int64) bool) {
			for _, v := range []int64{7, 8} {
				if !yield(v) {
					return
				}
			}
		}), []int64{7, 8}},
		{"supplier", FromSupplier(func() spliterator.Spliterator[int64] {
			return spliterator.OfSlice([]int64{4, 5}, 0)
		}, spliterator.Ordered|spliterator.Sized|spliterator.Subsized), []int64{4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToSlice(ctx, tt.s)
			require.NoError(t, err)
			if diff := gocmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromChannel(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "a"
	ch <- "b"
	close(ch)
	got, err := ToSlice(context.Background(), FromChannel(ch))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestFromIterator(t *testing.T) {
	i := 0
	it := spliterator.IteratorFunc[int](func() (int, bool) {
		if i == 3 {
			return 0, false
		}
		i++
		return i, true
	})
	s := FromIterator[int](it, 3)
	assert.True(t, s.Flags().Has(FlagSized|FlagOrdered))
	got, err := ToSlice(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestFromList(t *testing.T) {
	list := spliterator.NewList(1, 2)
	s := FromList(list)
	// the list is bound when the terminal operation starts
	list.Add(3)
	got, err := ToSlice(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestMap_Filter(t *testing.T) {
	s := Map(Filter(Of(1, 2, 3, 4, 5, 6), isEven), strconv.Itoa)
	got, err := ToSlice(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "6"}, got)
}

func TestTryMap(t *testing.T) {
	s := TryMap(Of("1", "2", "3"), strconv.Atoi)
	got, err := ToSlice(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestPeek_SeesEveryElementInOrder(t *testing.T) {
	var seen []int
	s := Peek(Of(3, 1, 2), func(n int) { seen = append(seen, n) })
	_, err := ToSlice(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, seen)
}

func TestFlatMapSlice(t *testing.T) {
	s := FlatMapSlice(Of(1, 2, 3), func(n int) []int { return []int{n, n * 10} })
	got, err := ToSlice(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 10, 2, 20, 3, 30}, got)
}

func TestFlatMap_Streams(t *testing.T) {
	var closed atomic.Int64
	s := FlatMap(Of(1, 2, 3), func(n int) *Stream[int] {
		if n == 2 {
			return nil
		}
		return Of(n, n*10).OnClose(func() error {
			closed.Add(1)
			return nil
		})
	})
	got, err := ToSlice(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 10, 3, 30}, got)
	assert.EqualValues(t, 2, closed.Load())
}

func TestFlatMap_StopsWhenSatisfied(t *testing.T) {
	var pulled atomic.Int64
	s := FlatMap(Iterate(1, func(n int) int { return n + 1 }), func(n int) *Stream[int] {
		return FromSeq(countingSeq(1000, &pulled))
	})
	got, err := ToSlice(context.Background(), Limit(s, 3))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Less(t, pulled.Load(), int64(10))
}

func TestMapMulti(t *testing.T) {
	s := MapMulti(Of("a,b", "", "c"), func(v string, emit func(byte)) {
		for i := 0; i < len(v); i++ {
			if v[i] != ',' {
				emit(v[i])
			}
		}
	})
	got, err := ToSlice(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestConcat(t *testing.T) {
	var order []string
	a := Of(1, 2).OnClose(func() error { order = append(order, "a"); return nil })
	b := Of(3).OnClose(func() error { order = append(order, "b"); return nil })
	s := Concat(a, b)
	got, err := ToSlice(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
	require.NoError(t, s.Close())
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestConcat_Parallel(t *testing.T) {
	s := Concat(FromSlice(ints(500)), Map(FromSlice(ints(500)), func(n int) int { return -n }))
	s.WithPool(testPool(4)).Parallel()
	got, err := ToSlice(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, got, 1000)
	assert.Equal(t, 1, got[0])
	assert.Equal(t, 500, got[499])
	assert.Equal(t, -1, got[500])
	assert.Equal(t, -500, got[999])
}

func TestLaziness(t *testing.T) {
	var pulled atomic.Int64
	s := Map(Filter(FromSeq(countingSeq(10, &pulled)), isEven), func(n int) int { return n * 2 })
	s = Limit(SortedNatural(s), 3)
	assert.Zero(t, pulled.Load(), "no element may be traversed before the terminal operation")

	got, err := ToSlice(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 8}, got)
	assert.Positive(t, pulled.Load())
}

func TestFlags(t *testing.T) {
	r := Range(0, 10)
	assert.Equal(t, FlagDistinct|FlagSorted|FlagOrdered|FlagSized, r.Flags())

	m := Map(r, func(n int64) int64 { return n })
	assert.Equal(t, FlagOrdered|FlagSized, m.Flags())

	f := Filter(m, isEven64)
	assert.Equal(t, FlagOrdered, f.Flags())

	l := Limit(f, 2)
	assert.Equal(t, FlagOrdered|FlagShortCircuit, l.Flags())

	u := l.Unordered()
	assert.Equal(t, FlagShortCircuit, u.Flags())
	assert.Equal(t, "SHORT_CIRCUIT", u.Flags().String())

	sorted := SortedNatural(FromSlice([]int{3, 1}))
	assert.True(t, sorted.Flags().Has(FlagSorted|FlagOrdered))
	byLen := Sorted(FromSlice([]string{"bb", "a"}), func(a, b string) int { return cmp.Compare(len(a), len(b)) })
	assert.False(t, byLen.Flags().Has(FlagSorted))
	assert.True(t, byLen.Flags().Has(FlagOrdered))
}

func TestParallel_SequentialSwitch(t *testing.T) {
	s := Of(1, 2, 3)
	assert.False(t, s.IsParallel())
	m := Map(s.Parallel(), func(n int) int { return n })
	assert.True(t, m.IsParallel())
	m.Sequential()
	assert.False(t, s.IsParallel(), "the mode applies to the whole pipeline")
}
