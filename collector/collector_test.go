package collector

import (
	"cmp"
	"iter"
	"math"
	"slices"
	"strings"
	"sync"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/gostream/errors"
)

// splitReduce accumulates items[:k] and items[k:] separately and combines
// them, as a two-leaf parallel evaluation would.
func splitReduce[T, A, R any](c Collector[T, A, R], items []T, k int) R {
	left, right := c.Supplier()(), c.Supplier()()
	for _, it := range items[:k] {
		c.Accumulator()(left, it)
	}
	for _, it := range items[k:] {
		c.Accumulator()(right, it)
	}
	return c.Finish(c.Combiner()(left, right))
}

// withEmpty combines a full accumulator with a fresh one.
func withEmpty[T, A, R any](c Collector[T, A, R], items []T) R {
	a := c.Supplier()()
	for _, it := range items {
		c.Accumulator()(a, it)
	}
	return c.Finish(c.Combiner()(a, c.Supplier()()))
}

func checkLaws[T, A, R any](t *testing.T, c Collector[T, A, R], items []T, normalize func(R) any) {
	t.Helper()
	if normalize == nil {
		normalize = func(r R) any { return r }
	}
	want := normalize(c.Reduce(items))
	assert.Equal(t, want, normalize(withEmpty(c, items)), "identity law")
	for k := 0; k <= len(items); k++ {
		assert.Equal(t, want, normalize(splitReduce(c, items, k)), "split at %d", k)
	}
}

var ints = []int{5, 3, 8, 1, 9, 2, 7, 4, 6, 10}

func TestCharacteristics(t *testing.T) {
	c := Of(func() map[int]struct{} { return nil }, func(map[int]struct{}, int) {}, func(a, _ map[int]struct{}) map[int]struct{} { return a }, Unordered)
	assert.True(t, c.Has(IdentityFinish|Unordered))
	assert.False(t, c.Has(Concurrent))
	assert.Equal(t, "UNORDERED|IDENTITY_FINISH", c.Characteristics().String())

	f := OfFinished(func() *int { return new(int) }, func(*int, int) {}, func(a, _ *int) *int { return a }, func(p *int) int { return *p }, IdentityFinish)
	assert.False(t, f.Has(IdentityFinish), "an explicit finisher is never identity")
}

func TestToSlice_ToSet(t *testing.T) {
	checkLaws(t, ToSlice[int](), ints, nil)
	assert.Equal(t, ints, ToSlice[int]().Reduce(ints))

	set := ToSet[int]().Reduce([]int{1, 2, 2, 3, 1})
	assert.Len(t, set, 3)
	checkLaws(t, ToSet[int](), []int{1, 2, 2, 3, 1}, nil)
}

func TestJoining(t *testing.T) {
	words := []string{"a", "bb", "ccc"}
	assert.Equal(t, "a,bb,ccc", Joining(",").Reduce(words))
	assert.Equal(t, "[a,bb,ccc]", JoiningWith(",", "[", "]").Reduce(words))
	assert.Equal(t, "[]", JoiningWith(",", "[", "]").Reduce(nil))
	checkLaws(t, Joining("-"), words, nil)
}

func TestCounting(t *testing.T) {
	assert.Equal(t, int64(10), Counting[int]().Reduce(ints))
	assert.Equal(t, int64(0), Counting[int]().Reduce(nil))
	checkLaws(t, Counting[int](), ints, nil)
}

func TestGroupingBy_Parity(t *testing.T) {
	c := GroupingBy(func(n int) bool { return n%2 == 0 }, Counting[int]())
	got := c.Reduce([]int{1, 2, 3, 4, 5, 6})
	assert.Equal(t, map[bool]int64{false: 3, true: 3}, got)
	checkLaws(t, c, []int{1, 2, 3, 4, 5, 6}, nil)
}

func TestGroupingBy_ListConcatenation(t *testing.T) {
	c := GroupingBy(func(s string) int { return len(s) }, ToSlice[string]())
	words := []string{"go", "is", "fun", "and", "fast", "ok"}
	got := c.Reduce(words)
	assert.Equal(t, map[int][]string{2: {"go", "is", "ok"}, 3: {"fun", "and"}, 4: {"fast"}}, got)
	checkLaws(t, c, words, nil)
}

func TestGroupingByTo(t *testing.T) {
	words := []string{"pear", "fig", "apple", "kiwi", "plum", "banana"}

	tree := GroupingByTo(func(s string) int { return len(s) }, TreeMap[int](), Counting[string]())
	m := tree.Reduce(words)
	assert.Equal(t, []int{3, 4, 5, 6}, m.Keys())
	checkLaws(t, tree, words, func(r Map[int, int64]) any { return ToGoMap(r) })

	linked := GroupingByTo(func(s string) byte { return s[0] }, LinkedMap[byte](), Joining("+"))
	lm := linked.Reduce(words)
	assert.Equal(t, []byte{'p', 'f', 'a', 'k', 'b'}, lm.Keys())
	v, ok := lm.Get('p')
	require.True(t, ok)
	assert.Equal(t, "pear+plum", v)

	desc := GroupingByTo(func(s string) int { return len(s) }, TreeMapFunc(func(a, b int) int { return cmp.Compare(b, a) }), Counting[string]())
	assert.Equal(t, []int{6, 5, 4, 3}, desc.Reduce(words).Keys())

	hash := GroupingByTo(func(s string) int { return len(s) }, HashMap[int](), Counting[string]())
	keys := hash.Reduce(words).Keys()
	slices.Sort(keys)
	assert.Equal(t, []int{3, 4, 5, 6}, keys)
}

func TestGroupingByConcurrent(t *testing.T) {
	c := GroupingByConcurrent(func(n int) int { return n % 3 }, Counting[int]())
	assert.True(t, c.Has(Concurrent|Unordered))

	shared := c.Supplier()()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w * 100; i < (w+1)*100; i++ {
				c.Accumulator()(shared, i)
			}
		}(w)
	}
	wg.Wait()
	got := c.Finish(shared)
	assert.Equal(t, map[int]int64{0: 267, 1: 267, 2: 266}, got)
	checkLaws(t, c, ints, nil)
}

func TestPartitioningBy(t *testing.T) {
	c := PartitioningBy(func(n int) bool { return n > 100 }, ToSlice[int]())
	got := c.Reduce([]int{1, 2, 3})
	require.Contains(t, got, true)
	assert.Empty(t, got[true])
	assert.Equal(t, []int{1, 2, 3}, got[false])
	checkLaws(t, c, ints, nil)
}

func TestToMap(t *testing.T) {
	c := ToMap(func(s string) string { return s[:1] }, func(s string) int { return len(s) })
	assert.Equal(t, map[string]int{"a": 5, "b": 6}, c.Reduce([]string{"apple", "banana"}))

	defer func() {
		err := errors.FromPanic(recover())
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeIllegalState))
		assert.Contains(t, err.Error(), "duplicate key a")
	}()
	c.Reduce([]string{"apple", "avocado"})
}

func TestToMap_Merge(t *testing.T) {
	c := ToMapMerge(func(s string) string { return s[:1] }, func(s string) string { return s }, func(a, b string) string { return a + "|" + b })
	words := []string{"apple", "avocado", "banana", "apricot"}
	assert.Equal(t, map[string]string{"a": "apple|avocado|apricot", "b": "banana"}, c.Reduce(words))
	checkLaws(t, c, words, nil)
}

func TestMinBy_MaxBy(t *testing.T) {
	type item struct {
		key, id int
	}
	items := []item{{3, 0}, {1, 1}, {5, 2}, {1, 3}, {5, 4}}
	byKey := func(a, b item) int { return cmp.Compare(a.key, b.key) }

	assert.Equal(t, Some(item{1, 1}), MinBy(byKey).Reduce(items))
	assert.Equal(t, Some(item{5, 2}), MaxBy(byKey).Reduce(items))
	assert.Equal(t, None[item](), MinBy(byKey).Reduce(nil))
	checkLaws(t, MinBy(byKey), items, nil)
	checkLaws(t, MaxBy(byKey), items, nil)
}

func TestReducing(t *testing.T) {
	sum := Reducing(0, func(a, b int) int { return a + b })
	assert.Equal(t, 55, sum.Reduce(ints))
	checkLaws(t, sum, ints, nil)

	lengths := ReducingMap(0, func(s string) int { return len(s) }, func(a, b int) int { return a + b })
	assert.Equal(t, 6, lengths.Reduce([]string{"a", "bb", "ccc"}))

	opt := ReducingOptional(func(a, b int) int { return max(a, b) })
	assert.Equal(t, Some(10), opt.Reduce(ints))
	assert.False(t, opt.Reduce(nil).Present)
	checkLaws(t, opt, ints, nil)
}

func TestComposition(t *testing.T) {
	upper := Mapping(strings.ToUpper, Joining(""))
	assert.Equal(t, "ABC", upper.Reduce([]string{"a", "b", "c"}))

	evens := Filtering(func(n int) bool { return n%2 == 0 }, Counting[int]())
	assert.Equal(t, int64(5), evens.Reduce(ints))
	checkLaws(t, evens, ints, nil)

	chars := FlatMapping(func(s string) iter.Seq[string] {
		return func(yield func(string) bool) {
			for _, r := range s {
				if !yield(string(r)) {
					return
				}
			}
		}
	}, ToSlice[string]())
	assert.Equal(t, []string{"a", "b", "c", "d"}, chars.Reduce([]string{"ab", "", "cd"}))

	size := CollectingAndThen(ToSlice[int](), func(s []int) int { return len(s) })
	assert.Equal(t, 10, size.Reduce(ints))
	assert.False(t, size.Has(IdentityFinish))

	mean := Teeing(SummingInt(func(n int) int { return n }), Counting[int](), func(sum int, n int64) float64 {
		return float64(sum) / float64(n)
	})
	assert.InDelta(t, 5.5, mean.Reduce(ints), 1e-12)
	checkLaws(t, mean, ints, nil)
}

func TestGroupingBy_MultiLevel(t *testing.T) {
	c := GroupingBy(func(n int) bool { return n%2 == 0 },
		GroupingBy(func(n int) bool { return n > 5 }, Counting[int]()))
	want := map[bool]map[bool]int64{
		false: {false: 3, true: 2},
		true:  {false: 2, true: 3},
	}
	assert.Equal(t, want, c.Reduce(ints))
	checkLaws(t, c, ints, nil)
}

func TestKahanSum(t *testing.T) {
	values := make([]float64, 0, 10001)
	values = append(values, 1.0)
	for i := 0; i < 10000; i++ {
		values = append(values, 1e-16)
	}

	naive := 0.0
	for _, v := range values {
		naive += v
	}
	c := SummingFloat(func(f float64) float64 { return f })
	got := c.Reduce(values)
	assert.Equal(t, 1.0, naive, "naive summation drops every small term")
	assert.InDelta(t, 1.0+1e-12, got, 1e-15)
	assert.InDelta(t, got, splitReduce(c, values, 5000), 1e-15)
}

func TestKahanSum_InfinityRecovery(t *testing.T) {
	c := SummingFloat(func(f float64) float64 { return f })
	assert.True(t, math.IsInf(c.Reduce([]float64{math.Inf(1), 1}), 1))
	assert.True(t, math.IsInf(c.Reduce([]float64{math.MaxFloat64, math.MaxFloat64}), 1))
	assert.True(t, math.IsInf(c.Reduce([]float64{math.Inf(-1), -3}), -1))
	assert.True(t, math.IsNaN(c.Reduce([]float64{math.Inf(1), math.Inf(-1)})))
}

func TestAveraging(t *testing.T) {
	assert.InDelta(t, 5.5, AveragingInt(func(n int) int { return n }).Reduce(ints), 1e-12)
	assert.Equal(t, 0.0, AveragingInt(func(n int) int { return n }).Reduce(nil))

	avg := AveragingFloat(func(f float64) float64 { return f })
	assert.InDelta(t, 2.0, avg.Reduce([]float64{1, 2, 3}), 1e-12)
	checkLaws(t, avg, []float64{1, 2, 3, 4}, nil)
}

func TestSummarizing(t *testing.T) {
	s := SummarizingInt(func(n int) int { return n }).Reduce(ints)
	assert.Equal(t, IntSummary{Count: 10, Sum: 55, Min: 1, Max: 10}, s)
	assert.InDelta(t, 5.5, s.Average(), 1e-12)

	empty := SummarizingInt(func(n int) int { return n }).Reduce(nil)
	assert.Equal(t, int64(math.MaxInt64), empty.Min)
	assert.Equal(t, 0.0, empty.Average())
	checkLaws(t, SummarizingInt(func(n int) int { return n }), ints, nil)

	fs := SummarizingFloat(func(f float64) float64 { return f }).Reduce([]float64{2.5, -1, 4})
	assert.Equal(t, int64(3), fs.Count)
	assert.Equal(t, -1.0, fs.Min)
	assert.Equal(t, 4.0, fs.Max)
	assert.InDelta(t, 5.5, fs.Sum(), 1e-12)
	checkLaws(t, SummarizingFloat(func(f float64) float64 { return f }), []float64{2.5, -1, 4}, func(s FloatSummary) any {
		return [4]float64{float64(s.Count), s.Min, s.Max, s.Sum()}
	})
}

func TestPercentile_Median(t *testing.T) {
	id := func(n int) int { return n }
	assert.Equal(t, Some(5.5), Median(id).Reduce(ints))
	assert.False(t, Median(id).Reduce(nil).Present)

	p90 := Percentile(90, id)
	require.NoError(t, p90.Err())
	got, ok := p90.Reduce(ints).Get()
	require.True(t, ok)
	assert.Equal(t, 9.0, got)

	bad := Percentile(0, id)
	require.Error(t, bad.Err())
	assert.True(t, errors.HasCode(bad.Err(), errors.ErrCodeInvalidArgument))
	assert.Error(t, Mapping(func(s string) int { return len(s) }, bad).Err(), "errors survive composition")
}

func TestMapKinds(t *testing.T) {
	m := NewMap[string, int](TreeMap[string]())
	m.Put("b", 2)
	m.Put("a", 1)
	m.Put("c", 3)
	m.Put("a", 10)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 10, v)
	_, ok = m.Get("z")
	assert.False(t, ok)

	diff := gocmp.Diff(map[string]int{"a": 10, "b": 2, "c": 3}, ToGoMap(m), cmpopts.EquateEmpty())
	assert.Empty(t, diff)
}

func TestOptional(t *testing.T) {
	assert.Equal(t, 3, None[int]().OrElse(3))
	assert.Equal(t, 7, Some(7).OrElse(3))
	assert.Equal(t, "Optional[7]", Some(7).String())
	assert.Equal(t, "Optional.empty", None[int]().String())
}
