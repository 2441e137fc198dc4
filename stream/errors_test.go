package stream

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/gostream/errors"
	"github.com/kbukum/gostream/spliterator"
)

var errBad = stderrors.New("bad element")

func TestTryMap_ErrorSequential(t *testing.T) {
	var seen atomic.Int64
	s := TryMap(FromSlice(ints(100)), func(n int) (int, error) {
		seen.Add(1)
		if n == 10 {
			return 0, errBad
		}
		return n, nil
	})
	_, err := ToSlice(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeClosureFailed))
	assert.ErrorIs(t, err, errBad)
	assert.EqualValues(t, 10, seen.Load(), "traversal stops at the failing element")
}

func TestTryMap_ErrorParallel(t *testing.T) {
	s := TryMap(FromSlice(ints(2000)).WithPool(testPool(4)).Parallel(), func(n int) (int, error) {
		if n%100 == 0 {
			return 0, fmt.Errorf("element %d: %w", n, errBad)
		}
		return n, nil
	})
	_, err := ToSlice(context.Background(), s)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBad)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeClosureFailed, appErr.Code)
	for _, sup := range appErr.Suppressed() {
		assert.ErrorIs(t, sup, errBad)
	}
}

func TestClosure_Panic(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		s := FromSlice(ints(500))
		if parallel {
			s.WithPool(testPool(4)).Parallel()
		}
		_, err := ToSlice(context.Background(), Map(s, func(n int) int {
			if n == 250 {
				panic("boom")
			}
			return n
		}))
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodePanic), "parallel=%v: %v", parallel, err)
	}
}

func TestClosure_Throw(t *testing.T) {
	err := ForEach(context.Background(), Of(1, 2, 3), func(n int) {
		if n == 2 {
			errors.Throw(errBad)
		}
	})
	assert.Same(t, errBad, err)
}

func TestStream_Reuse(t *testing.T) {
	ctx := context.Background()
	s := Of(1, 2, 3)
	_, err := ToSlice(ctx, s)
	require.NoError(t, err)

	_, err = ToSlice(ctx, s)
	assert.True(t, errors.HasCode(err, errors.ErrCodeIllegalState))

	_, err = Count(ctx, Map(s, func(n int) int { return n }))
	assert.True(t, errors.HasCode(err, errors.ErrCodeIllegalState))
}

func TestStream_Relinking(t *testing.T) {
	src := Of(1, 2, 3)
	first := Map(src, func(n int) int { return n })
	second := Filter(src, isEven)

	_, err := ToSlice(context.Background(), first)
	require.NoError(t, err)
	_, err = ToSlice(context.Background(), second)
	assert.True(t, errors.HasCode(err, errors.ErrCodeIllegalState))
}

func TestStage_NegativeArguments(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Stream[int]) *Stream[int]
	}{
		{"limit", func(s *Stream[int]) *Stream[int] { return Limit(s, -1) }},
		{"skip", func(s *Stream[int]) *Stream[int] { return Skip(s, -3) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pulled atomic.Int64
			s := tt.build(FromSeq(countingSeq(10, &pulled)))
			_, err := ToSlice(context.Background(), Map(s, func(n int) int { return n }))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidArgument))
			assert.Zero(t, pulled.Load())
		})
	}

	_, err := ToSlice(context.Background(), Chunk(Of(1), 0))
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidArgument))
}

func TestFromList_ConcurrentModification(t *testing.T) {
	list := spliterator.NewList(1, 2, 3)
	err := ForEach(context.Background(), FromList(list), func(n int) {
		if n == 1 {
			list.Add(4)
		}
	})
	assert.True(t, errors.HasCode(err, errors.ErrCodeConcurrentModification))
}

func TestClose_Handlers(t *testing.T) {
	errA, errB := stderrors.New("a"), stderrors.New("b")
	var order []string
	s := Of(1).
		OnClose(func() error { order = append(order, "a"); return errA }).
		OnClose(func() error { order = append(order, "b"); return errB }).
		OnClose(func() error { order = append(order, "c"); return nil })

	err := s.Close()
	require.Error(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.True(t, errors.HasCode(err, errors.ErrCodeClose))
	assert.ErrorIs(t, err, errA)
	appErr, _ := errors.AsAppError(err)
	require.Len(t, appErr.Suppressed(), 1)
	assert.ErrorIs(t, appErr.Suppressed()[0], errB)

	assert.NoError(t, s.Close(), "handlers run once")

	_, err = ToSlice(context.Background(), s)
	assert.True(t, errors.HasCode(err, errors.ErrCodeIllegalState))
}

func TestEvaluate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ToSlice(ctx, Of(1, 2))
	assert.True(t, errors.HasCode(err, errors.ErrCodeCanceled))
}

func TestEvaluate_CancelDuringTraversal(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		ctx, cancel := context.WithCancel(context.Background())
		s := Generate(func() int { return 1 })
		if parallel {
			s.WithPool(testPool(2)).Parallel()
		}
		var seen atomic.Int64
		err := ForEach(ctx, s, func(int) {
			if seen.Add(1) == 100 {
				cancel()
			}
		})
		cancel()
		assert.True(t, errors.HasCode(err, errors.ErrCodeCanceled), "parallel=%v: %v", parallel, err)
	}
}
