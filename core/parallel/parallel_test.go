package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/YuminosukeSato/langid/pkg/errors"
)

func TestForEach_WritesEveryIndex(t *testing.T) {
	out := make([]int, 100)
	err := ForEach(context.Background(), len(out), 4, func(_ context.Context, i int) error {
		out[i] = i * i
		return nil
	})
	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}
}

func TestForEach_ReturnsError(t *testing.T) {
	boom := errors.New("boom")
	err := ForEach(context.Background(), 10, 2, func(_ context.Context, i int) error {
		if i == 3 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestForEach_RecoversPanic(t *testing.T) {
	err := ForEach(context.Background(), 4, 0, func(_ context.Context, i int) error {
		if i == 2 {
			panic("bad index")
		}
		return nil
	})
	var panicErr *lerrors.PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "parallel.ForEach", panicErr.Operation)
}

func TestForEach_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int32
	err := ForEach(ctx, 50, 1, func(_ context.Context, i int) error {
		calls.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}

func TestForEach_Empty(t *testing.T) {
	assert.NoError(t, ForEach(context.Background(), 0, 4, nil))
}

func TestParallelize_CoversRange(t *testing.T) {
	for _, n := range []int{1, 7, 1000} {
		var seen = make([]int32, n)
		Parallelize(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			assert.Equal(t, int32(1), c, "n=%d index %d", n, i)
		}
	}
}

func TestParallelizeWithThreshold_Sequential(t *testing.T) {
	var calls int
	ParallelizeWithThreshold(10, 100, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, 1, calls)
}
