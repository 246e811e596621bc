package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteKeepsOrder(t *testing.T) {
	var running, peak int32
	p := NewPool(3, func(_ context.Context, n int) (int, error) {
		cur := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		defer atomic.AddInt32(&running, -1)
		if n == 3 {
			return 0, errors.New("three")
		}
		return n * n, nil
	})

	results := p.Execute(context.Background(), []int{1, 2, 3, 4, 5})
	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, i+1, r.Input)
		if r.Input == 3 {
			assert.EqualError(t, r.Err, "three")
			continue
		}
		assert.NoError(t, r.Err)
		assert.Equal(t, r.Input*r.Input, r.Result)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPool(2, func(_ context.Context, s string) (string, error) {
		return s, nil
	})
	results := p.Execute(ctx, []string{"a", "b", "c"})

	require.Len(t, results, 3)
	for _, r := range results {
		if r.Err != nil {
			assert.ErrorIs(t, r.Err, context.Canceled)
		}
	}
	assert.Equal(t, "c", results[2].Input)
}

func TestNewPoolMinimumOneWorker(t *testing.T) {
	p := NewPool(0, func(_ context.Context, s string) (int, error) { return len(s), nil })
	results := p.Execute(context.Background(), []string{"ab"})
	assert.Equal(t, 2, results[0].Result)
}
