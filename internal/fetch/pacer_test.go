package fetch_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/craigslist-search/internal/fetch"
)

func TestPacer_Wait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rate    float64
		burst   int
		budget  int64
		calls   int
		wantErr bool
	}{
		{
			name:  "allows calls within rate",
			rate:  100,
			burst: 10,
			calls: 3,
		},
		{
			name:  "allows burst",
			rate:  100,
			burst: 5,
			calls: 5,
		},
		{
			name:   "allows calls within budget",
			rate:   100,
			burst:  10,
			budget: 3,
			calls:  3,
		},
		{
			name:    "rejects when budget exhausted",
			rate:    100,
			burst:   10,
			budget:  2,
			calls:   3,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := fetch.NewPacer(tt.rate, tt.burst, fetch.WithBudget(tt.budget, time.Hour))

			var lastErr error
			for range tt.calls {
				lastErr = p.Wait(context.Background())
				if lastErr != nil {
					break
				}
			}

			if tt.wantErr {
				require.Error(t, lastErr)
				assert.ErrorIs(t, lastErr, fetch.ErrBudgetExhausted)
			} else {
				require.NoError(t, lastErr)
			}
		})
	}
}

func TestPacer_Count(t *testing.T) {
	t.Parallel()

	p := fetch.NewPacer(100, 10)

	assert.Equal(t, int64(0), p.Count())
	assert.Equal(t, int64(-1), p.Remaining())

	require.NoError(t, p.Wait(context.Background()))
	assert.Equal(t, int64(1), p.Count())

	require.NoError(t, p.Wait(context.Background()))
	assert.Equal(t, int64(2), p.Count())
}

func TestPacer_WindowReset(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	currentTime := now

	p := fetch.NewPacer(
		100, 10,
		fetch.WithBudget(5, time.Hour),
		fetch.WithPacerNowFunc(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return currentTime
		}),
	)

	require.NoError(t, p.Wait(context.Background()))
	require.NoError(t, p.Wait(context.Background()))
	assert.Equal(t, int64(2), p.Count())
	assert.Equal(t, int64(3), p.Remaining())
	assert.Equal(t, now.Add(time.Hour), p.ResetAt())

	mu.Lock()
	currentTime = now.Add(61 * time.Minute)
	mu.Unlock()

	require.NoError(t, p.Wait(context.Background()))
	assert.Equal(t, int64(1), p.Count())
	assert.Equal(t, now.Add(2*time.Hour+time.Minute), p.ResetAt())
}

func TestPacer_ContextCanceled(t *testing.T) {
	t.Parallel()

	// One token, refilled very slowly.
	p := fetch.NewPacer(0.001, 1)
	require.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Wait(ctx)
	require.Error(t, err)
	assert.Equal(t, int64(1), p.Count())
}

func TestPacer_Concurrent(t *testing.T) {
	t.Parallel()

	p := fetch.NewPacer(1000, 50)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Wait(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(20), p.Count())
}

func TestPacer_ConcurrentBudget(t *testing.T) {
	t.Parallel()

	const budget = 7
	p := fetch.NewPacer(10000, 100, fetch.WithBudget(budget, time.Hour))

	var (
		wg        sync.WaitGroup
		admitted  atomic.Int32
		exhausted atomic.Int32
		start     = make(chan struct{})
	)
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := p.Wait(context.Background())
			switch {
			case err == nil:
				admitted.Add(1)
			case errors.Is(err, fetch.ErrBudgetExhausted):
				exhausted.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(budget), admitted.Load())
	assert.Equal(t, int32(64-budget), exhausted.Load())
	assert.Equal(t, int64(budget), p.Count())
	assert.Equal(t, int64(0), p.Remaining())
}
