package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/craigslist-search/internal/metrics"
)

// ErrBudgetExhausted is returned when the pacer's rolling request budget has
// been used up.
var ErrBudgetExhausted = errors.New("request budget exhausted")

// Pacer spaces outgoing page requests. It combines a token bucket for the
// per-second rate with an optional rolling-window budget. It is safe for
// concurrent use.
type Pacer struct {
	limiter     *rate.Limiter
	count       atomic.Int64
	budget      int64
	window      time.Duration
	windowStart time.Time
	resetAt     time.Time
	mu          sync.Mutex
	nowFunc     func() time.Time
}

// PacerOption configures the Pacer.
type PacerOption func(*Pacer)

// WithPacerNowFunc overrides the time function for testing.
func WithPacerNowFunc(f func() time.Time) PacerOption {
	return func(p *Pacer) {
		p.nowFunc = f
	}
}

// WithBudget caps the number of requests allowed per rolling window.
// Zero disables the cap.
func WithBudget(n int64, window time.Duration) PacerOption {
	return func(p *Pacer) {
		p.budget = n
		p.window = window
	}
}

// NewPacer creates a pacer allowing perSecond requests with the given burst.
func NewPacer(perSecond float64, burst int, opts ...PacerOption) *Pacer {
	if burst < 1 {
		burst = 1
	}
	p := &Pacer{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		window:  time.Hour,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.window <= 0 {
		p.window = time.Hour
	}
	now := p.nowFunc()
	p.windowStart = now
	p.resetAt = now.Add(p.window)
	return p
}

// Wait blocks until a request may be sent or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	p.checkReset()

	if err := p.reserve(); err != nil {
		return err
	}

	start := time.Now()
	if err := p.limiter.Wait(ctx); err != nil {
		p.count.Add(-1)
		return fmt.Errorf("pacer wait: %w", err)
	}
	metrics.FetchPacerWaitDuration.Observe(time.Since(start).Seconds())

	return nil
}

// reserve claims one request from the window, failing once the budget is
// spent. The slot is returned if the caller never sends the request.
func (p *Pacer) reserve() error {
	if p.budget <= 0 {
		p.count.Add(1)
		return nil
	}
	for {
		n := p.count.Load()
		if n >= p.budget {
			return fmt.Errorf("%w (%d/%d)", ErrBudgetExhausted, n, p.budget)
		}
		if p.count.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

// Count returns the number of requests admitted in the current window.
func (p *Pacer) Count() int64 {
	return p.count.Load()
}

// Remaining returns the requests left in the current window, or -1 when no
// budget is configured.
func (p *Pacer) Remaining() int64 {
	if p.budget <= 0 {
		return -1
	}
	remaining := p.budget - p.count.Load()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetAt returns when the current window expires.
func (p *Pacer) ResetAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resetAt
}

func (p *Pacer) checkReset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.nowFunc()
	if now.After(p.resetAt) {
		p.count.Store(0)
		p.windowStart = now
		p.resetAt = now.Add(p.window)
	}
}
