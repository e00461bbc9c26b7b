package translator

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultDelay is the minimum spacing between two service calls.
const DefaultDelay = 300 * time.Millisecond

// Paced serializes calls to the wrapped client and spaces them at least
// delay apart. The first call is not delayed.
type Paced struct {
	next    Client
	limiter *rate.Limiter
	mu      sync.Mutex
	calls   int
}

// NewPaced wraps next. A non-positive delay disables pacing.
func NewPaced(next Client, delay time.Duration) *Paced {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Paced{next: next, limiter: rate.NewLimiter(limit, 1)}
}

var _ Client = (*Paced)(nil)

// Translate waits for the pacing slot, then forwards the call. A cancelled
// context ends the wait with a failed result.
func (p *Paced) Translate(ctx context.Context, text string, dir Direction) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.limiter.Wait(ctx); err != nil {
		return Fail(err)
	}
	p.calls++
	return p.next.Translate(ctx, text, dir)
}

// Calls returns the number of forwarded calls.
func (p *Paced) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
