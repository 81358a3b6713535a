package gorillaws

import (
	"math"
	"math/rand"
	"time"
)

// Retryer decides how long a Feed waits before dialing again after losing the push
// connection. attempt counts failed dials since the last successful one, from 0.
type Retryer interface {
	NextDelay(attempt int, lastErr error) (time.Duration, bool)
	Reset()
}

// Backoff doubles the wait after every failed dial, capped at Max.
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64

	// MaxRetries of 0 retries forever.
	MaxRetries int

	// Jitter is the fraction of the delay randomly added or removed.
	Jitter float64
}

func NewBackoff() *Backoff {
	return &Backoff{
		Initial:    time.Second,
		Max:        30 * time.Second,
		Multiplier: 2,
		Jitter:     0.2,
	}
}

func (b *Backoff) NextDelay(attempt int, _ error) (time.Duration, bool) {
	if b.MaxRetries > 0 && attempt >= b.MaxRetries {
		return 0, false
	}

	delay := float64(b.Initial) * math.Pow(b.Multiplier, float64(attempt))
	if b.Max > 0 && delay > float64(b.Max) {
		delay = float64(b.Max)
	}
	if b.Jitter > 0 {
		//nolint:gosec // jitter only
		delay += delay * b.Jitter * (2*rand.Float64() - 1)
		if delay < 0 {
			delay = float64(b.Initial)
		}
	}

	return time.Duration(delay), true
}

func (b *Backoff) Reset() {}

// FixedDelay waits Delay between dials.
type FixedDelay struct {
	Delay      time.Duration
	MaxRetries int
}

func NewFixedDelay(delay time.Duration, maxRetries int) *FixedDelay {
	return &FixedDelay{Delay: delay, MaxRetries: maxRetries}
}

func (r *FixedDelay) NextDelay(attempt int, _ error) (time.Duration, bool) {
	if r.MaxRetries > 0 && attempt >= r.MaxRetries {
		return 0, false
	}
	return r.Delay, true
}

func (r *FixedDelay) Reset() {}
