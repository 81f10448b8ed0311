// Package backoff provides retry delay strategies for scheduled jobs.
// Strategies are stateless and safe for concurrent use.
package backoff

import (
	"math/rand/v2"
	"time"
)

// Strategy computes the delay before a retry attempt.
type Strategy interface {
	// Delay returns how long to wait before retry attempt n (1-indexed).
	Delay(attempt int) time.Duration
}

// Constant always returns the same delay regardless of attempt number.
type Constant struct {
	Interval time.Duration
}

// NewConstant creates a constant backoff strategy.
func NewConstant(interval time.Duration) *Constant {
	return &Constant{Interval: interval}
}

// Delay returns the fixed interval.
func (c *Constant) Delay(_ int) time.Duration {
	return c.Interval
}

// ConstantWithJitter adds a uniformly distributed offset in [0, Jitter) to a
// fixed interval so retries of a large batch do not all land on the same tick.
type ConstantWithJitter struct {
	Interval time.Duration
	Jitter   time.Duration
}

// NewConstantWithJitter creates a constant backoff with additive jitter.
func NewConstantWithJitter(interval, jitter time.Duration) *ConstantWithJitter {
	return &ConstantWithJitter{Interval: interval, Jitter: jitter}
}

// Delay returns Interval plus a random duration below Jitter.
func (c *ConstantWithJitter) Delay(_ int) time.Duration {
	if c.Jitter <= 0 {
		return c.Interval
	}
	return c.Interval + rand.N(c.Jitter) //nolint:gosec // jitter does not need crypto rand
}

// Linear increases the delay linearly with the attempt number.
// Delay = min(Initial * attempt, Max).
type Linear struct {
	Initial time.Duration
	Max     time.Duration
}

// NewLinear creates a linear backoff strategy.
func NewLinear(initial, maxDelay time.Duration) *Linear {
	return &Linear{Initial: initial, Max: maxDelay}
}

// Delay returns Initial * attempt, capped at Max.
func (l *Linear) Delay(attempt int) time.Duration {
	d := l.Initial * time.Duration(attempt)
	if l.Max > 0 && d > l.Max {
		return l.Max
	}
	return d
}

// DefaultStrategy is the fixed one hour delay used for reminder and care plan emails.
func DefaultStrategy() Strategy {
	return NewConstant(time.Hour)
}

// FromConfig picks ConstantWithJitter when jitter is positive and Constant otherwise.
func FromConfig(interval, jitter time.Duration) Strategy {
	if interval <= 0 {
		return DefaultStrategy()
	}
	if jitter > 0 {
		return NewConstantWithJitter(interval, jitter)
	}
	return NewConstant(interval)
}
