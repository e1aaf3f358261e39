package fbr

import (
	"sync"
	"time"
)

// breaker is a minimal consecutive-failure circuit breaker. After threshold
// failures in a row it opens for the cooldown window; the first call after
// cooldown is allowed through as a probe.
type breaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	failures  int
	openedAt  time.Time
}

func newBreaker(threshold int, cooldown time.Duration) *breaker {
	if threshold <= 0 {
		threshold = 1
	}
	return &breaker{threshold: threshold, cooldown: cooldown}
}

func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures < b.threshold {
		return true
	}
	if time.Since(b.openedAt) >= b.cooldown {
		// Half-open: allow a probe, keep the open timestamp fresh so a
		// failed probe re-opens for a full cooldown.
		b.openedAt = time.Now()
		return true
	}
	return false
}

func (b *breaker) success() {
	b.mu.Lock()
	b.failures = 0
	b.mu.Unlock()
}

func (b *breaker) failure() {
	b.mu.Lock()
	b.failures++
	if b.failures == b.threshold {
		b.openedAt = time.Now()
	}
	b.mu.Unlock()
}
