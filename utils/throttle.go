package utils

import (
	"sync"
	"time"
)

// Throttle enforces a minimum interval between consecutive calls to Wait.
// A zero interval never blocks.
type Throttle struct {
	mu          sync.Mutex
	interval    time.Duration
	lastRequest time.Time
}

// NewThrottle creates a Throttle allowing one request per rateLimitMs.
func NewThrottle(rateLimitMs int) *Throttle {
	return &Throttle{interval: time.Duration(rateLimitMs) * time.Millisecond}
}

// Wait blocks until the minimum interval since the previous call has elapsed.
func (t *Throttle) Wait() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.interval <= 0 {
		return
	}
	if !t.lastRequest.IsZero() {
		if elapsed := time.Since(t.lastRequest); elapsed < t.interval {
			time.Sleep(t.interval - elapsed)
		}
	}
	t.lastRequest = time.Now()
}
