package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a fixed-window in-memory rate limiter keyed by an arbitrary string.
type Limiter struct {
	mu       sync.Mutex
	counters map[string]*counter
	window   time.Duration
	max      int
	now      func() time.Time
	cancel   context.CancelFunc
}

type counter struct {
	count     int
	expiresAt time.Time
}

// NewLimiter allows max requests per key within each window.
func NewLimiter(window time.Duration, max int) *Limiter {
	return &Limiter{
		counters: make(map[string]*counter),
		window:   window,
		max:      max,
		now:      time.Now,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, exists := l.counters[key]
	if !exists || now.After(c.expiresAt) {
		l.counters[key] = &counter{
			count:     1,
			expiresAt: now.Add(l.window),
		}
		return true
	}
	if c.count >= l.max {
		return false
	}
	c.count++
	return true
}

// Remaining returns how many requests key may still make in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, exists := l.counters[key]
	if !exists || l.now().After(c.expiresAt) {
		return l.max
	}
	if remaining := l.max - c.count; remaining > 0 {
		return remaining
	}
	return 0
}

// Sweep drops expired counters and returns how many were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for key, c := range l.counters {
		if now.After(c.expiresAt) {
			delete(l.counters, key)
			n++
		}
	}
	return n
}

// Start sweeps expired counters every window until Stop or ctx is done.
func (l *Limiter) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(l.window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Sweep()
			}
		}
	}()
}

func (l *Limiter) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
}
