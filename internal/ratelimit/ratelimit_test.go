package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLimiter(window time.Duration, max int) (*Limiter, *clock) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(window, max)
	l.now = c.now
	return l, c
}

func TestLimiter_Allow(t *testing.T) {
	limiter, c := newTestLimiter(time.Second, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("test-key"), "request %d", i+1)
	}
	assert.False(t, limiter.Allow("test-key"))
	assert.True(t, limiter.Allow("other-key"))

	c.t = c.t.Add(1100 * time.Millisecond)
	assert.True(t, limiter.Allow("test-key"))
}

func TestLimiter_Remaining(t *testing.T) {
	limiter, _ := newTestLimiter(time.Second, 5)
	assert.Equal(t, 5, limiter.Remaining("test-key"))

	limiter.Allow("test-key")
	limiter.Allow("test-key")
	assert.Equal(t, 3, limiter.Remaining("test-key"))

	for i := 0; i < 10; i++ {
		limiter.Allow("test-key")
	}
	assert.Equal(t, 0, limiter.Remaining("test-key"))
}

func TestLimiter_Sweep(t *testing.T) {
	limiter, c := newTestLimiter(time.Minute, 1)
	limiter.Allow("a")
	limiter.Allow("b")
	assert.Equal(t, 0, limiter.Sweep())

	c.t = c.t.Add(2 * time.Minute)
	assert.Equal(t, 2, limiter.Sweep())
	assert.True(t, limiter.Allow("a"))
}

func TestLimiter_StartStop(t *testing.T) {
	limiter := NewLimiter(10*time.Millisecond, 1)
	limiter.Start(context.Background())
	limiter.Allow("a")
	assert.Eventually(t, func() bool {
		return limiter.Remaining("a") == 1
	}, time.Second, 5*time.Millisecond)
	limiter.Stop()
}
