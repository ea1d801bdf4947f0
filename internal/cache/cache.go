package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"
)

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process report cache. Expired entries are never returned
// and are dropped by the sweep worker.
type Memory struct {
	mu       sync.Mutex
	entries  map[string]entry
	now      func() time.Time
	interval time.Duration
	stop     context.CancelFunc
}

// NewMemory creates an in-process cache; sweepInterval defaults to a minute.
func NewMemory(sweepInterval time.Duration) *Memory {
	if sweepInterval == 0 {
		sweepInterval = time.Minute
	}
	return &Memory{
		entries:  map[string]entry{},
		now:      time.Now,
		interval: sweepInterval,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) SetWithExpiry(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("memory cache set %s: non-positive ttl %s", key, ttl)
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: buf, expires: m.now().Add(ttl)}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Sweep drops expired entries and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for k, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

// Start runs the sweep worker until Stop is called or ctx is done.
func (m *Memory) Start(ctx context.Context) error {
	if m.stop != nil {
		return fmt.Errorf("memory cache sweeper already started")
	}
	ctx, m.stop = context.WithCancel(ctx)
	go m.sweeper(ctx)
	return nil
}

func (m *Memory) Stop() error {
	if m.stop == nil {
		return fmt.Errorf("memory cache sweeper already stopped or not started")
	}
	m.stop()
	m.stop = nil
	return nil
}

func (m *Memory) sweeper(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				slog.Default().DebugContext(ctx, "evicted expired reports",
					slog.Int("count", n),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}
