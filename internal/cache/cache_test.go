package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestMemory() (*Memory, *clock) {
	c := &clock{t: time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(time.Hour)
	m.now = c.now
	return m, c
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m, c := newTestMemory()

	_, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	value := []byte(`{"a":1}`)
	require.NoError(t, m.SetWithExpiry(ctx, "k", value, time.Minute))
	value[0] = 'x'

	got, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"a":1}`, string(got))

	c.t = c.t.Add(time.Minute)
	_, found, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, m.Len())
}

func TestMemoryRejectsNonPositiveTTL(t *testing.T) {
	m, _ := newTestMemory()
	assert.Error(t, m.SetWithExpiry(context.Background(), "k", nil, 0))
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	m, c := newTestMemory()
	require.NoError(t, m.SetWithExpiry(ctx, "short", []byte("1"), time.Minute))
	require.NoError(t, m.SetWithExpiry(ctx, "long", []byte("2"), time.Hour))

	c.t = c.t.Add(2 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	_, found, err := m.Get(ctx, "long")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemoryStartStop(t *testing.T) {
	m := NewMemory(10 * time.Millisecond)
	require.NoError(t, m.SetWithExpiry(context.Background(), "k", []byte("v"), time.Millisecond))

	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Start(context.Background()))
	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.Error(t, m.Stop())
}
