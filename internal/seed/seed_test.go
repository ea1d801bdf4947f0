package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jekabolt/shop-analytics/internal/entity"
	"github.com/jekabolt/shop-analytics/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	st := memory.New(time.UTC)
	c := DefaultConfig("domain-1")

	sum, err := Generate(ctx, st, c, now)
	require.NoError(t, err)
	assert.Len(t, sum.GameServerIds, c.GameServers)
	assert.Equal(t, c.Players, sum.Players)
	assert.Equal(t, c.Categories, sum.Categories)
	assert.Equal(t, c.Listings, sum.Listings)
	assert.Equal(t, c.Orders, sum.Orders)

	f := entity.AnalyticsFilter{DomainId: c.DomainId}
	listings, err := st.ListingCount(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, c.Listings, listings)

	all := entity.TimeRange{From: now.AddDate(0, 0, -c.Days), To: now.Add(time.Second)}
	stale, err := st.CountListingsWithoutSales(ctx, f, all)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stale, 1)

	statuses, err := st.OrderStatusCounts(ctx, f, all)
	require.NoError(t, err)
	total := 0
	for _, s := range statuses {
		total += s.Count
	}
	assert.Equal(t, c.Orders, total)

	other, err := st.ListingCount(ctx, entity.AnalyticsFilter{DomainId: "domain-2"})
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestGenerateInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no domain", func(c *Config) { c.DomainId = "" }},
		{"no players", func(c *Config) { c.Players = 0 }},
		{"too many categories", func(c *Config) { c.Categories = len(categoryNames) + 1 }},
		{"negative orders", func(c *Config) { c.Orders = -1 }},
		{"no days", func(c *Config) { c.Days = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig("domain-1")
			tt.mutate(&c)
			_, err := Generate(context.Background(), memory.New(time.UTC), c, now)
			assert.Error(t, err)
		})
	}
}

type failingWriter struct {
	*memory.Store
}

func (failingWriter) InsertOrder(context.Context, entity.ShopOrder) error {
	return errors.New("disk full")
}

func TestGenerateStopsOnWriteError(t *testing.T) {
	sum, err := Generate(context.Background(), failingWriter{memory.New(time.UTC)}, DefaultConfig("domain-1"), now)
	require.EqualError(t, err, "disk full")
	assert.Zero(t, sum.Orders)
	assert.Equal(t, 15, sum.Listings)
}

type recordingWriter struct {
	*memory.Store
	players  []string
	listings []string
}

func (w *recordingWriter) InsertPlayer(ctx context.Context, p entity.Player) error {
	w.players = append(w.players, p.Name)
	return w.Store.InsertPlayer(ctx, p)
}

func (w *recordingWriter) InsertListing(ctx context.Context, l entity.ShopListing) error {
	w.listings = append(w.listings, l.Name)
	return w.Store.InsertListing(ctx, l)
}

func TestGenerateNamesFollowSeed(t *testing.T) {
	generate := func(seed uint64) *recordingWriter {
		w := &recordingWriter{Store: memory.New(time.UTC)}
		c := DefaultConfig("domain-1")
		c.Seed = seed
		_, err := Generate(context.Background(), w, c, now)
		require.NoError(t, err)
		return w
	}

	a, b, other := generate(7), generate(7), generate(8)
	require.Len(t, a.players, 40)
	require.Len(t, a.listings, 15)
	assert.Equal(t, a.players, b.players)
	assert.Equal(t, a.listings, b.listings)
	assert.NotEqual(t, a.players, other.players)
	for _, name := range a.players {
		assert.NotEmpty(t, name)
	}
	for _, name := range a.listings {
		assert.Regexp(t, `^[A-Z]\w* [A-Z]\w*$`, name)
	}
}
