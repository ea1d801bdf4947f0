package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheCounters(t *testing.T) {
	p := New(prometheus.NewRegistry())

	p.CacheHit("domain-a")
	p.CacheHit("domain-a")
	p.CacheMiss("domain-a")
	p.CacheMiss("domain-b")

	assert.Equal(t, float64(2), testutil.ToFloat64(p.CacheHits.WithLabelValues("domain-a")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.CacheMisses.WithLabelValues("domain-a")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.CacheMisses.WithLabelValues("domain-b")))
	assert.Equal(t, float64(0), testutil.ToFloat64(p.CacheHits.WithLabelValues("domain-b")))
}

func TestHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := New(reg)

	p.ObserveGeneration("domain-a", "getAnalytics", 300*time.Millisecond)
	p.ObserveGeneration("domain-a", "generateAnalytics", 250*time.Millisecond)
	p.ObserveQuery("domain-a", "kpis", 20*time.Millisecond)
	p.ObserveHTTP("GET", "/api/analytics/shop", "200", 10*time.Millisecond)
	p.CacheHit("domain-a")

	assert.Equal(t, 2, testutil.CollectAndCount(p.GenerationDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(p.QueryDuration))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.HTTPRequestsTotal.WithLabelValues("GET", "/api/analytics/shop", "200")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "shop_analytics_generation_duration_seconds")
	assert.Contains(t, names, "shop_analytics_query_duration_seconds")
	assert.Contains(t, names, "shop_analytics_cache_hits_total")
}

func TestNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
