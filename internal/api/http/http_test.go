package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jekabolt/shop-analytics/internal/auth/jwt"
	"github.com/jekabolt/shop-analytics/internal/dependency/mocks"
	"github.com/jekabolt/shop-analytics/internal/dto"
	"github.com/jekabolt/shop-analytics/internal/entity"
	"github.com/jekabolt/shop-analytics/internal/metrics"
	"github.com/jekabolt/shop-analytics/internal/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	serverA = "6f1c2f0e-8d9e-4b7a-9c31-2f4b5a6d7e81"
	serverB = "0a9b8c7d-6e5f-4a3b-8c2d-1e0f9a8b7c6d"
)

type testAPI struct {
	handler   http.Handler
	analytics *mocks.Analytics
	jwtAuth   *jwtauth.JWTAuth
	metrics   *metrics.Prometheus
}

func newTestAPI(t *testing.T, limiter *ratelimit.Limiter, health func(context.Context) error) *testAPI {
	t.Helper()
	reg := prometheus.NewRegistry()
	api := &testAPI{
		analytics: mocks.NewAnalytics(t),
		jwtAuth:   jwtauth.New("HS256", []byte("test-secret"), nil),
		metrics:   metrics.New(reg),
	}
	s := New(&Config{AllowedOrigins: []string{"https://dashboard.example.com"}})
	api.handler = s.Handler(Deps{
		Analytics: api.analytics,
		Health:    health,
		JWTAuth:   api.jwtAuth,
		Metrics:   api.metrics,
		Gatherer:  reg,
		Limiter:   limiter,
	})
	return api
}

func (api *testAPI) get(t *testing.T, target, domain string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if domain != "" {
		tok, err := jwt.NewToken(api.jwtAuth, time.Hour, domain)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	return rec
}

func TestGetShopAnalytics(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	report := &dto.ShopAnalytics{DateRange: "a to b", GameServerIds: []string{serverB, serverA}}
	api.analytics.EXPECT().
		GetAnalytics(mock.Anything, entity.AnalyticsFilter{DomainId: "domain-1", GameServerIds: []string{serverB, serverA}}, entity.PeriodLast7Days).
		Return(report, nil).Once()

	rec := api.get(t, "/api/analytics/shop?period=LAST_7_DAYS&gameServerIds="+serverB+","+serverA+"&gameServerIds="+serverA, "domain-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got dto.ShopAnalytics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "a to b", got.DateRange)
	assert.Equal(t, []string{serverB, serverA}, got.GameServerIds)

	assert.Equal(t, 1.0, testutil.ToFloat64(api.metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/analytics/shop", "200")))
}

func TestGetShopAnalyticsDefaults(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	api.analytics.EXPECT().
		GetAnalytics(mock.Anything, entity.AnalyticsFilter{DomainId: "domain-2"}, entity.PeriodLast30Days).
		Return(&dto.ShopAnalytics{}, nil).Once()

	rec := api.get(t, "/api/analytics/shop?period=FOREVER", "domain-2")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetShopAnalyticsRejectsBadServerIds(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	rec := api.get(t, "/api/analytics/shop?gameServerIds=not-a-uuid", "domain-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not-a-uuid")
}

func TestGetShopAnalyticsUnauthorized(t *testing.T) {
	api := newTestAPI(t, nil, nil)

	rec := api.get(t, "/api/analytics/shop", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other := jwtauth.New("HS256", []byte("someone-else"), nil)
	tok, err := jwt.NewToken(other, time.Hour, "domain-1")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/shop", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetShopAnalyticsStoreFailure(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	api.analytics.EXPECT().
		GetAnalytics(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("mysql: connection refused")).Once()

	rec := api.get(t, "/api/analytics/shop", "domain-1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "mysql")
}

func TestGetShopAnalyticsRateLimited(t *testing.T) {
	api := newTestAPI(t, ratelimit.NewLimiter(time.Minute, 1), nil)
	api.analytics.EXPECT().
		GetAnalytics(mock.Anything, mock.Anything, mock.Anything).
		Return(&dto.ShopAnalytics{}, nil).Once()

	assert.Equal(t, http.StatusOK, api.get(t, "/api/analytics/shop", "domain-1").Code)
	assert.Equal(t, http.StatusTooManyRequests, api.get(t, "/api/analytics/shop", "domain-1").Code)
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t, nil, func(context.Context) error { return nil })
	assert.Equal(t, http.StatusOK, api.get(t, "/healthz", "").Code)

	api = newTestAPI(t, nil, func(context.Context) error { return errors.New("down") })
	assert.Equal(t, http.StatusServiceUnavailable, api.get(t, "/healthz", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	api.metrics.CacheHit("domain-1")

	rec := api.get(t, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `shop_analytics_cache_hits_total{domain="domain-1"} 1`))
}

func TestCORS(t *testing.T) {
	api := newTestAPI(t, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/analytics/shop", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://dashboard.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/analytics/shop", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestIsOriginAllowed(t *testing.T) {
	assert.True(t, isOriginAllowed("http://localhost:3000", nil))
	assert.True(t, isOriginAllowed("https://a.example.com", []string{"https://a.example.com"}))
	assert.False(t, isOriginAllowed("https://b.example.com", []string{"https://a.example.com"}))
}

func TestParseGameServerIds(t *testing.T) {
	ids, err := parseGameServerIds(nil)
	require.NoError(t, err)
	assert.Nil(t, ids)

	ids, err = parseGameServerIds([]string{serverA + ", " + serverB, "", serverA})
	require.NoError(t, err)
	assert.Equal(t, []string{serverA, serverB}, ids)
}
