// Package analytics builds shop analytics reports: revenue, KPIs, products,
// orders and customer segments for a domain over a sliding window.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jekabolt/shop-analytics/internal/dependency"
	"github.com/jekabolt/shop-analytics/internal/dto"
	"github.com/jekabolt/shop-analytics/internal/entity"
	"golang.org/x/sync/errgroup"
)

const (
	operationGetAnalytics      = "getAnalytics"
	operationGenerateAnalytics = "generateAnalytics"
)

// Service generates and caches shop analytics reports.
type Service struct {
	store dependency.ShopAnalyticsStore
	cache dependency.ReportCache
	inst  dependency.Instrumentation
	c     Config
	loc   *time.Location
	now   func() time.Time
}

type Option func(*Service)

// WithNow replaces the clock used to anchor report windows.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates an analytics service. cache and inst may be nil.
func New(store dependency.ShopAnalyticsStore, cache dependency.ReportCache, inst dependency.Instrumentation, c *Config, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("analytics store is required")
	}
	cfg := DefaultConfig()
	if c != nil {
		cfg = *c
	}
	cfg.withDefaults()
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if inst == nil {
		inst = noopInstrumentation{}
	}
	s := &Service{
		store: store,
		cache: cache,
		inst:  inst,
		c:     cfg,
		loc:   loc,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// request carries the bounds every aggregator of one report shares.
type request struct {
	filter entity.AnalyticsFilter
	now    time.Time
	tr     entity.TimeRange
}

// CacheKey identifies a report by domain, game server set and period.
// The game server order does not matter.
func CacheKey(f entity.AnalyticsFilter, period entity.Period) string {
	servers := "all"
	if f.HasGameServers() {
		ids := append([]string(nil), f.GameServerIds...)
		sort.Strings(ids)
		servers = strings.Join(ids, ",")
	}
	return fmt.Sprintf("shop:analytics:%s:%s:%s", f.DomainId, servers, period)
}

// GetAnalytics returns the report for the filter and period, from cache when possible.
// Unknown periods fall back to entity.DefaultPeriod. Cache failures are logged and never returned.
func (s *Service) GetAnalytics(ctx context.Context, f entity.AnalyticsFilter, period entity.Period) (*dto.ShopAnalytics, error) {
	start := time.Now()
	defer func() {
		s.inst.ObserveGeneration(f.DomainId, operationGetAnalytics, time.Since(start))
	}()

	period = entity.ParsePeriod(string(period))
	key := CacheKey(f, period)

	if report, ok := s.cached(ctx, key); ok {
		s.inst.CacheHit(f.DomainId)
		slog.Default().DebugContext(ctx, "analytics cache hit", slog.String("key", key))
		return report, nil
	}
	s.inst.CacheMiss(f.DomainId)
	slog.Default().DebugContext(ctx, "analytics cache miss", slog.String("key", key))

	report, err := s.generate(ctx, f, period)
	if err != nil {
		return nil, fmt.Errorf("can't generate analytics: %w", err)
	}
	s.cacheReport(ctx, key, report)
	return report, nil
}

func (s *Service) cached(ctx context.Context, key string) (*dto.ShopAnalytics, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed to get cached analytics",
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	report := &dto.ShopAnalytics{}
	if err := json.Unmarshal(b, report); err != nil {
		slog.Default().ErrorContext(ctx, "failed to decode cached analytics",
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
		return nil, false
	}
	return report, true
}

func (s *Service) cacheReport(ctx context.Context, key string, report *dto.ShopAnalytics) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(report)
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed to encode analytics",
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
		return
	}
	if err := s.cache.SetWithExpiry(ctx, key, b, s.c.CacheTTL); err != nil {
		slog.Default().ErrorContext(ctx, "failed to cache analytics",
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
	}
}

// generate runs every aggregator concurrently against one shared window.
// Any aggregator error fails the whole report.
func (s *Service) generate(ctx context.Context, f entity.AnalyticsFilter, period entity.Period) (*dto.ShopAnalytics, error) {
	start := time.Now()
	defer func() {
		s.inst.ObserveGeneration(f.DomainId, operationGenerateAnalytics, time.Since(start))
	}()

	now := s.now().In(s.loc)
	req := request{
		filter: f,
		now:    now,
		tr:     period.Range(now),
	}
	r := &entity.ShopAnalytics{
		Filter:    f,
		Period:    period,
		Range:     req.tr,
		Generated: now,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer s.timed(ctx, req, "kpis")()
		r.KPIs, err = s.calculateKPIs(ctx, req)
		return err
	})
	g.Go(func() (err error) {
		defer s.timed(ctx, req, "revenue")()
		r.Revenue, err = s.calculateRevenue(ctx, req)
		return err
	})
	g.Go(func() (err error) {
		defer s.timed(ctx, req, "products")()
		r.Products, err = s.calculateProducts(ctx, req)
		return err
	})
	g.Go(func() (err error) {
		defer s.timed(ctx, req, "orders")()
		r.Orders, err = s.calculateOrders(ctx, req)
		return err
	})
	g.Go(func() (err error) {
		defer s.timed(ctx, req, "customers")()
		r.Customers, err = s.calculateCustomers(ctx, req)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.Insights = generateInsights(r)
	return s.toDTO(r), nil
}

// timed records the duration of one aggregator and warns when it is slow.
func (s *Service) timed(ctx context.Context, req request, queryType string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		s.inst.ObserveQuery(req.filter.DomainId, queryType, d)
		if d > s.c.SlowQueryThreshold {
			slog.Default().WarnContext(ctx, "slow analytics query",
				slog.String("domain", req.filter.DomainId),
				slog.String("query_type", queryType),
				slog.Duration("duration", d),
				slog.String("game_server_ids", strings.Join(req.filter.GameServerIds, ",")),
				slog.Time("from", req.tr.From),
				slog.Time("to", req.tr.To),
			)
		}
	}
}

type noopInstrumentation struct{}

func (noopInstrumentation) CacheHit(string) {}
func (noopInstrumentation) CacheMiss(string) {}
func (noopInstrumentation) ObserveGeneration(string, string, time.Duration) {}
func (noopInstrumentation) ObserveQuery(string, string, time.Duration) {}
