package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jekabolt/shop-analytics/config"
	"github.com/jekabolt/shop-analytics/internal/analytics"
	httpapi "github.com/jekabolt/shop-analytics/internal/api/http"
	"github.com/jekabolt/shop-analytics/internal/cache"
	"github.com/jekabolt/shop-analytics/internal/dependency"
	"github.com/jekabolt/shop-analytics/internal/metrics"
	"github.com/jekabolt/shop-analytics/internal/ratelimit"
	"github.com/jekabolt/shop-analytics/internal/store"
	"github.com/jekabolt/shop-analytics/internal/store/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// App is the main application
type App struct {
	hs       *httpapi.Server
	db       dependency.ShopAnalyticsStore
	closeDB  func()
	cache    dependency.ReportCache
	memCache *cache.Memory
	redis    *redis.Client
	limiter  *ratelimit.Limiter
	c        *config.Config
	done     chan struct{}
	doneOnce sync.Once
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// openStore is swapped in tests.
var openStore = OpenStore

// OpenStore returns the configured order store and a function releasing it.
func OpenStore(ctx context.Context, c *config.Config) (dependency.ShopAnalyticsStore, func(), error) {
	if c.Storage == config.StorageMemory {
		loc, err := c.Analytics.Location()
		if err != nil {
			return nil, nil, err
		}
		slog.Default().WarnContext(ctx, "using in-memory order store, data is lost on exit")
		return memory.New(loc), func() {}, nil
	}
	db, err := store.New(ctx, c.DB)
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}

func (a *App) openCache(ctx context.Context) error {
	if a.c.Redis.Addr == "" {
		a.memCache = cache.NewMemory(a.c.Redis.SweepInterval)
		if err := a.memCache.Start(ctx); err != nil {
			return err
		}
		a.cache = a.memCache
		return nil
	}
	client, err := cache.Dial(ctx, a.c.Redis)
	if err != nil {
		return err
	}
	a.redis = client
	a.cache = cache.NewRedis(client)
	return nil
}

// Start starts the app. On error everything opened so far is already released.
func (a *App) Start(ctx context.Context) (err error) {
	slog.Default().InfoContext(ctx, "starting shop analytics")

	if a.c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	a.db, a.closeDB, err = openStore(ctx, a.c)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't open order store", slog.String("err", err.Error()))
		return err
	}
	defer func() {
		if err != nil {
			a.release(ctx)
		}
	}()

	if err = a.openCache(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "couldn't open report cache", slog.String("err", err.Error()))
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	svc, err := analytics.New(a.db, a.cache, m, &a.c.Analytics)
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed to create analytics service", slog.String("err", err.Error()))
		return err
	}

	if a.c.HTTP.RateLimit > 0 {
		a.limiter = ratelimit.NewLimiter(time.Minute, a.c.HTTP.RateLimit)
		a.limiter.Start(ctx)
	}

	// start API server
	a.hs = httpapi.New(&a.c.HTTP)
	err = a.hs.Start(ctx, httpapi.Deps{
		Analytics: svc,
		Health:    a.db.Ping,
		JWTAuth:   jwtauth.New("HS256", []byte(a.c.Auth.JWTSecret), nil),
		Metrics:   m,
		Gatherer:  reg,
		Limiter:   a.limiter,
	})
	if err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server", slog.String("err", err.Error()))
		return err
	}
	go func() {
		<-a.hs.Done()
		a.doneOnce.Do(func() { close(a.done) })
	}()

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		if err := a.hs.Stop(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown failed", slog.String("err", err.Error()))
		}
	}
	a.release(ctx)
	a.doneOnce.Do(func() { close(a.done) })
}

// release closes the limiter, cache and store. Each is cleared once closed.
func (a *App) release(ctx context.Context) {
	if a.limiter != nil {
		a.limiter.Stop()
		a.limiter = nil
	}
	if a.memCache != nil {
		_ = a.memCache.Stop()
		a.memCache = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Default().ErrorContext(ctx, "redis close failed", slog.String("err", err.Error()))
		}
		a.redis = nil
	}
	if a.closeDB != nil {
		a.closeDB()
		a.closeDB = nil
	}
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}
