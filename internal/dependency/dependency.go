package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/jekabolt/shop-analytics/internal/dto"
	"github.com/jekabolt/shop-analytics/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

//go:generate mockery --with-expecter --case underscore --all --output=./mocks
type (
	// RevenueReader aggregates revenue of PAID and COMPLETED orders.
	// All time ranges are half-open [From, To).
	RevenueReader interface {
		// RevenueTotal returns sum(amount * price) in the range.
		RevenueTotal(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (decimal.Decimal, error)
		// RevenueTimeSeries returns revenue and order count per bucket, ascending by bucket start.
		RevenueTimeSeries(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange, g entity.MetricsGranularity) ([]entity.TimeSeriesPoint, error)
		// RevenueByWeekdayHour returns revenue grouped by weekday (0=Sunday) and hour of day.
		RevenueByWeekdayHour(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.WeekdayHourRevenue, error)
		// RevenueByDay returns revenue per calendar day, ascending.
		RevenueByDay(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.DayRevenue, error)
	}

	OrderReader interface {
		// OrderCount counts PAID and COMPLETED orders.
		OrderCount(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (int, error)
		// OrderCountByHour counts PAID and COMPLETED orders per hour of day.
		OrderCountByHour(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.HourCount, error)
		// OrderStatusCounts counts orders per status, CANCELED included.
		OrderStatusCounts(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.StatusCount, error)
		// RecentOrders returns the newest PAID and COMPLETED orders created before the given time.
		RecentOrders(ctx context.Context, f entity.AnalyticsFilter, before time.Time, limit int) ([]entity.RecentOrder, error)
		// DailyOrderCounts counts PAID and COMPLETED orders per calendar day, ascending.
		DailyOrderCounts(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.DayCount, error)
		// OrderValueStats returns avg/min/max of amount * price.
		OrderValueStats(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (entity.OrderValueStats, error)
	}

	CustomerReader interface {
		// CustomerCounts returns customers active in the range split by lifetime order count.
		CustomerCounts(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (entity.CustomerCounts, error)
		// DistinctCustomerCount counts players with qualifying orders in the range.
		DistinctCustomerCount(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (int, error)
		// CustomerOrders returns player and timestamp of every qualifying order in [From, To].
		CustomerOrders(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.CustomerOrder, error)
		// TopBuyers ranks players by spend in [From, To].
		TopBuyers(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange, limit int) ([]entity.Buyer, error)
	}

	ProductReader interface {
		// TopListingsByRevenue ranks listings by revenue in the range.
		TopListingsByRevenue(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange, limit int) ([]entity.ListingSales, error)
		// CategoryRevenue returns revenue and distinct order count per category, descending by revenue.
		CategoryRevenue(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.CategoryRevenue, error)
		// ListingsWithoutSales returns live listings without qualifying orders in the range,
		// oldest first. Days since creation are counted up to tr.To.
		ListingsWithoutSales(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange, limit int) ([]entity.StaleListing, error)
		// CountListingsWithoutSales counts every listing ListingsWithoutSales would return without a limit.
		CountListingsWithoutSales(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (int, error)
		// ListingCount counts live listings.
		ListingCount(ctx context.Context, f entity.AnalyticsFilter) (int, error)
	}

	// ShopAnalyticsStore is the read-only data access used by the analytics service.
	ShopAnalyticsStore interface {
		RevenueReader
		OrderReader
		CustomerReader
		ProductReader
		Ping(ctx context.Context) error
	}

	// ShopWriter stores shop records. Used for seeding, the analytics path never writes.
	ShopWriter interface {
		InsertPlayer(ctx context.Context, p entity.Player) error
		InsertCategory(ctx context.Context, c entity.ShopCategory) error
		InsertListing(ctx context.Context, l entity.ShopListing) error
		InsertOrder(ctx context.Context, o entity.ShopOrder) error
	}

	// ReportCache is a best-effort key-value store for serialized reports.
	ReportCache interface {
		// Get returns found=false when the key is absent or expired.
		Get(ctx context.Context, key string) (value []byte, found bool, err error)
		SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error
	}

	// Instrumentation is fire-and-forget.
	Instrumentation interface {
		CacheHit(domainId string)
		CacheMiss(domainId string)
		ObserveGeneration(domainId, operation string, d time.Duration)
		ObserveQuery(domainId, queryType string, d time.Duration)
	}

	// Analytics produces shop analytics reports.
	Analytics interface {
		GetAnalytics(ctx context.Context, f entity.AnalyticsFilter, period entity.Period) (*dto.ShopAnalytics, error)
	}

	DB interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}
)
