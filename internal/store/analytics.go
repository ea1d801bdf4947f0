package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jekabolt/shop-analytics/internal/entity"
	"github.com/shopspring/decimal"
)

const orderRevenue = "o.amount * l.price"

// orderBase selects PAID and COMPLETED orders of a domain joined with their listing.
const orderBase = `
	FROM shop_order o
	JOIN shop_listing l ON l.id = o.listing_id
	WHERE o.domain_id = :domainId
		AND o.status IN (:statuses)`

const inRange = `
		AND o.created_at >= :from AND o.created_at < :to`

func revenueStatuses() []string {
	statuses := make([]string, 0, len(entity.RevenueStatuses))
	for _, s := range entity.RevenueStatuses {
		statuses = append(statuses, s.String())
	}
	return statuses
}

// gameServerClause restricts listings to the filter's game servers, if any.
func gameServerClause(f entity.AnalyticsFilter) string {
	if !f.HasGameServers() {
		return ""
	}
	return `
		AND l.game_server_id IN (:gameServerIds)`
}

func filterParams(f entity.AnalyticsFilter) map[string]any {
	params := map[string]any{
		"domainId": f.DomainId,
		"statuses": revenueStatuses(),
	}
	if f.HasGameServers() {
		params["gameServerIds"] = f.GameServerIds
	}
	return params
}

func rangeParams(f entity.AnalyticsFilter, tr entity.TimeRange) map[string]any {
	params := filterParams(f)
	params["from"] = tr.From
	params["to"] = tr.To
	return params
}

// granularityDateExpr returns the bucket start expression for a given column.
// Weeks start on Monday.
func granularityDateExpr(g entity.MetricsGranularity, col string) string {
	switch g {
	case entity.MetricsGranularityWeek:
		return fmt.Sprintf("DATE(DATE_SUB(%s, INTERVAL WEEKDAY(%s) DAY))", col, col)
	case entity.MetricsGranularityMonth:
		return fmt.Sprintf("DATE(DATE_FORMAT(%s, '%%Y-%%m-01'))", col)
	default:
		return fmt.Sprintf("DATE(%s)", col)
	}
}

func (ms *MYSQLStore) RevenueTotal(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(` + orderRevenue + `), 0) AS total` + orderBase + inRange + gameServerClause(f)
	type row struct {
		Total decimal.Decimal `db:"total"`
	}
	r, err := QueryNamedOne[row](ctx, ms.db, query, rangeParams(f, tr))
	if err != nil {
		return decimal.Zero, fmt.Errorf("revenue total: %w", err)
	}
	return r.Total, nil
}

func (ms *MYSQLStore) RevenueTimeSeries(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange, g entity.MetricsGranularity) ([]entity.TimeSeriesPoint, error) {
	query := fmt.Sprintf(`
	SELECT %s AS bucket,
		COALESCE(SUM(%s), 0) AS value,
		COUNT(*) AS cnt`, granularityDateExpr(g, "o.created_at"), orderRevenue) +
		orderBase + inRange + gameServerClause(f) + `
	GROUP BY bucket
	ORDER BY bucket`
	points, err := QueryListNamed[entity.TimeSeriesPoint](ctx, ms.db, query, rangeParams(f, tr))
	if err != nil {
		return nil, fmt.Errorf("revenue time series: %w", err)
	}
	return points, nil
}

func (ms *MYSQLStore) RevenueByWeekdayHour(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.WeekdayHourRevenue, error) {
	query := `
	SELECT DAYOFWEEK(o.created_at) - 1 AS weekday,
		HOUR(o.created_at) AS hour,
		COALESCE(SUM(` + orderRevenue + `), 0) AS revenue` +
		orderBase + inRange + gameServerClause(f) + `
	GROUP BY weekday, hour`
	cells, err := QueryListNamed[entity.WeekdayHourRevenue](ctx, ms.db, query, rangeParams(f, tr))
	if err != nil {
		return nil, fmt.Errorf("revenue by weekday hour: %w", err)
	}
	return cells, nil
}

func (ms *MYSQLStore) RevenueByDay(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.DayRevenue, error) {
	query := `
	SELECT DATE(o.created_at) AS day,
		COALESCE(SUM(` + orderRevenue + `), 0) AS revenue` +
		orderBase + inRange + gameServerClause(f) + `
	GROUP BY day
	ORDER BY day`
	days, err := QueryListNamed[entity.DayRevenue](ctx, ms.db, query, rangeParams(f, tr))
	if err != nil {
		return nil, fmt.Errorf("revenue by day: %w", err)
	}
	return days, nil
}

func (ms *MYSQLStore) OrderCount(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (int, error) {
	query := `SELECT COUNT(*)` + orderBase + inRange + gameServerClause(f)
	n, err := QueryCountNamed(ctx, ms.db, query, rangeParams(f, tr))
	if err != nil {
		return 0, fmt.Errorf("order count: %w", err)
	}
	return n, nil
}

func (ms *MYSQLStore) OrderCountByHour(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.HourCount, error) {
	query := `
	SELECT HOUR(o.created_at) AS hour, COUNT(*) AS cnt` +
		orderBase + inRange + gameServerClause(f) + `
	GROUP BY hour
	ORDER BY hour`
	hours, err := QueryListNamed[entity.HourCount](ctx, ms.db, query, rangeParams(f, tr))
	if err != nil {
		return nil, fmt.Errorf("order count by hour: %w", err)
	}
	return hours, nil
}

func (ms *MYSQLStore) OrderStatusCounts(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.StatusCount, error) {
	query := `
	SELECT o.status AS status, COUNT(*) AS cnt
	FROM shop_order o
	JOIN shop_listing l ON l.id = o.listing_id
	WHERE o.domain_id = :domainId` + inRange + gameServerClause(f) + `
	GROUP BY o.status`
	params := rangeParams(f, tr)
	delete(params, "statuses")
	counts, err := QueryListNamed[entity.StatusCount](ctx, ms.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("order status counts: %w", err)
	}
	return counts, nil
}

func (ms *MYSQLStore) RecentOrders(ctx context.Context, f entity.AnalyticsFilter, before time.Time, limit int) ([]entity.RecentOrder, error) {
	query := `
	SELECT o.id AS order_id,
		o.player_id AS player_id,
		p.name AS player_name,
		l.name AS listing_name,
		` + orderRevenue + ` AS value,
		o.status AS status,
		o.created_at AS created_at
	FROM shop_order o
	JOIN shop_listing l ON l.id = o.listing_id
	JOIN player p ON p.id = o.player_id
	WHERE o.domain_id = :domainId
		AND o.status IN (:statuses)
		AND o.created_at < :before` + gameServerClause(f) + `
	ORDER BY o.created_at DESC
	LIMIT :limit`
	params := filterParams(f)
	params["before"] = before
	params["limit"] = limit
	orders, err := QueryListNamed[entity.RecentOrder](ctx, ms.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	return orders, nil
}

func (ms *MYSQLStore) DailyOrderCounts(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.DayCount, error) {
	query := `
	SELECT DATE(o.created_at) AS day, COUNT(*) AS cnt` +
		orderBase + inRange + gameServerClause(f) + `
	GROUP BY day
	ORDER BY day`
	days, err := QueryListNamed[entity.DayCount](ctx, ms.db, query, rangeParams(f, tr))
	if err != nil {
		return nil, fmt.Errorf("daily order counts: %w", err)
	}
	return days, nil
}

func (ms *MYSQLStore) OrderValueStats(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (entity.OrderValueStats, error) {
	query := `
	SELECT COALESCE(AVG(` + orderRevenue + `), 0) AS avg_value,
		COALESCE(MIN(` + orderRevenue + `), 0) AS min_value,
		COALESCE(MAX(` + orderRevenue + `), 0) AS max_value` +
		orderBase + inRange + gameServerClause(f)
	stats, err := QueryNamedOne[entity.OrderValueStats](ctx, ms.db, query, rangeParams(f, tr))
	if err != nil {
		return entity.OrderValueStats{}, fmt.Errorf("order value stats: %w", err)
	}
	return stats, nil
}

func (ms *MYSQLStore) CustomerCounts(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (entity.CustomerCounts, error) {
	query := `
	SELECT COUNT(DISTINCT o.player_id) AS unique_customers,
		COUNT(DISTINCT CASE WHEN pc.order_count = 1 THEN o.player_id END) AS new_customers,
		COUNT(DISTINCT CASE WHEN pc.order_count > 1 THEN o.player_id END) AS returning_customers
	FROM shop_order o
	JOIN shop_listing l ON l.id = o.listing_id
	JOIN (
		SELECT player_id, COUNT(DISTINCT id) AS order_count
		FROM shop_order
		WHERE domain_id = :domainId
			AND status IN (:statuses)
		GROUP BY player_id
	) pc ON pc.player_id = o.player_id
	WHERE o.domain_id = :domainId
		AND o.status IN (:statuses)` + inRange + gameServerClause(f)
	counts, err := QueryNamedOne[entity.CustomerCounts](ctx, ms.db, query, rangeParams(f, tr))
	if err != nil {
		return entity.CustomerCounts{}, fmt.Errorf("customer counts: %w", err)
	}
	return counts, nil
}

func (ms *MYSQLStore) DistinctCustomerCount(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (int, error) {
	query := `SELECT COUNT(DISTINCT o.player_id)` + orderBase + inRange + gameServerClause(f)
	n, err := QueryCountNamed(ctx, ms.db, query, rangeParams(f, tr))
	if err != nil {
		return 0, fmt.Errorf("distinct customer count: %w", err)
	}
	return n, nil
}

func (ms *MYSQLStore) CustomerOrders(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.CustomerOrder, error) {
	query := `
	SELECT o.player_id AS player_id, o.created_at AS created_at` +
		orderBase + `
		AND o.created_at >= :from AND o.created_at <= :to` + gameServerClause(f) + `
	ORDER BY o.created_at`
	orders, err := QueryListNamed[entity.CustomerOrder](ctx, ms.db, query, rangeParams(f, tr))
	if err != nil {
		return nil, fmt.Errorf("customer orders: %w", err)
	}
	return orders, nil
}

func (ms *MYSQLStore) TopBuyers(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange, limit int) ([]entity.Buyer, error) {
	query := `
	SELECT o.player_id AS player_id,
		COALESCE(p.name, '') AS name,
		COALESCE(SUM(` + orderRevenue + `), 0) AS total_spent,
		COUNT(DISTINCT o.id) AS order_count,
		MAX(o.created_at) AS last_purchase
	FROM shop_order o
	JOIN shop_listing l ON l.id = o.listing_id
	LEFT JOIN player p ON p.id = o.player_id
	WHERE o.domain_id = :domainId
		AND o.status IN (:statuses)
		AND o.created_at >= :from AND o.created_at <= :to` + gameServerClause(f) + `
	GROUP BY o.player_id, p.name
	ORDER BY total_spent DESC
	LIMIT :limit`
	params := rangeParams(f, tr)
	params["limit"] = limit
	buyers, err := QueryListNamed[entity.Buyer](ctx, ms.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("top buyers: %w", err)
	}
	return buyers, nil
}

func (ms *MYSQLStore) TopListingsByRevenue(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange, limit int) ([]entity.ListingSales, error) {
	query := `
	SELECT l.id AS listing_id,
		l.name AS name,
		COALESCE(SUM(o.amount), 0) AS quantity,
		COALESCE(SUM(` + orderRevenue + `), 0) AS revenue,
		MAX(o.created_at) AS last_sold` +
		orderBase + inRange + gameServerClause(f) + `
	GROUP BY l.id, l.name
	ORDER BY revenue DESC
	LIMIT :limit`
	params := rangeParams(f, tr)
	params["limit"] = limit
	listings, err := QueryListNamed[entity.ListingSales](ctx, ms.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("top listings by revenue: %w", err)
	}
	return listings, nil
}

func (ms *MYSQLStore) CategoryRevenue(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.CategoryRevenue, error) {
	query := `
	SELECT COALESCE(c.id, '') AS category_id,
		COALESCE(c.name, '') AS name,
		COALESCE(SUM(` + orderRevenue + `), 0) AS revenue,
		COUNT(DISTINCT o.id) AS order_count
	FROM shop_order o
	JOIN shop_listing l ON l.id = o.listing_id
	LEFT JOIN shop_listing_category lc ON lc.shop_listing_id = l.id
	LEFT JOIN shop_category c ON c.id = lc.shop_category_id
	WHERE o.domain_id = :domainId
		AND o.status IN (:statuses)` + inRange + gameServerClause(f) + `
	GROUP BY c.id, c.name
	ORDER BY revenue DESC`
	categories, err := QueryListNamed[entity.CategoryRevenue](ctx, ms.db, query, rangeParams(f, tr))
	if err != nil {
		return nil, fmt.Errorf("category revenue: %w", err)
	}
	return categories, nil
}

// staleListings selects live listings without a qualifying order in the range.
const staleListings = `
	FROM shop_listing l
	WHERE l.domain_id = :domainId
		AND l.deleted_at IS NULL
		AND NOT EXISTS (
			SELECT 1 FROM shop_order o
			WHERE o.listing_id = l.id
				AND o.status IN (:statuses)
				AND o.created_at >= :from AND o.created_at < :to
		)`

func (ms *MYSQLStore) ListingsWithoutSales(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange, limit int) ([]entity.StaleListing, error) {
	query := `
	SELECT l.id AS listing_id,
		l.name AS name,
		l.created_at AS created_at,
		TIMESTAMPDIFF(DAY, l.created_at, :to) AS days_since_created` +
		staleListings + gameServerClause(f) + `
	ORDER BY days_since_created DESC, l.created_at ASC
	LIMIT :limit`
	params := rangeParams(f, tr)
	params["limit"] = limit
	listings, err := QueryListNamed[entity.StaleListing](ctx, ms.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("listings without sales: %w", err)
	}
	return listings, nil
}

func (ms *MYSQLStore) CountListingsWithoutSales(ctx context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (int, error) {
	query := `SELECT COUNT(*)` + staleListings + gameServerClause(f)
	n, err := QueryCountNamed(ctx, ms.db, query, rangeParams(f, tr))
	if err != nil {
		return 0, fmt.Errorf("count listings without sales: %w", err)
	}
	return n, nil
}

func (ms *MYSQLStore) ListingCount(ctx context.Context, f entity.AnalyticsFilter) (int, error) {
	query := `
	SELECT COUNT(*)
	FROM shop_listing l
	WHERE l.domain_id = :domainId
		AND l.deleted_at IS NULL` + gameServerClause(f)
	params := filterParams(f)
	delete(params, "statuses")
	n, err := QueryCountNamed(ctx, ms.db, query, params)
	if err != nil {
		return 0, fmt.Errorf("listing count: %w", err)
	}
	return n, nil
}
