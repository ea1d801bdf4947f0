package entity

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsFilter scopes every aggregation to a tenant and, optionally, to a set of game servers.
type AnalyticsFilter struct {
	DomainId      string
	GameServerIds []string
}

// HasGameServers reports whether the listing.game_server_id filter applies.
func (f AnalyticsFilter) HasGameServers() bool {
	return len(f.GameServerIds) > 0
}

// MatchesGameServer is the in-process equivalent of the game server IN (...) predicate.
func (f AnalyticsFilter) MatchesGameServer(id string) bool {
	return !f.HasGameServers() || slices.Contains(f.GameServerIds, id)
}

// WeekdayHourRevenue is one cell of the revenue heatmap. Weekday is 0=Sunday.
type WeekdayHourRevenue struct {
	Weekday int             `db:"weekday"`
	Hour    int             `db:"hour"`
	Revenue decimal.Decimal `db:"revenue"`
}

// DayRevenue is revenue summed per calendar day.
type DayRevenue struct {
	Date    time.Time       `db:"day"`
	Revenue decimal.Decimal `db:"revenue"`
}

// HourCount is an order count for one hour of the day.
type HourCount struct {
	Hour  int `db:"hour"`
	Count int `db:"cnt"`
}

// DayCount is an order count for one calendar day.
type DayCount struct {
	Date  time.Time `db:"day"`
	Count int       `db:"cnt"`
}

// CustomerCounts splits the customers active in a window by their lifetime order count.
type CustomerCounts struct {
	Unique    int `db:"unique_customers"`
	New       int `db:"new_customers"`
	Returning int `db:"returning_customers"`
}

// OrderValueStats describes amount * price per order in a window.
type OrderValueStats struct {
	Average decimal.Decimal `db:"avg_value"`
	Min     decimal.Decimal `db:"min_value"`
	Max     decimal.Decimal `db:"max_value"`
}

// ListingSales aggregates qualifying orders of a single listing.
type ListingSales struct {
	ListingId string          `db:"listing_id"`
	Name      string          `db:"name"`
	Quantity  int             `db:"quantity"`
	Revenue   decimal.Decimal `db:"revenue"`
	LastSold  time.Time       `db:"last_sold"`
}

// CategoryRevenue aggregates qualifying orders per category. Id and Name are empty
// for orders whose listing has no category.
type CategoryRevenue struct {
	CategoryId string          `db:"category_id"`
	Name       string          `db:"name"`
	Revenue    decimal.Decimal `db:"revenue"`
	Orders     int             `db:"order_count"`
}

// StaleListing is a live listing without qualifying orders in the window.
type StaleListing struct {
	ListingId        string    `db:"listing_id"`
	Name             string    `db:"name"`
	CreatedAt        time.Time `db:"created_at"`
	DaysSinceCreated int       `db:"days_since_created"`
}

// StatusCount is the number of orders in one status.
type StatusCount struct {
	Status OrderStatus `db:"status"`
	Count  int         `db:"cnt"`
}

// RecentOrder is a single order joined with its player and listing.
type RecentOrder struct {
	OrderId     string          `db:"order_id"`
	PlayerId    string          `db:"player_id"`
	PlayerName  string          `db:"player_name"`
	ListingName string          `db:"listing_name"`
	Value       decimal.Decimal `db:"value"` // amount * price
	Status      OrderStatus     `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
}

// CustomerOrder is the minimal projection used by segmentation.
type CustomerOrder struct {
	PlayerId  string    `db:"player_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Buyer is a customer ranked by spend in a window.
type Buyer struct {
	PlayerId     string          `db:"player_id"`
	Name         string          `db:"name"`
	TotalSpent   decimal.Decimal `db:"total_spent"`
	OrderCount   int             `db:"order_count"`
	LastPurchase time.Time       `db:"last_purchase"`
}

// RevenueMetrics is the output of the revenue aggregator.
type RevenueMetrics struct {
	TimeSeries  []TimeSeriesPoint
	Granularity MetricsGranularity
	// ByHour is indexed [weekday][hour] with weekday 0=Sunday.
	ByHour   [7][24]decimal.Decimal
	Total    decimal.Decimal
	Previous decimal.Decimal
	Growth   float64
}

type RevenueKPI struct {
	Current       decimal.Decimal
	Previous      decimal.Decimal
	Change        decimal.Decimal
	ChangePercent float64
	// Sparkline holds the last 7 calendar days, oldest first.
	Sparkline [7]decimal.Decimal
}

type OrdersTodayKPI struct {
	Count         int
	ByHour        [24]int
	BusiestHour   int
	WeeklyAverage int
}

type CustomersKPI struct {
	Active    int
	New       int
	Returning int
	Previous  int
	Growth    float64
}

type OrderValueKPI struct {
	Current  decimal.Decimal
	Previous decimal.Decimal
	Min      decimal.Decimal
	Max      decimal.Decimal
	TopItems []ListingSales
}

// KPIMetrics is the output of the KPI aggregator.
type KPIMetrics struct {
	Revenue           RevenueKPI
	OrdersToday       OrdersTodayKPI
	ActiveCustomers   CustomersKPI
	AverageOrderValue OrderValueKPI
}

type ProductSales struct {
	ListingSales
	PercentOfTotal float64
}

type CategoryPerformance struct {
	CategoryRevenue
	PercentOfTotal float64
}

// ProductMetrics is the output of the product aggregator.
type ProductMetrics struct {
	TopSelling []ProductSales
	Categories []CategoryPerformance
	// DeadStockCount counts every stale listing, DeadStock lists the oldest of them.
	DeadStockCount int
	DeadStock      []StaleListing
	TotalCount     int
	WindowRevenue  decimal.Decimal
}

type StatusFlow struct {
	Paid      int
	Completed int
	Canceled  int
}

func (sf StatusFlow) Total() int {
	return sf.Paid + sf.Completed + sf.Canceled
}

// OrderMetrics is the output of the order aggregator.
type OrderMetrics struct {
	StatusFlow StatusFlow
	Recent     []RecentOrder
	Daily      []DayCount
}

// CustomerSegment names a purchase continuity class.
type CustomerSegment string

const (
	CustomerSegmentNew       CustomerSegment = "New"
	CustomerSegmentReturning CustomerSegment = "Returning"
	CustomerSegmentFrequent  CustomerSegment = "Frequent"
)

type SegmentCounts struct {
	New       int
	Returning int
	Frequent  int
}

func (sc SegmentCounts) Total() int {
	return sc.New + sc.Returning + sc.Frequent
}

// CustomerMetrics is the output of the segmentation engine.
type CustomerMetrics struct {
	Segments           SegmentCounts
	UniqueCount        int
	RepeatCount        int
	RepeatPurchaseRate float64
	TopBuyers          []Buyer
}

type InsightType string

const (
	InsightSuccess InsightType = "success"
	InsightWarning InsightType = "warning"
	InsightInfo    InsightType = "info"
)

// Insight is a rule-triggered observation about the report.
type Insight struct {
	Type        InsightType
	Title       string
	Description string
	Value       string
	Icon        string
}

// ShopAnalytics bundles the aggregator outputs of one report.
type ShopAnalytics struct {
	Filter    AnalyticsFilter
	Period    Period
	Range     TimeRange
	Generated time.Time
	KPIs      KPIMetrics
	Revenue   RevenueMetrics
	Products  ProductMetrics
	Orders    OrderMetrics
	Customers CustomerMetrics
	Insights  []Insight
}
