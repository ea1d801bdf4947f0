package dto

// ShopAnalytics is the serialized analytics report served to the dashboard and stored in the cache.
// Money is rendered as JSON numbers, timestamps as RFC 3339 strings.
type ShopAnalytics struct {
	KPIs          KPIMetrics      `json:"kpis"`
	Revenue       RevenueMetrics  `json:"revenue"`
	Products      ProductMetrics  `json:"products"`
	Orders        OrderMetrics    `json:"orders"`
	Customers     CustomerMetrics `json:"customers"`
	Insights      []Insight       `json:"insights"`
	LastUpdated   string          `json:"lastUpdated"`
	DateRange     string          `json:"dateRange"`
	GameServerIds []string        `json:"gameServerIds,omitempty"`
}

type KPIMetrics struct {
	TotalRevenue      float64   `json:"totalRevenue"`
	RevenueChange     float64   `json:"revenueChange"`
	RevenueSparkline  []float64 `json:"revenueSparkline"`
	OrdersToday       int       `json:"ordersToday"`
	OrdersChange      float64   `json:"ordersChange"`
	ActiveCustomers   int       `json:"activeCustomers"`
	CustomersChange   float64   `json:"customersChange"`
	AverageOrderValue float64   `json:"averageOrderValue"`
	AOVChange         float64   `json:"aovChange"`
}

type TimeSeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
	// Comparison is the number of orders in the bucket.
	Comparison int `json:"comparison"`
}

// HeatmapPoint is a non-empty cell of the revenue heatmap. Day is 0=Monday.
type HeatmapPoint struct {
	Day   int     `json:"day"`
	Hour  int     `json:"hour"`
	Value float64 `json:"value"`
}

type RevenueMetrics struct {
	TimeSeries  []TimeSeriesPoint `json:"timeSeries"`
	Granularity string            `json:"granularity"`
	Heatmap     []HeatmapPoint    `json:"heatmap"`
	// ByHour is the full 7x24 matrix, Monday first.
	ByHour   [][]float64 `json:"byHour"`
	Total    float64     `json:"total"`
	Growth   float64     `json:"growth"`
	PeakHour string      `json:"peakHour"`
	PeakDay  string      `json:"peakDay"`
}

type TopItem struct {
	Id         string  `json:"id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Revenue    float64 `json:"revenue"`
	Percentage float64 `json:"percentage"`
	LastSold   string  `json:"lastSold"`
}

type CategoryPerformance struct {
	Name       string  `json:"name"`
	Revenue    float64 `json:"revenue"`
	Orders     int     `json:"orders"`
	Percentage float64 `json:"percentage"`
}

type DeadStockItem struct {
	Id               string `json:"id"`
	Name             string `json:"name"`
	DaysSinceCreated int    `json:"daysSinceCreated"`
}

type ProductMetrics struct {
	TopItems       []TopItem             `json:"topItems"`
	Categories     []CategoryPerformance `json:"categories"`
	DeadStock      int                   `json:"deadStock"`
	DeadStockItems []DeadStockItem       `json:"deadStockItems"`
	TotalProducts  int                   `json:"totalProducts"`
}

type OrderStatusCount struct {
	Status     string  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type RecentOrder struct {
	Id         string  `json:"id"`
	PlayerName string  `json:"playerName"`
	ItemName   string  `json:"itemName"`
	Value      float64 `json:"value"`
	Time       string  `json:"time"`
	Status     string  `json:"status"`
}

type DailyOrderCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type OrderMetrics struct {
	StatusBreakdown []OrderStatusCount `json:"statusBreakdown"`
	RecentOrders    []RecentOrder      `json:"recentOrders"`
	DailyOrders     []DailyOrderCount  `json:"dailyOrders"`
	TotalOrders     int                `json:"totalOrders"`
	CompletionRate  float64            `json:"completionRate"`
}

type CustomerSegment struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

type TopBuyer struct {
	Id           string  `json:"id"`
	Name         string  `json:"name"`
	TotalSpent   float64 `json:"totalSpent"`
	OrderCount   int     `json:"orderCount"`
	LastPurchase string  `json:"lastPurchase"`
}

type CustomerMetrics struct {
	Segments       []CustomerSegment `json:"segments"`
	TopBuyers      []TopBuyer        `json:"topBuyers"`
	RepeatRate     float64           `json:"repeatRate"`
	NewCustomers   int               `json:"newCustomers"`
	TotalCustomers int               `json:"totalCustomers"`
}

type Insight struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Value       string `json:"value,omitempty"`
	Icon        string `json:"icon"`
}
