package analytics

import (
	"testing"

	"github.com/jekabolt/shop-analytics/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findInsight(insights []entity.Insight, title string) (entity.Insight, bool) {
	for _, in := range insights {
		if in.Title == title {
			return in, true
		}
	}
	return entity.Insight{}, false
}

func TestGenerateInsightsRevenueDecline(t *testing.T) {
	r := &entity.ShopAnalytics{}
	r.Revenue.Growth = -15.04

	in, ok := findInsight(generateInsights(r), "Revenue Decline")
	require.True(t, ok)
	assert.Equal(t, entity.InsightWarning, in.Type)
	assert.Equal(t, "Revenue down 15.0% compared to previous period", in.Description)
	assert.Equal(t, "-15.0%", in.Value)
	assert.Equal(t, "TrendingDown", in.Icon)
}

func TestGenerateInsightsThresholds(t *testing.T) {
	r := &entity.ShopAnalytics{}
	r.Revenue.Growth = 20
	r.Orders.StatusFlow = entity.StatusFlow{Paid: 1, Completed: 4}

	insights := generateInsights(r)
	_, ok := findInsight(insights, "Revenue Growth")
	assert.False(t, ok)
	_, ok = findInsight(insights, "Low Completion Rate")
	assert.False(t, ok, "80.0% completion is not low")

	r.Revenue.Growth = -10
	r.Orders.StatusFlow = entity.StatusFlow{Paid: 2, Completed: 7}
	insights = generateInsights(r)
	_, ok = findInsight(insights, "Revenue Decline")
	assert.False(t, ok)
	in, ok := findInsight(insights, "Low Completion Rate")
	require.True(t, ok)
	assert.Equal(t, "77.8%", in.Value)
}

func TestGenerateInsightsOrder(t *testing.T) {
	r := &entity.ShopAnalytics{}
	r.Revenue.Growth = 35.54
	r.Products.TopSelling = []entity.ProductSales{{
		ListingSales: entity.ListingSales{Name: "Diamond Pick", Quantity: 12, Revenue: decimal.RequireFromString("149.5")},
	}}
	r.Products.DeadStockCount = 3
	r.KPIs.OrdersToday.BusiestHour = 21
	r.Customers.Segments.New = 4
	r.Customers.RepeatPurchaseRate = 12.5
	r.Orders.StatusFlow = entity.StatusFlow{Paid: 5, Completed: 1, Canceled: 1}
	r.KPIs.AverageOrderValue.Current = decimal.NewFromInt(30)
	r.KPIs.AverageOrderValue.Previous = decimal.NewFromInt(24)

	insights := generateInsights(r)
	want := []entity.Insight{
		{Type: entity.InsightSuccess, Title: "Revenue Growth", Description: "Revenue up 35.5% compared to previous period", Value: "35.5%", Icon: "TrendingUp"},
		{Type: entity.InsightInfo, Title: "Best Seller", Description: "Diamond Pick with 12 sales", Value: "149.5", Icon: "Trophy"},
		{Type: entity.InsightWarning, Title: "Slow Moving Stock", Description: "3 listings have not sold recently", Value: "3", Icon: "AlertTriangle"},
		{Type: entity.InsightInfo, Title: "Peak Sales Hour", Description: "Peak sales typically occur around 21:00", Value: "21:00", Icon: "Clock"},
		{Type: entity.InsightInfo, Title: "Customer Retention", Description: "4 new customers - 12.5% became repeat buyers", Value: "12.5%", Icon: "Users"},
		{Type: entity.InsightWarning, Title: "Low Completion Rate", Description: "Order completion rate is 14.3% - consider investigating unclaimed orders", Value: "14.3%", Icon: "AlertCircle"},
		{Type: entity.InsightSuccess, Title: "AOV Increase", Description: "Average order value increased by 25.0%", Value: "25.0%", Icon: "DollarSign"},
	}
	assert.Equal(t, want, insights)
}
