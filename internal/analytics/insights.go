package analytics

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jekabolt/shop-analytics/internal/entity"
)

const (
	growthInsightThreshold  = 20.0
	declineInsightThreshold = -10.0
	minCompletionRate       = 80.0
)

// generateInsights evaluates every rule independently, in a fixed order.
func generateInsights(r *entity.ShopAnalytics) []entity.Insight {
	insights := []entity.Insight{}

	switch g := r.Revenue.Growth; {
	case g > growthInsightThreshold:
		insights = append(insights, entity.Insight{
			Type:        entity.InsightSuccess,
			Title:       "Revenue Growth",
			Description: fmt.Sprintf("Revenue up %.1f%% compared to previous period", g),
			Value:       fmt.Sprintf("%.1f%%", g),
			Icon:        "TrendingUp",
		})
	case g < declineInsightThreshold:
		insights = append(insights, entity.Insight{
			Type:        entity.InsightWarning,
			Title:       "Revenue Decline",
			Description: fmt.Sprintf("Revenue down %.1f%% compared to previous period", math.Abs(g)),
			Value:       fmt.Sprintf("%.1f%%", g),
			Icon:        "TrendingDown",
		})
	}

	if len(r.Products.TopSelling) > 0 {
		top := r.Products.TopSelling[0]
		insights = append(insights, entity.Insight{
			Type:        entity.InsightInfo,
			Title:       "Best Seller",
			Description: fmt.Sprintf("%s with %d sales", top.Name, top.Quantity),
			Value:       top.Revenue.String(),
			Icon:        "Trophy",
		})
	}

	if n := r.Products.DeadStockCount; n > 0 {
		insights = append(insights, entity.Insight{
			Type:        entity.InsightWarning,
			Title:       "Slow Moving Stock",
			Description: fmt.Sprintf("%d listings have not sold recently", n),
			Value:       strconv.Itoa(n),
			Icon:        "AlertTriangle",
		})
	}

	hour := r.KPIs.OrdersToday.BusiestHour
	insights = append(insights, entity.Insight{
		Type:        entity.InsightInfo,
		Title:       "Peak Sales Hour",
		Description: fmt.Sprintf("Peak sales typically occur around %d:00", hour),
		Value:       fmt.Sprintf("%d:00", hour),
		Icon:        "Clock",
	})

	if n := r.Customers.Segments.New; n > 0 {
		rate := r.Customers.RepeatPurchaseRate
		insights = append(insights, entity.Insight{
			Type:        entity.InsightInfo,
			Title:       "Customer Retention",
			Description: fmt.Sprintf("%d new customers - %.1f%% became repeat buyers", n, rate),
			Value:       fmt.Sprintf("%.1f%%", rate),
			Icon:        "Users",
		})
	}

	if total := r.Orders.StatusFlow.Total(); total > 0 {
		// Compared at the displayed precision.
		rate := strconv.FormatFloat(completionRate(r.Orders.StatusFlow), 'f', 1, 64)
		if v, _ := strconv.ParseFloat(rate, 64); v < minCompletionRate {
			insights = append(insights, entity.Insight{
				Type:        entity.InsightWarning,
				Title:       "Low Completion Rate",
				Description: fmt.Sprintf("Order completion rate is %s%% - consider investigating unclaimed orders", rate),
				Value:       rate + "%",
				Icon:        "AlertCircle",
			})
		}
	}

	aov := r.KPIs.AverageOrderValue
	if aov.Current.GreaterThan(aov.Previous) {
		increase := fmt.Sprintf("%.1f", growth(aov.Current, aov.Previous))
		insights = append(insights, entity.Insight{
			Type:        entity.InsightSuccess,
			Title:       "AOV Increase",
			Description: fmt.Sprintf("Average order value increased by %s%%", increase),
			Value:       increase + "%",
			Icon:        "DollarSign",
		})
	}

	return insights
}

func completionRate(sf entity.StatusFlow) float64 {
	return safeRatio(float64(sf.Completed), float64(sf.Total()))
}
