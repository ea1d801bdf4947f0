package analytics

import (
	"fmt"
	"time"

	"github.com/jekabolt/shop-analytics/internal/dto"
	"github.com/jekabolt/shop-analytics/internal/entity"
)

var segmentColors = map[entity.CustomerSegment]string{
	entity.CustomerSegmentNew:       "#4CAF50",
	entity.CustomerSegmentReturning: "#2196F3",
	entity.CustomerSegmentFrequent:  "#FF9800",
}

func (s *Service) formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(s.loc).Format(time.RFC3339)
}

// toDTO shapes the aggregator results into the serialized report.
func (s *Service) toDTO(r *entity.ShopAnalytics) *dto.ShopAnalytics {
	out := &dto.ShopAnalytics{
		KPIs:        s.kpisToDTO(r.KPIs),
		Revenue:     s.revenueToDTO(r.Revenue),
		Products:    s.productsToDTO(r.Products),
		Orders:      s.ordersToDTO(r.Orders),
		Customers:   s.customersToDTO(r.Customers),
		Insights:    make([]dto.Insight, 0, len(r.Insights)),
		LastUpdated: s.formatTime(r.Generated),
		DateRange:   fmt.Sprintf("%s to %s", s.formatTime(r.Range.From), s.formatTime(r.Range.To)),
	}
	if r.Filter.HasGameServers() {
		out.GameServerIds = append([]string(nil), r.Filter.GameServerIds...)
	}
	for _, in := range r.Insights {
		out.Insights = append(out.Insights, dto.Insight{
			Type:        string(in.Type),
			Title:       in.Title,
			Description: in.Description,
			Value:       in.Value,
			Icon:        in.Icon,
		})
	}
	return out
}

func (s *Service) kpisToDTO(k entity.KPIMetrics) dto.KPIMetrics {
	spark := make([]float64, len(k.Revenue.Sparkline))
	for i, v := range k.Revenue.Sparkline {
		spark[i] = toFloat(v)
	}
	today := k.OrdersToday
	return dto.KPIMetrics{
		TotalRevenue:      toFloat(k.Revenue.Current),
		RevenueChange:     k.Revenue.ChangePercent,
		RevenueSparkline:  spark,
		OrdersToday:       today.Count,
		OrdersChange:      safeRatio(float64(today.Count-today.WeeklyAverage), float64(today.WeeklyAverage)),
		ActiveCustomers:   k.ActiveCustomers.Active,
		CustomersChange:   k.ActiveCustomers.Growth,
		AverageOrderValue: toFloat(k.AverageOrderValue.Current),
		AOVChange:         growth(k.AverageOrderValue.Current, k.AverageOrderValue.Previous),
	}
}

func (s *Service) revenueToDTO(r entity.RevenueMetrics) dto.RevenueMetrics {
	series := make([]dto.TimeSeriesPoint, 0, len(r.TimeSeries))
	for _, p := range r.TimeSeries {
		series = append(series, dto.TimeSeriesPoint{
			Date:       s.formatTime(p.Date),
			Value:      toFloat(p.Value),
			Comparison: p.Count,
		})
	}
	day, hour := peakCell(r.ByHour)
	return dto.RevenueMetrics{
		TimeSeries:  series,
		Granularity: r.Granularity.String(),
		Heatmap:     heatmapPoints(r.ByHour),
		ByHour:      mondayFirst(r.ByHour),
		Total:       toFloat(r.Total),
		Growth:      r.Growth,
		PeakHour:    fmt.Sprintf("%d:00", hour),
		PeakDay:     dayNames[day],
	}
}

func (s *Service) productsToDTO(p entity.ProductMetrics) dto.ProductMetrics {
	out := dto.ProductMetrics{
		TopItems:       make([]dto.TopItem, 0, len(p.TopSelling)),
		Categories:     make([]dto.CategoryPerformance, 0, len(p.Categories)),
		DeadStock:      p.DeadStockCount,
		DeadStockItems: make([]dto.DeadStockItem, 0, len(p.DeadStock)),
		TotalProducts:  p.TotalCount,
	}
	for _, ps := range p.TopSelling {
		out.TopItems = append(out.TopItems, dto.TopItem{
			Id:         ps.ListingId,
			Name:       ps.Name,
			Quantity:   ps.Quantity,
			Revenue:    toFloat(ps.Revenue),
			Percentage: ps.PercentOfTotal,
			LastSold:   s.formatTime(ps.LastSold),
		})
	}
	for _, c := range p.Categories {
		out.Categories = append(out.Categories, dto.CategoryPerformance{
			Name:       c.Name,
			Revenue:    toFloat(c.Revenue),
			Orders:     c.Orders,
			Percentage: c.PercentOfTotal,
		})
	}
	for _, d := range p.DeadStock {
		out.DeadStockItems = append(out.DeadStockItems, dto.DeadStockItem{
			Id:               d.ListingId,
			Name:             d.Name,
			DaysSinceCreated: d.DaysSinceCreated,
		})
	}
	return out
}

func (s *Service) ordersToDTO(o entity.OrderMetrics) dto.OrderMetrics {
	total := o.StatusFlow.Total()
	out := dto.OrderMetrics{
		StatusBreakdown: []dto.OrderStatusCount{
			statusCount(entity.OrderStatusPaid, o.StatusFlow.Paid, total),
			statusCount(entity.OrderStatusCompleted, o.StatusFlow.Completed, total),
			statusCount(entity.OrderStatusCanceled, o.StatusFlow.Canceled, total),
		},
		RecentOrders:   make([]dto.RecentOrder, 0, len(o.Recent)),
		DailyOrders:    make([]dto.DailyOrderCount, 0, len(o.Daily)),
		TotalOrders:    total,
		CompletionRate: completionRate(o.StatusFlow),
	}
	for _, ro := range o.Recent {
		status := ro.Status
		if status == "" {
			status = entity.OrderStatusPaid
		}
		out.RecentOrders = append(out.RecentOrders, dto.RecentOrder{
			Id:         ro.OrderId,
			PlayerName: ro.PlayerName,
			ItemName:   ro.ListingName,
			Value:      toFloat(ro.Value),
			Time:       s.formatTime(ro.CreatedAt),
			Status:     status.String(),
		})
	}
	for _, d := range o.Daily {
		out.DailyOrders = append(out.DailyOrders, dto.DailyOrderCount{
			Date:  d.Date.Format(time.DateOnly),
			Count: d.Count,
		})
	}
	return out
}

func statusCount(status entity.OrderStatus, count, total int) dto.OrderStatusCount {
	return dto.OrderStatusCount{
		Status:     status.String(),
		Count:      count,
		Percentage: safeRatio(float64(count), float64(total)),
	}
}

func (s *Service) customersToDTO(c entity.CustomerMetrics) dto.CustomerMetrics {
	total := c.Segments.Total()
	segment := func(name entity.CustomerSegment, count int) dto.CustomerSegment {
		return dto.CustomerSegment{
			Name:       string(name),
			Count:      count,
			Percentage: safeRatio(float64(count), float64(total)),
			Color:      segmentColors[name],
		}
	}
	out := dto.CustomerMetrics{
		Segments: []dto.CustomerSegment{
			segment(entity.CustomerSegmentNew, c.Segments.New),
			segment(entity.CustomerSegmentReturning, c.Segments.Returning),
			segment(entity.CustomerSegmentFrequent, c.Segments.Frequent),
		},
		TopBuyers:      make([]dto.TopBuyer, 0, len(c.TopBuyers)),
		RepeatRate:     c.RepeatPurchaseRate,
		NewCustomers:   c.Segments.New,
		TotalCustomers: c.UniqueCount,
	}
	for _, b := range c.TopBuyers {
		out.TopBuyers = append(out.TopBuyers, dto.TopBuyer{
			Id:           b.PlayerId,
			Name:         b.Name,
			TotalSpent:   toFloat(b.TotalSpent),
			OrderCount:   b.OrderCount,
			LastPurchase: s.formatTime(b.LastPurchase),
		})
	}
	return out
}
