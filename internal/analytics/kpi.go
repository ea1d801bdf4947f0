package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jekabolt/shop-analytics/internal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	sparklineDays = 7
	topAOVItems   = 3
)

func (s *Service) startOfDay(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// calendarDay keeps the date fields of a DATE value and drops its zone.
// The mysql driver returns DATE columns as midnight in its own loc, not ours.
func (s *Service) calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// daysBetween counts calendar days from the local midnight from to the DATE value day.
func (s *Service) daysBetween(from, day time.Time) int {
	return int(math.Round(s.calendarDay(day).Sub(from).Hours() / 24))
}

func (s *Service) calculateKPIs(ctx context.Context, req request) (entity.KPIMetrics, error) {
	var (
		m           entity.KPIMetrics
		days        []entity.DayRevenue
		hours       []entity.HourCount
		weekOrders  int
		counts      entity.CustomerCounts
		currentAOV  entity.OrderValueStats
		previousAOV entity.OrderValueStats
	)

	previous := req.tr.Previous()
	today := entity.TimeRange{From: s.startOfDay(req.now)}
	today.To = today.From.AddDate(0, 0, 1)
	sparkStart := today.From.AddDate(0, 0, -(sparklineDays - 1))
	lastWeek := entity.TimeRange{From: req.now.AddDate(0, 0, -7), To: req.now}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		m.Revenue.Current, err = s.store.RevenueTotal(ctx, req.filter, req.tr)
		return err
	})
	g.Go(func() error {
		var err error
		m.Revenue.Previous, err = s.store.RevenueTotal(ctx, req.filter, previous)
		return err
	})
	g.Go(func() error {
		var err error
		days, err = s.store.RevenueByDay(ctx, req.filter, entity.TimeRange{From: sparkStart, To: today.To})
		return err
	})
	g.Go(func() error {
		var err error
		m.OrdersToday.Count, err = s.store.OrderCount(ctx, req.filter, today)
		return err
	})
	g.Go(func() error {
		var err error
		hours, err = s.store.OrderCountByHour(ctx, req.filter, today)
		return err
	})
	g.Go(func() error {
		var err error
		weekOrders, err = s.store.OrderCount(ctx, req.filter, lastWeek)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.store.CustomerCounts(ctx, req.filter, req.tr)
		return err
	})
	g.Go(func() error {
		var err error
		m.ActiveCustomers.Previous, err = s.store.DistinctCustomerCount(ctx, req.filter, previous)
		return err
	})
	g.Go(func() error {
		var err error
		currentAOV, err = s.store.OrderValueStats(ctx, req.filter, req.tr)
		return err
	})
	g.Go(func() error {
		var err error
		previousAOV, err = s.store.OrderValueStats(ctx, req.filter, previous)
		return err
	})
	g.Go(func() error {
		var err error
		m.AverageOrderValue.TopItems, err = s.store.TopListingsByRevenue(ctx, req.filter, req.tr, topAOVItems)
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.KPIMetrics{}, fmt.Errorf("kpis: %w", err)
	}

	m.Revenue.Change = m.Revenue.Current.Sub(m.Revenue.Previous)
	m.Revenue.ChangePercent = growth(m.Revenue.Current, m.Revenue.Previous)
	for i := range m.Revenue.Sparkline {
		m.Revenue.Sparkline[i] = decimal.Zero
	}
	for _, d := range days {
		idx := s.daysBetween(sparkStart, d.Date)
		if idx >= 0 && idx < sparklineDays {
			m.Revenue.Sparkline[idx] = m.Revenue.Sparkline[idx].Add(d.Revenue)
		}
	}

	for _, h := range hours {
		if h.Hour >= 0 && h.Hour < 24 {
			m.OrdersToday.ByHour[h.Hour] = h.Count
		}
	}
	m.OrdersToday.BusiestHour = busiestHour(m.OrdersToday.ByHour)
	m.OrdersToday.WeeklyAverage = int(math.Round(float64(weekOrders) / 7))

	m.ActiveCustomers.Active = counts.Unique
	m.ActiveCustomers.New = counts.New
	m.ActiveCustomers.Returning = counts.Returning
	m.ActiveCustomers.Growth = growthInt(counts.Unique, m.ActiveCustomers.Previous)

	m.AverageOrderValue.Current = currentAOV.Average
	m.AverageOrderValue.Min = currentAOV.Min
	m.AverageOrderValue.Max = currentAOV.Max
	m.AverageOrderValue.Previous = previousAOV.Average
	return m, nil
}

// busiestHour is the first hour with the highest count, 0 when there are no orders.
func busiestHour(byHour [24]int) int {
	busiest := 0
	for h, c := range byHour {
		if c > byHour[busiest] {
			busiest = h
		}
	}
	return busiest
}
