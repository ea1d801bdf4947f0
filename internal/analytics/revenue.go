package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jekabolt/shop-analytics/internal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func (s *Service) calculateRevenue(ctx context.Context, req request) (entity.RevenueMetrics, error) {
	m := entity.RevenueMetrics{
		Granularity: entity.GranularityForRange(req.tr),
	}
	var (
		points []entity.TimeSeriesPoint
		cells  []entity.WeekdayHourRevenue
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		points, err = s.store.RevenueTimeSeries(ctx, req.filter, req.tr, m.Granularity)
		return err
	})
	g.Go(func() error {
		var err error
		cells, err = s.store.RevenueByWeekdayHour(ctx, req.filter, req.tr)
		return err
	})
	g.Go(func() error {
		var err error
		m.Total, err = s.store.RevenueTotal(ctx, req.filter, req.tr)
		return err
	})
	g.Go(func() error {
		var err error
		m.Previous, err = s.store.RevenueTotal(ctx, req.filter, req.tr.Previous())
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.RevenueMetrics{}, fmt.Errorf("revenue: %w", err)
	}

	m.TimeSeries = fillTimeSeriesGaps(points, req.tr.From.In(s.loc), req.tr.To.In(s.loc), m.Granularity)
	for d := range m.ByHour {
		for h := range m.ByHour[d] {
			m.ByHour[d][h] = decimal.Zero
		}
	}
	for _, c := range cells {
		if c.Weekday < 0 || c.Weekday > 6 || c.Hour < 0 || c.Hour > 23 {
			continue
		}
		m.ByHour[c.Weekday][c.Hour] = m.ByHour[c.Weekday][c.Hour].Add(c.Revenue)
	}
	m.Growth = growth(m.Total, m.Previous)
	return m, nil
}

// fillTimeSeriesGaps returns one point per bucket between from and the bucket
// holding the last instant before to, zero-filled where there were no orders.
func fillTimeSeriesGaps(points []entity.TimeSeriesPoint, from, to time.Time, granularity entity.MetricsGranularity) []entity.TimeSeriesPoint {
	pointMap := make(map[string]entity.TimeSeriesPoint, len(points))
	for _, p := range points {
		pointMap[p.Date.Format(time.DateOnly)] = p
	}
	result := []entity.TimeSeriesPoint{}
	if !to.After(from) {
		return result
	}
	cur := entity.BucketStart(from, granularity)
	end := entity.BucketStart(to.Add(-time.Nanosecond), granularity)
	for !cur.After(end) {
		if p, ok := pointMap[cur.Format(time.DateOnly)]; ok {
			p.Date = cur
			result = append(result, p)
		} else {
			result = append(result, entity.TimeSeriesPoint{Date: cur, Value: decimal.Zero, Count: 0})
		}
		cur = entity.BucketNext(cur, granularity)
	}
	return result
}
