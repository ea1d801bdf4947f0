package analytics

import (
	"context"
	"fmt"

	"github.com/jekabolt/shop-analytics/internal/entity"
	"golang.org/x/sync/errgroup"
)

const recentOrdersLimit = 10

// calculateOrders reports status flow and daily counts for the window. Recent
// orders are the newest ones up to the window end, regardless of its start.
func (s *Service) calculateOrders(ctx context.Context, req request) (entity.OrderMetrics, error) {
	var (
		m        entity.OrderMetrics
		statuses []entity.StatusCount
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		statuses, err = s.store.OrderStatusCounts(ctx, req.filter, req.tr)
		return err
	})
	g.Go(func() error {
		var err error
		m.Recent, err = s.store.RecentOrders(ctx, req.filter, req.tr.To, recentOrdersLimit)
		return err
	})
	g.Go(func() error {
		var err error
		m.Daily, err = s.store.DailyOrderCounts(ctx, req.filter, req.tr)
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.OrderMetrics{}, fmt.Errorf("orders: %w", err)
	}

	for _, sc := range statuses {
		switch sc.Status {
		case entity.OrderStatusPaid:
			m.StatusFlow.Paid = sc.Count
		case entity.OrderStatusCompleted:
			m.StatusFlow.Completed = sc.Count
		case entity.OrderStatusCanceled:
			m.StatusFlow.Canceled = sc.Count
		}
	}
	return m, nil
}
