package analytics

import (
	"context"
	"fmt"

	"github.com/jekabolt/shop-analytics/internal/entity"
	"golang.org/x/sync/errgroup"
)

const (
	topSellingLimit = 10
	deadStockLimit  = 10
)

func (s *Service) calculateProducts(ctx context.Context, req request) (entity.ProductMetrics, error) {
	var (
		m          entity.ProductMetrics
		top        []entity.ListingSales
		categories []entity.CategoryRevenue
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		top, err = s.store.TopListingsByRevenue(ctx, req.filter, req.tr, topSellingLimit)
		return err
	})
	g.Go(func() error {
		var err error
		m.WindowRevenue, err = s.store.RevenueTotal(ctx, req.filter, req.tr)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.CategoryRevenue(ctx, req.filter, req.tr)
		return err
	})
	g.Go(func() error {
		var err error
		m.DeadStock, err = s.store.ListingsWithoutSales(ctx, req.filter, req.tr, deadStockLimit)
		return err
	})
	g.Go(func() error {
		var err error
		m.DeadStockCount, err = s.store.CountListingsWithoutSales(ctx, req.filter, req.tr)
		return err
	})
	g.Go(func() error {
		var err error
		m.TotalCount, err = s.store.ListingCount(ctx, req.filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.ProductMetrics{}, fmt.Errorf("products: %w", err)
	}

	m.TopSelling = make([]entity.ProductSales, 0, len(top))
	for _, ls := range top {
		m.TopSelling = append(m.TopSelling, entity.ProductSales{
			ListingSales:   ls,
			PercentOfTotal: safeRatioDecimal(ls.Revenue, m.WindowRevenue),
		})
	}

	m.Categories = make([]entity.CategoryPerformance, 0, len(categories))
	for _, c := range categories {
		if c.CategoryId == "" || c.Name == "" {
			continue
		}
		m.Categories = append(m.Categories, entity.CategoryPerformance{
			CategoryRevenue: c,
			PercentOfTotal:  safeRatioDecimal(c.Revenue, m.WindowRevenue),
		})
	}
	if m.DeadStock == nil {
		m.DeadStock = []entity.StaleListing{}
	}
	return m, nil
}
