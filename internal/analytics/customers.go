package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jekabolt/shop-analytics/internal/entity"
	"golang.org/x/sync/errgroup"
)

const topBuyersLimit = 10

// Frequent customers bought in at least frequentStreak consecutive months
// or in at least frequentMonths distinct months.
const (
	frequentStreak = 3
	frequentMonths = 4
)

func (s *Service) calculateCustomers(ctx context.Context, req request) (entity.CustomerMetrics, error) {
	var (
		orders []entity.CustomerOrder
		buyers []entity.Buyer
	)
	lookback := entity.TimeRange{
		From: req.tr.From.AddDate(0, -s.c.LookbackMonths, 0),
		To:   req.tr.To,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.store.CustomerOrders(ctx, req.filter, lookback)
		return err
	})
	g.Go(func() error {
		var err error
		buyers, err = s.store.TopBuyers(ctx, req.filter, req.tr, topBuyersLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.CustomerMetrics{}, fmt.Errorf("customers: %w", err)
	}

	m := segmentCustomers(orders, req.tr, s.loc)
	m.TopBuyers = buyers
	if m.TopBuyers == nil {
		m.TopBuyers = []entity.Buyer{}
	}
	return m, nil
}

type purchaseHistory struct {
	months     map[int]struct{}
	current    bool
	hasHistory bool
}

// segmentCustomers classifies every player with an order in [tr.From, tr.To].
// Orders before tr.From count as history, orders after tr.To are ignored.
func segmentCustomers(orders []entity.CustomerOrder, tr entity.TimeRange, loc *time.Location) entity.CustomerMetrics {
	players := make(map[string]*purchaseHistory)
	for _, o := range orders {
		if o.CreatedAt.After(tr.To) {
			continue
		}
		h, ok := players[o.PlayerId]
		if !ok {
			h = &purchaseHistory{months: make(map[int]struct{})}
			players[o.PlayerId] = h
		}
		h.months[monthKey(o.CreatedAt.In(loc))] = struct{}{}
		if o.CreatedAt.Before(tr.From) {
			h.hasHistory = true
		} else {
			h.current = true
		}
	}

	var m entity.CustomerMetrics
	for _, h := range players {
		if !h.current {
			continue
		}
		m.UniqueCount++
		switch classify(h) {
		case entity.CustomerSegmentNew:
			m.Segments.New++
		case entity.CustomerSegmentFrequent:
			m.Segments.Frequent++
		default:
			m.Segments.Returning++
		}
		if h.hasHistory {
			m.RepeatCount++
		}
	}
	m.RepeatPurchaseRate = safeRatio(float64(m.RepeatCount), float64(m.UniqueCount))
	return m
}

func classify(h *purchaseHistory) entity.CustomerSegment {
	if !h.hasHistory {
		return entity.CustomerSegmentNew
	}
	months := make([]int, 0, len(h.months))
	for k := range h.months {
		months = append(months, k)
	}
	if len(months) >= frequentMonths || longestStreak(months) >= frequentStreak {
		return entity.CustomerSegmentFrequent
	}
	return entity.CustomerSegmentReturning
}

// longestStreak returns the longest run of consecutive month keys.
func longestStreak(months []int) int {
	if len(months) == 0 {
		return 0
	}
	sort.Ints(months)
	longest, streak := 1, 1
	for i := 1; i < len(months); i++ {
		if months[i]-months[i-1] == 1 {
			streak++
		} else {
			streak = 1
		}
		if streak > longest {
			longest = streak
		}
	}
	return longest
}

// monthKey numbers calendar months so that adjacent months differ by one.
func monthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
