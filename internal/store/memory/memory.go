// Package memory keeps shop records in process and answers the same
// aggregation queries as the MySQL store. Hours, days and weekdays are
// evaluated in the store's location.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jekabolt/shop-analytics/internal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

type Store struct {
	mu         sync.RWMutex
	loc        *time.Location
	players    map[string]entity.Player
	categories map[string]entity.ShopCategory
	listings   map[string]entity.ShopListing
	orders     []entity.ShopOrder
}

func New(loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		loc:        loc,
		players:    map[string]entity.Player{},
		categories: map[string]entity.ShopCategory{},
		listings:   map[string]entity.ShopListing{},
	}
}

func (s *Store) InsertPlayer(_ context.Context, p entity.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.Id] = p
	return nil
}

func (s *Store) InsertCategory(_ context.Context, c entity.ShopCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.Id] = c
	return nil
}

func (s *Store) InsertListing(_ context.Context, l entity.ShopListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[l.Id]; ok {
		return fmt.Errorf("insert listing: duplicate id %s", l.Id)
	}
	for _, id := range l.CategoryIds {
		if _, ok := s.categories[id]; !ok {
			return fmt.Errorf("insert listing: unknown category %s", id)
		}
	}
	s.listings[l.Id] = l
	return nil
}

func (s *Store) InsertOrder(_ context.Context, o entity.ShopOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[o.ListingId]; !ok {
		return fmt.Errorf("insert order: unknown listing %s", o.ListingId)
	}
	if _, ok := s.players[o.PlayerId]; !ok {
		return fmt.Errorf("insert order: unknown player %s", o.PlayerId)
	}
	s.orders = append(s.orders, o)
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

type sale struct {
	order   entity.ShopOrder
	listing entity.ShopListing
}

func (sl sale) revenue() decimal.Decimal {
	return sl.listing.Price.Mul(decimal.NewFromInt(int64(sl.order.Amount)))
}

func inRange(t time.Time, tr entity.TimeRange) bool {
	return !t.Before(tr.From) && t.Before(tr.To)
}

func inClosedRange(t time.Time, tr entity.TimeRange) bool {
	return !t.Before(tr.From) && !t.After(tr.To)
}

// sales returns domain orders joined with their listing, restricted by the
// game server filter, the status set and keep. Callers must hold the read lock.
func (s *Store) sales(f entity.AnalyticsFilter, revenueOnly bool, keep func(o entity.ShopOrder) bool) []sale {
	var res []sale
	for _, o := range s.orders {
		if o.DomainId != f.DomainId {
			continue
		}
		if revenueOnly && !o.Status.CountsAsRevenue() {
			continue
		}
		l, ok := s.listings[o.ListingId]
		if !ok || !f.MatchesGameServer(l.GameServerId) {
			continue
		}
		if keep != nil && !keep(o) {
			continue
		}
		res = append(res, sale{order: o, listing: l})
	}
	return res
}

func (s *Store) salesInRange(f entity.AnalyticsFilter, tr entity.TimeRange) []sale {
	return s.sales(f, true, func(o entity.ShopOrder) bool { return inRange(o.CreatedAt, tr) })
}

func (s *Store) day(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

func (s *Store) RevenueTotal(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, sl := range s.salesInRange(f, tr) {
		total = total.Add(sl.revenue())
	}
	return total, nil
}

func (s *Store) RevenueTimeSeries(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange, g entity.MetricsGranularity) ([]entity.TimeSeriesPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	buckets := map[time.Time]*entity.TimeSeriesPoint{}
	for _, sl := range s.salesInRange(f, tr) {
		start := entity.BucketStart(sl.order.CreatedAt.In(s.loc), g)
		p, ok := buckets[start]
		if !ok {
			p = &entity.TimeSeriesPoint{Date: start, Value: decimal.Zero}
			buckets[start] = p
		}
		p.Value = p.Value.Add(sl.revenue())
		p.Count++
	}
	points := make([]entity.TimeSeriesPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, *p)
	}
	slices.SortFunc(points, func(a, b entity.TimeSeriesPoint) int { return a.Date.Compare(b.Date) })
	return points, nil
}

func (s *Store) RevenueByWeekdayHour(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.WeekdayHourRevenue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var grid [7][24]decimal.Decimal
	var seen [7][24]bool
	for _, sl := range s.salesInRange(f, tr) {
		t := sl.order.CreatedAt.In(s.loc)
		d, h := int(t.Weekday()), t.Hour()
		grid[d][h] = grid[d][h].Add(sl.revenue())
		seen[d][h] = true
	}
	cells := []entity.WeekdayHourRevenue{}
	for d := range grid {
		for h := range grid[d] {
			if seen[d][h] {
				cells = append(cells, entity.WeekdayHourRevenue{Weekday: d, Hour: h, Revenue: grid[d][h]})
			}
		}
	}
	return cells, nil
}

func (s *Store) RevenueByDay(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.DayRevenue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byDay := map[time.Time]decimal.Decimal{}
	for _, sl := range s.salesInRange(f, tr) {
		d := s.day(sl.order.CreatedAt)
		byDay[d] = byDay[d].Add(sl.revenue())
	}
	days := make([]entity.DayRevenue, 0, len(byDay))
	for d, v := range byDay {
		days = append(days, entity.DayRevenue{Date: d, Revenue: v})
	}
	slices.SortFunc(days, func(a, b entity.DayRevenue) int { return a.Date.Compare(b.Date) })
	return days, nil
}

func (s *Store) OrderCount(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.salesInRange(f, tr)), nil
}

func (s *Store) OrderCountByHour(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.HourCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var byHour [24]int
	for _, sl := range s.salesInRange(f, tr) {
		byHour[sl.order.CreatedAt.In(s.loc).Hour()]++
	}
	hours := []entity.HourCount{}
	for h, c := range byHour {
		if c > 0 {
			hours = append(hours, entity.HourCount{Hour: h, Count: c})
		}
	}
	return hours, nil
}

func (s *Store) OrderStatusCounts(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.StatusCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byStatus := map[entity.OrderStatus]int{}
	for _, sl := range s.sales(f, false, func(o entity.ShopOrder) bool { return inRange(o.CreatedAt, tr) }) {
		byStatus[sl.order.Status]++
	}
	counts := make([]entity.StatusCount, 0, len(byStatus))
	for st, c := range byStatus {
		counts = append(counts, entity.StatusCount{Status: st, Count: c})
	}
	slices.SortFunc(counts, func(a, b entity.StatusCount) int { return compareStrings(string(a.Status), string(b.Status)) })
	return counts, nil
}

func (s *Store) RecentOrders(_ context.Context, f entity.AnalyticsFilter, before time.Time, limit int) ([]entity.RecentOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.sales(f, true, func(o entity.ShopOrder) bool { return o.CreatedAt.Before(before) })
	slices.SortStableFunc(matched, func(a, b sale) int { return b.order.CreatedAt.Compare(a.order.CreatedAt) })
	orders := []entity.RecentOrder{}
	for _, sl := range matched {
		p, ok := s.players[sl.order.PlayerId]
		if !ok {
			continue
		}
		if len(orders) == limit {
			break
		}
		orders = append(orders, entity.RecentOrder{
			OrderId:     sl.order.Id,
			PlayerId:    p.Id,
			PlayerName:  p.Name,
			ListingName: sl.listing.Name,
			Value:       sl.revenue(),
			Status:      sl.order.Status,
			CreatedAt:   sl.order.CreatedAt,
		})
	}
	return orders, nil
}

func (s *Store) DailyOrderCounts(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.DayCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byDay := map[time.Time]int{}
	for _, sl := range s.salesInRange(f, tr) {
		byDay[s.day(sl.order.CreatedAt)]++
	}
	days := make([]entity.DayCount, 0, len(byDay))
	for d, c := range byDay {
		days = append(days, entity.DayCount{Date: d, Count: c})
	}
	slices.SortFunc(days, func(a, b entity.DayCount) int { return a.Date.Compare(b.Date) })
	return days, nil
}

func (s *Store) OrderValueStats(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (entity.OrderValueStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := entity.OrderValueStats{Average: decimal.Zero, Min: decimal.Zero, Max: decimal.Zero}
	matched := s.salesInRange(f, tr)
	if len(matched) == 0 {
		return stats, nil
	}
	sum := decimal.Zero
	for i, sl := range matched {
		v := sl.revenue()
		sum = sum.Add(v)
		if i == 0 || v.LessThan(stats.Min) {
			stats.Min = v
		}
		if i == 0 || v.GreaterThan(stats.Max) {
			stats.Max = v
		}
	}
	stats.Average = sum.Div(decimal.NewFromInt(int64(len(matched))))
	return stats, nil
}

func (s *Store) CustomerCounts(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (entity.CustomerCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// lifetime order counts ignore the game server filter
	lifetime := map[string]int{}
	for _, sl := range s.sales(entity.AnalyticsFilter{DomainId: f.DomainId}, true, nil) {
		lifetime[sl.order.PlayerId]++
	}
	var counts entity.CustomerCounts
	seen := map[string]bool{}
	for _, sl := range s.salesInRange(f, tr) {
		id := sl.order.PlayerId
		if seen[id] {
			continue
		}
		seen[id] = true
		counts.Unique++
		if lifetime[id] == 1 {
			counts.New++
		} else {
			counts.Returning++
		}
	}
	return counts, nil
}

func (s *Store) DistinctCustomerCount(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	for _, sl := range s.salesInRange(f, tr) {
		seen[sl.order.PlayerId] = true
	}
	return len(seen), nil
}

func (s *Store) CustomerOrders(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.CustomerOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := []entity.CustomerOrder{}
	for _, sl := range s.sales(f, true, func(o entity.ShopOrder) bool { return inClosedRange(o.CreatedAt, tr) }) {
		orders = append(orders, entity.CustomerOrder{PlayerId: sl.order.PlayerId, CreatedAt: sl.order.CreatedAt})
	}
	slices.SortStableFunc(orders, func(a, b entity.CustomerOrder) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return orders, nil
}

func (s *Store) TopBuyers(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange, limit int) ([]entity.Buyer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byPlayer := map[string]*entity.Buyer{}
	for _, sl := range s.sales(f, true, func(o entity.ShopOrder) bool { return inClosedRange(o.CreatedAt, tr) }) {
		b, ok := byPlayer[sl.order.PlayerId]
		if !ok {
			b = &entity.Buyer{PlayerId: sl.order.PlayerId, Name: s.players[sl.order.PlayerId].Name, TotalSpent: decimal.Zero}
			byPlayer[sl.order.PlayerId] = b
		}
		b.TotalSpent = b.TotalSpent.Add(sl.revenue())
		b.OrderCount++
		if sl.order.CreatedAt.After(b.LastPurchase) {
			b.LastPurchase = sl.order.CreatedAt
		}
	}
	buyers := make([]entity.Buyer, 0, len(byPlayer))
	for _, b := range byPlayer {
		buyers = append(buyers, *b)
	}
	slices.SortFunc(buyers, func(a, b entity.Buyer) int {
		if c := b.TotalSpent.Cmp(a.TotalSpent); c != 0 {
			return c
		}
		return compareStrings(a.PlayerId, b.PlayerId)
	})
	return truncate(buyers, limit), nil
}

func (s *Store) TopListingsByRevenue(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange, limit int) ([]entity.ListingSales, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byListing := map[string]*entity.ListingSales{}
	for _, sl := range s.salesInRange(f, tr) {
		ls, ok := byListing[sl.listing.Id]
		if !ok {
			ls = &entity.ListingSales{ListingId: sl.listing.Id, Name: sl.listing.Name, Revenue: decimal.Zero}
			byListing[sl.listing.Id] = ls
		}
		ls.Quantity += sl.order.Amount
		ls.Revenue = ls.Revenue.Add(sl.revenue())
		if sl.order.CreatedAt.After(ls.LastSold) {
			ls.LastSold = sl.order.CreatedAt
		}
	}
	listings := make([]entity.ListingSales, 0, len(byListing))
	for _, ls := range byListing {
		listings = append(listings, *ls)
	}
	slices.SortFunc(listings, func(a, b entity.ListingSales) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return compareStrings(a.ListingId, b.ListingId)
	})
	return truncate(listings, limit), nil
}

func (s *Store) CategoryRevenue(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) ([]entity.CategoryRevenue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type acc struct {
		row    entity.CategoryRevenue
		orders map[string]bool
	}
	byCategory := map[string]*acc{}
	add := func(id, name string, sl sale) {
		a, ok := byCategory[id]
		if !ok {
			a = &acc{row: entity.CategoryRevenue{CategoryId: id, Name: name, Revenue: decimal.Zero}, orders: map[string]bool{}}
			byCategory[id] = a
		}
		a.row.Revenue = a.row.Revenue.Add(sl.revenue())
		a.orders[sl.order.Id] = true
	}
	for _, sl := range s.salesInRange(f, tr) {
		if len(sl.listing.CategoryIds) == 0 {
			add("", "", sl)
			continue
		}
		for _, id := range sl.listing.CategoryIds {
			add(id, s.categories[id].Name, sl)
		}
	}
	categories := make([]entity.CategoryRevenue, 0, len(byCategory))
	for _, a := range byCategory {
		a.row.Orders = len(a.orders)
		categories = append(categories, a.row)
	}
	slices.SortFunc(categories, func(a, b entity.CategoryRevenue) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return compareStrings(a.CategoryId, b.CategoryId)
	})
	return categories, nil
}

// staleListings must be called with the read lock held.
func (s *Store) staleListings(f entity.AnalyticsFilter, tr entity.TimeRange) []entity.StaleListing {
	sold := map[string]bool{}
	for _, sl := range s.sales(entity.AnalyticsFilter{DomainId: f.DomainId}, true, func(o entity.ShopOrder) bool { return inRange(o.CreatedAt, tr) }) {
		sold[sl.listing.Id] = true
	}
	stale := []entity.StaleListing{}
	for _, l := range s.listings {
		if l.DomainId != f.DomainId || l.DeletedAt != nil || !f.MatchesGameServer(l.GameServerId) || sold[l.Id] {
			continue
		}
		stale = append(stale, entity.StaleListing{
			ListingId:        l.Id,
			Name:             l.Name,
			CreatedAt:        l.CreatedAt,
			DaysSinceCreated: int(tr.To.Sub(l.CreatedAt).Hours() / 24),
		})
	}
	slices.SortFunc(stale, func(a, b entity.StaleListing) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareStrings(a.ListingId, b.ListingId)
	})
	return stale
}

func (s *Store) ListingsWithoutSales(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange, limit int) ([]entity.StaleListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return truncate(s.staleListings(f, tr), limit), nil
}

func (s *Store) CountListingsWithoutSales(_ context.Context, f entity.AnalyticsFilter, tr entity.TimeRange) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.staleListings(f, tr)), nil
}

func (s *Store) ListingCount(_ context.Context, f entity.AnalyticsFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, l := range s.listings {
		if l.DomainId == f.DomainId && l.DeletedAt == nil && f.MatchesGameServer(l.GameServerId) {
			n++
		}
	}
	return n, nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
