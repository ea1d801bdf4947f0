package analytics

import (
	"testing"
	"time"

	"github.com/jekabolt/shop-analytics/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFrontendDayIndex(t *testing.T) {
	for d := 0; d < 7; d++ {
		assert.Equal(t, (d+6)%7, frontendDayIndex(d), "weekday %d", d)
	}
}

func TestPeakCell(t *testing.T) {
	var grid [7][24]decimal.Decimal
	day, hour := peakCell(grid)
	assert.Equal(t, 0, day)
	assert.Equal(t, 0, hour)

	grid[1][9] = decimal.NewFromInt(40)
	grid[3][14] = decimal.NewFromInt(90)
	grid[6][23] = decimal.NewFromInt(89)
	day, hour = peakCell(grid)
	assert.Equal(t, 3, day)
	assert.Equal(t, 14, hour)

	// ties keep the first cell in day-then-hour order
	grid[5][2] = decimal.NewFromInt(90)
	grid[3][20] = decimal.NewFromInt(90)
	day, hour = peakCell(grid)
	assert.Equal(t, 3, day)
	assert.Equal(t, 14, hour)
}

func TestHeatmapAgreesWithPeak(t *testing.T) {
	var grid [7][24]decimal.Decimal
	grid[0][8] = decimal.NewFromInt(5)
	grid[3][14] = decimal.NewFromInt(12)

	points := heatmapPoints(grid)
	assert.Len(t, points, 2)
	// Sunday moves to the end of the week
	assert.Equal(t, 6, points[0].Day)
	assert.Equal(t, 8, points[0].Hour)

	rows := mondayFirst(grid)
	assert.Equal(t, 5.0, rows[6][8])
	assert.Equal(t, 12.0, rows[2][14])

	day, hour := peakCell(grid)
	assert.Equal(t, 12.0, rows[frontendDayIndex(day)][hour])
}

func TestBusiestHour(t *testing.T) {
	var byHour [24]int
	assert.Equal(t, 0, busiestHour(byHour))
	byHour[7], byHour[19] = 4, 4
	assert.Equal(t, 7, busiestHour(byHour))
	byHour[22] = 5
	assert.Equal(t, 22, busiestHour(byHour))
}

func TestSafeRatio(t *testing.T) {
	assert.Zero(t, safeRatio(5, 0))
	assert.Equal(t, 50.0, safeRatio(1, 2))
	assert.Zero(t, growth(decimal.NewFromInt(500), decimal.Zero))
	assert.Equal(t, -25.0, growth(decimal.NewFromInt(75), decimal.NewFromInt(100)))
	assert.Zero(t, growthInt(3, 0))
	assert.Equal(t, 200.0, growthInt(3, 1))
}

func TestLongestStreak(t *testing.T) {
	dec := monthKey(time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC))
	jan := monthKey(time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, jan-dec)

	assert.Equal(t, 0, longestStreak(nil))
	assert.Equal(t, 1, longestStreak([]int{5}))
	assert.Equal(t, 3, longestStreak([]int{12, 10, 11, 20}))
	assert.Equal(t, 2, longestStreak([]int{1, 3, 4, 7}))
}

func TestSegmentCustomers(t *testing.T) {
	// current period is March 2026
	tr := entity.TimeRange{
		From: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
	month := func(offset int) time.Time {
		return time.Date(2026, time.March+time.Month(offset), 15, 12, 0, 0, 0, time.UTC)
	}
	orders := func(player string, offsets ...int) []entity.CustomerOrder {
		var res []entity.CustomerOrder
		for _, o := range offsets {
			res = append(res, entity.CustomerOrder{PlayerId: player, CreatedAt: month(o)})
		}
		return res
	}

	tests := []struct {
		name     string
		orders   []entity.CustomerOrder
		segments entity.SegmentCounts
		unique   int
		repeat   int
	}{
		{
			name: "no orders",
		},
		{
			name:     "only order inside the period is new",
			orders:   orders("p1", 0),
			segments: entity.SegmentCounts{New: 1},
			unique:   1,
		},
		{
			name:     "several orders inside the period are still new",
			orders:   append(orders("p1", 0), entity.CustomerOrder{PlayerId: "p1", CreatedAt: tr.From}),
			segments: entity.SegmentCounts{New: 1},
			unique:   1,
		},
		{
			name:     "history in one earlier month is returning",
			orders:   orders("p1", -2, 0),
			segments: entity.SegmentCounts{Returning: 1},
			unique:   1,
			repeat:   1,
		},
		{
			name:     "three consecutive months are frequent",
			orders:   orders("p1", -2, -1, 0),
			segments: entity.SegmentCounts{Frequent: 1},
			unique:   1,
			repeat:   1,
		},
		{
			name:     "months M-5, M-4, M-3 and M are frequent",
			orders:   orders("p1", -5, -4, -3, 0),
			segments: entity.SegmentCounts{Frequent: 1},
			unique:   1,
			repeat:   1,
		},
		{
			name:     "four spaced months are frequent without a streak",
			orders:   orders("p1", -5, -3, -1, 0),
			segments: entity.SegmentCounts{Frequent: 1},
			unique:   1,
			repeat:   1,
		},
		{
			name:   "history only is not counted",
			orders: orders("p1", -4, -3, -2, -1),
		},
		{
			name:   "orders after the period are ignored",
			orders: orders("p1", 1),
		},
		{
			name: "mixed players",
			orders: append(append(append(
				orders("new", 0),
				orders("ret", -3, 0)...),
				orders("freq", -2, -1, 0)...),
				orders("gone", -2)...),
			segments: entity.SegmentCounts{New: 1, Returning: 1, Frequent: 1},
			unique:   3,
			repeat:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := segmentCustomers(tt.orders, tr, time.UTC)
			assert.Equal(t, tt.segments, m.Segments)
			assert.Equal(t, tt.unique, m.UniqueCount)
			assert.Equal(t, tt.repeat, m.RepeatCount)
			assert.Equal(t, tt.unique, m.Segments.Total())
			assert.Equal(t, safeRatio(float64(tt.repeat), float64(tt.unique)), m.RepeatPurchaseRate)
		})
	}
}

func TestSegmentCustomersBoundaries(t *testing.T) {
	tr := entity.TimeRange{
		From: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
	m := segmentCustomers([]entity.CustomerOrder{
		{PlayerId: "start", CreatedAt: tr.From},
		{PlayerId: "end", CreatedAt: tr.To},
		{PlayerId: "before", CreatedAt: tr.From.Add(-time.Second)},
	}, tr, time.UTC)
	assert.Equal(t, 2, m.UniqueCount)
	assert.Equal(t, 2, m.Segments.New)
}
