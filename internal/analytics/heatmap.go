package analytics

import (
	"github.com/jekabolt/shop-analytics/internal/dto"
	"github.com/shopspring/decimal"
)

// dayNames is indexed by source weekday, 0=Sunday.
var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// frontendDayIndex maps a Sunday-first weekday to the Monday-first index the dashboard uses.
func frontendDayIndex(d int) int {
	if d == 0 {
		return 6
	}
	return d - 1
}

// peakCell returns the Sunday-first (day, hour) with the highest revenue.
// Ties keep the first cell in day-then-hour order; an all-zero grid yields (0, 0).
func peakCell(byHour [7][24]decimal.Decimal) (day, hour int) {
	maxValue := decimal.Zero
	for d := range byHour {
		for h := range byHour[d] {
			if byHour[d][h].GreaterThan(maxValue) {
				maxValue = byHour[d][h]
				day, hour = d, h
			}
		}
	}
	return day, hour
}

// heatmapPoints lists the non-empty cells with Monday-first days, in source scan order.
func heatmapPoints(byHour [7][24]decimal.Decimal) []dto.HeatmapPoint {
	points := []dto.HeatmapPoint{}
	for d := range byHour {
		for h := range byHour[d] {
			if byHour[d][h].IsPositive() {
				points = append(points, dto.HeatmapPoint{
					Day:   frontendDayIndex(d),
					Hour:  h,
					Value: toFloat(byHour[d][h]),
				})
			}
		}
	}
	return points
}

// mondayFirst re-indexes the grid so row 0 is Monday.
func mondayFirst(byHour [7][24]decimal.Decimal) [][]float64 {
	out := make([][]float64, 7)
	for d := range byHour {
		row := make([]float64, 24)
		for h := range byHour[d] {
			row[h] = toFloat(byHour[d][h])
		}
		out[frontendDayIndex(d)] = row
	}
	return out
}
