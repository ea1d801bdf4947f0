package analytics

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// safeRatio returns num/den as a percentage, 0 when den is 0.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

func safeRatioDecimal(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	f, _ := num.Div(den).Mul(hundred).Float64()
	return f
}

// growth is the percent change from previous to current.
func growth(current, previous decimal.Decimal) float64 {
	return safeRatioDecimal(current.Sub(previous), previous)
}

func growthInt(current, previous int) float64 {
	return safeRatio(float64(current-previous), float64(previous))
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
