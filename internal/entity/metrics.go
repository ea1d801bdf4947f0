package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricsGranularity controls time bucket size for time series (day, week, month).
type MetricsGranularity int

const (
	MetricsGranularityDay   MetricsGranularity = 1
	MetricsGranularityWeek  MetricsGranularity = 2
	MetricsGranularityMonth MetricsGranularity = 3
)

func (g MetricsGranularity) String() string {
	switch g {
	case MetricsGranularityWeek:
		return "week"
	case MetricsGranularityMonth:
		return "month"
	default:
		return "day"
	}
}

// GranularityForRange picks the bucket size from the window length:
// up to 30 days daily, up to 90 days weekly, monthly beyond that.
func GranularityForRange(tr TimeRange) MetricsGranularity {
	days := tr.To.Sub(tr.From).Hours() / 24
	switch {
	case days <= 30:
		return MetricsGranularityDay
	case days <= 90:
		return MetricsGranularityWeek
	default:
		return MetricsGranularityMonth
	}
}

// TimeRange is a half-open [From, To) window.
type TimeRange struct {
	From time.Time
	To   time.Time
}

func (tr TimeRange) Duration() time.Duration {
	return tr.To.Sub(tr.From)
}

// Previous returns the window of identical length ending where tr starts.
func (tr TimeRange) Previous() TimeRange {
	return TimeRange{
		From: tr.From.Add(-tr.Duration()),
		To:   tr.From,
	}
}

// TimeSeriesPoint is one bucket of a revenue series. Count holds the number of orders.
type TimeSeriesPoint struct {
	Date  time.Time       `db:"bucket"`
	Value decimal.Decimal `db:"value"`
	Count int             `db:"cnt"`
}

// BucketStart truncates t to the start of its bucket in t's location.
func BucketStart(t time.Time, g MetricsGranularity) time.Time {
	loc := t.Location()
	switch g {
	case MetricsGranularityWeek:
		// Monday 00:00 (align with MySQL WEEKDAY: 0=Mon, 6=Sun; Go: 0=Sun, 1=Mon)
		weekday := int(t.Weekday())
		daysBack := (weekday + 6) % 7
		return time.Date(t.Year(), t.Month(), t.Day()-daysBack, 0, 0, 0, 0, loc)
	case MetricsGranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
}

func BucketNext(t time.Time, g MetricsGranularity) time.Time {
	switch g {
	case MetricsGranularityWeek:
		return t.AddDate(0, 0, 7)
	case MetricsGranularityMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}
