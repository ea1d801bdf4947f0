package entity

import "time"

// Period is the reporting window requested by the dashboard.
type Period string

const (
	PeriodLast24Hours Period = "LAST_24_HOURS"
	PeriodLast7Days   Period = "LAST_7_DAYS"
	PeriodLast30Days  Period = "LAST_30_DAYS"
	PeriodLast90Days  Period = "LAST_90_DAYS"
)

// DefaultPeriod is used for empty and unknown period values.
const DefaultPeriod = PeriodLast30Days

var periodDurations = map[Period]time.Duration{
	PeriodLast24Hours: 24 * time.Hour,
	PeriodLast7Days:   7 * 24 * time.Hour,
	PeriodLast30Days:  30 * 24 * time.Hour,
	PeriodLast90Days:  90 * 24 * time.Hour,
}

// ParsePeriod never fails: anything unrecognised maps to DefaultPeriod.
func ParsePeriod(s string) Period {
	p := Period(s)
	if _, ok := periodDurations[p]; ok {
		return p
	}
	return DefaultPeriod
}

func (p Period) Valid() bool {
	_, ok := periodDurations[p]
	return ok
}

func (p Period) Duration() time.Duration {
	if d, ok := periodDurations[p]; ok {
		return d
	}
	return periodDurations[DefaultPeriod]
}

// Range anchors the period at now.
func (p Period) Range(now time.Time) TimeRange {
	return TimeRange{
		From: now.Add(-p.Duration()),
		To:   now,
	}
}
