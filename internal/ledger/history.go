package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"kazanc/internal/core"
)

// WindowTotals holds earnings rolled up over the three reporting
// windows of the history view.
type WindowTotals struct {
	Last7Days decimal.Decimal `json:"last7Days"`
	ThisMonth decimal.Decimal `json:"thisMonth"`
	AllTime   decimal.Decimal `json:"allTime"`
}

// SumWindows folds day lines into windowed earning totals, relative to
// now. Intervals are inclusive at calendar-day granularity: last7Days
// is [now-6d, now], thisMonth is [1st of the month, now], allTime is
// unbounded. Pure; the input slice is not modified.
func SumWindows(days []core.HistoryDay, now time.Time) WindowTotals {
	today := core.DateOf(now)
	weekStart := core.DateOf(now.AddDate(0, 0, -6))
	monthStart := core.NewDate(now.Year(), int(now.Month()), 1)

	totals := WindowTotals{
		Last7Days: decimal.Zero,
		ThisMonth: decimal.Zero,
		AllTime:   decimal.Zero,
	}
	for _, day := range days {
		totals.AllTime = totals.AllTime.Add(day.TotalEarnings)
		if within(day.Date, weekStart, today) {
			totals.Last7Days = totals.Last7Days.Add(day.TotalEarnings)
		}
		if within(day.Date, monthStart, today) {
			totals.ThisMonth = totals.ThisMonth.Add(day.TotalEarnings)
		}
	}
	return totals
}

func within(d, start, end core.Date) bool {
	return !d.Before(start.Time) && !d.After(end.Time)
}
