package util

import (
	"time"
)

// DateLayout is the canonical date format stored in tracking and sleep rows.
// Zero-padded, so lexicographic order equals chronological order.
const DateLayout = "2006-01-02"

// IST is the canonical calendar of the service. "Today" is always computed
// in this zone, both for streak validity and future-date rejection.
var IST = time.FixedZone("IST", 5*3600+30*60)

// Today returns the current calendar day in IST as YYYY-MM-DD.
func Today(now time.Time) string {
	return now.In(IST).Format(DateLayout)
}

// DaysBetween returns the whole-day difference to - from for two YYYY-MM-DD
// strings. Negative when to is before from.
func DaysBetween(from, to string) (int, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0, err
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return 0, err
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// MonthBounds returns the inclusive date-string window for a month. The upper
// bound is the literal "-31" suffix: lexicographically it covers every real
// day of any month and matches nothing beyond it.
func MonthBounds(year, month int) (start, end string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first.Format(DateLayout), first.Format("2006-01") + "-31"
}

// EndOfMonth returns the last instant of the month in IST.
func EndOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, IST).Add(-time.Nanosecond)
}

// StartOfMonth returns the first instant of the month in IST.
func StartOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, IST)
}

// StartOfISTDay returns IST midnight daysAgo days before now.
func StartOfISTDay(now time.Time, daysAgo int) time.Time {
	d := now.In(IST).AddDate(0, 0, -daysAgo)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, IST)
}

// MonthsBefore enumerates every (year, month) pair from the from instant's
// calendar month up to but excluding (toYear, toMonth).
func MonthsBefore(from time.Time, toYear, toMonth int) [][2]int {
	var months [][2]int
	y, m := from.In(IST).Year(), int(from.In(IST).Month())
	for y < toYear || (y == toYear && m < toMonth) {
		months = append(months, [2]int{y, m})
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return months
}
