// Package engine implements the financial analytics and planning computations:
// budget tracking, debt amortization and prioritization, cash-flow forecasting,
// rule-based categorization and savings planning.
//
// Every function here is a pure, synchronous computation over in-memory entity
// snapshots supplied by the caller. Nothing is persisted and no input is
// mutated; invocations are independent and safe to run in parallel.
package engine

import (
	"strings"
	"time"

	"plata/internal/core"
)

// Accepted layouts, tried in order. The first two cover ISO and the common
// Latin-American day-first form; the third is the US month-first form.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
}

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
}

// ResolveDate parses a flexible date string, trying each accepted layout in
// order. On exhaustion it returns fallback and false instead of an error:
// parsing is best-effort for a conversational surface. The boolean lets
// callers distinguish "no/garbage input" from a real parse when they care.
func ResolveDate(text string, fallback time.Time) (time.Time, bool) {
	return resolve(text, fallback, dateLayouts)
}

// ResolveDateTime is ResolveDate for inputs that may carry a time of day.
func ResolveDateTime(text string, fallback time.Time) (time.Time, bool) {
	return resolve(text, fallback, dateTimeLayouts)
}

func resolve(text string, fallback time.Time, layouts []string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return fallback, false
}

// PeriodWindow computes the calendar-aligned window containing ref for the
// given period. Month-length variation is handled by calendar arithmetic, not
// a fixed constant.
func PeriodWindow(period core.Frequency, ref time.Time) (start, end time.Time) {
	ref = DateOnly(ref)
	switch period {
	case core.Daily:
		return ref, ref
	case core.Weekly:
		// Monday through Sunday.
		offset := (int(ref.Weekday()) + 6) % 7
		start = ref.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6)
	case core.Yearly:
		start = time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, ref.Location())
		return start, time.Date(ref.Year(), time.December, 31, 0, 0, 0, 0, ref.Location())
	default: // core.Monthly
		start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return start, MonthEnd(ref)
	}
}

// CurrentFortnight returns the half of the month containing ref:
// days 1-15 or day 16 through end of month.
func CurrentFortnight(ref time.Time) (start, end time.Time) {
	ref = DateOnly(ref)
	if ref.Day() <= 15 {
		start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return start, time.Date(ref.Year(), ref.Month(), 15, 0, 0, 0, 0, ref.Location())
	}
	start = time.Date(ref.Year(), ref.Month(), 16, 0, 0, 0, 0, ref.Location())
	return start, MonthEnd(ref)
}

// PreviousFortnight returns the half-month immediately before the one
// containing ref, rolling into the prior month when needed.
func PreviousFortnight(ref time.Time) (start, end time.Time) {
	ref = DateOnly(ref)
	if ref.Day() <= 15 {
		prior := ref.AddDate(0, -1, 0)
		start = time.Date(prior.Year(), prior.Month(), 16, 0, 0, 0, 0, ref.Location())
		return start, MonthEnd(prior)
	}
	start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return start, time.Date(ref.Year(), ref.Month(), 15, 0, 0, 0, 0, ref.Location())
}

// NextDueDate projects a day-of-month forward from today: if the day has
// already passed this month, it rolls to the next month. Days beyond the
// month's length clamp to its last day.
func NextDueDate(dueDay int, today time.Time) time.Time {
	today = DateOnly(today)
	due := withDayClamped(today, dueDay)
	if due.Before(today) {
		due = withDayClamped(today.AddDate(0, 1, 0), dueDay)
	}
	return due
}

// DaysBetween counts whole days from a to b at day granularity. Both dates
// are rebuilt in UTC before subtracting so a DST transition between them
// cannot shift the count by an hour's worth of truncation.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// DateOnly truncates a timestamp to its date in UTC-agnostic form.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MonthEnd returns the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

func withDayClamped(t time.Time, day int) time.Time {
	last := MonthEnd(t).Day()
	if day > last {
		day = last
	}
	return time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, t.Location())
}
