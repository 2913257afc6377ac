package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMaxMonths caps the amortization horizon at five years so the
// simulation always terminates. Reaching the cap without payoff is reported
// as not converged, never silently truncated.
const DefaultMaxMonths = 60

// DefaultCardAPRPercent is the annual rate assumed for credit cards whose
// issuer rate is unknown.
var DefaultCardAPRPercent = decimal.NewFromInt(30)

var (
	hundred      = decimal.NewFromInt(100)
	twelve       = decimal.NewFromInt(12)
	daysPerMonth = decimal.NewFromInt(30)
)

type (
	ScheduleEntry struct {
		Month     int
		Payment   decimal.Decimal
		Interest  decimal.Decimal
		Principal decimal.Decimal
		Remaining decimal.Decimal
	}

	// Schedule is the projection of a balance under fixed monthly payments
	// with monthly compounding interest.
	Schedule struct {
		Entries       []ScheduleEntry
		Months        int
		TotalInterest decimal.Decimal
		TotalPaid     decimal.Decimal
		// Converged is false when the horizon cap was reached with a
		// balance still outstanding: payoff will take longer than Months.
		Converged bool
	}
)

// SimulatePayoff projects a debt balance forward month by month under a fixed
// payment. Each month accrues interest at annualRatePct/100/12 on the
// remaining balance; the rest of the payment reduces principal, clamped on
// the final month.
//
// A payment that cannot cover the first month's interest returns
// ErrInsufficientPayment before any iteration. maxMonths <= 0 selects
// DefaultMaxMonths.
func SimulatePayoff(balance, annualRatePct, payment decimal.Decimal, maxMonths int) (Schedule, error) {
	if !balance.IsPositive() {
		return Schedule{}, invalidInput("balance", "must be positive")
	}
	if annualRatePct.IsNegative() {
		return Schedule{}, invalidInput("annual rate", "must not be negative")
	}
	if !payment.IsPositive() {
		return Schedule{}, invalidInput("monthly payment", "must be positive")
	}
	if maxMonths <= 0 {
		maxMonths = DefaultMaxMonths
	}

	monthlyRate := annualRatePct.Div(hundred).Div(twelve)

	sched := Schedule{
		TotalInterest: decimal.Zero,
		TotalPaid:     decimal.Zero,
	}
	remaining := balance

	for month := 1; month <= maxMonths; month++ {
		interest := remaining.Mul(monthlyRate)
		principal := payment.Sub(interest)

		if !principal.IsPositive() {
			return Schedule{}, ErrInsufficientPayment
		}
		if principal.GreaterThan(remaining) {
			principal = remaining
		}
		remaining = remaining.Sub(principal)

		sched.Entries = append(sched.Entries, ScheduleEntry{
			Month:     month,
			Payment:   interest.Add(principal),
			Interest:  interest,
			Principal: principal,
			Remaining: remaining,
		})
		sched.TotalInterest = sched.TotalInterest.Add(interest)
		sched.TotalPaid = sched.TotalPaid.Add(interest).Add(principal)
		sched.Months = month

		if !remaining.IsPositive() {
			sched.Converged = true
			break
		}
	}

	return sched, nil
}

// InterestIfUnpaid estimates the interest accrued on a balance left unpaid
// until a future date, using a daily rate derived from the annual percentage
// (monthly rate over a 30-day month).
func InterestIfUnpaid(balance, annualRatePct decimal.Decimal, today, until time.Time) (decimal.Decimal, error) {
	days := DaysBetween(today, until)
	if days <= 0 {
		return decimal.Zero, invalidInput("projected date", "must be in the future")
	}
	dailyRate := annualRatePct.Div(hundred).Div(twelve).Div(daysPerMonth)
	return balance.Mul(dailyRate).Mul(decimal.NewFromInt(int64(days))), nil
}
