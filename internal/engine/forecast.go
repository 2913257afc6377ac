package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"plata/internal/core"
)

// BaselineMonths is the trailing window used to establish the starting
// balance for a forecast.
const BaselineMonths = 3

// DefaultForecastMonths is used when the caller does not say how far ahead
// to project.
const DefaultForecastMonths = 3

// weeklyPerMonth is the average number of weeks in a month.
var weeklyPerMonth = decimal.RequireFromString("4.33")

type (
	ProjectionPoint struct {
		Month   time.Time // first day of the projected calendar month
		Label   string    // e.g. "Sep 2026"
		Balance decimal.Decimal
	}

	ForecastResult struct {
		Baseline         decimal.Decimal
		RecurringIncome  decimal.Decimal
		RecurringExpense decimal.Decimal
		LoanObligation   decimal.Decimal
		NetMonthly       decimal.Decimal
		Points           []ProjectionPoint
	}
)

// Forecast projects the balance months ahead. The baseline is net flow over
// the trailing three months; steady-state monthly flows are approximated by
// summing posted transactions that carry a recurring-source reference, split
// by kind. The projection is linear: netMonthly applied cumulatively, no
// seasonality and no interest compounding on the projected balance.
//
// The recurring approximation under-counts templates that have not posted
// yet; ForecastNormalized is the stricter variant.
func Forecast(txs []core.Transaction, loans []core.Loan, months int, today time.Time) ForecastResult {
	recurringIncome := decimal.Zero
	recurringExpense := decimal.Zero
	for _, t := range txs {
		if t.RecurringRef == "" {
			continue
		}
		switch t.Kind {
		case core.Income:
			recurringIncome = recurringIncome.Add(t.Amount)
		case core.Expense:
			recurringExpense = recurringExpense.Add(t.Amount)
		}
	}
	return buildForecast(txs, loans, recurringIncome, recurringExpense, months, today)
}

// ForecastNormalized derives the steady-state monthly flows from the
// recurring templates themselves, normalizing each template's frequency to a
// monthly-equivalent amount instead of summing posted occurrences.
func ForecastNormalized(txs []core.Transaction, recurring []core.RecurringTransaction, loans []core.Loan, months int, today time.Time) ForecastResult {
	recurringIncome := decimal.Zero
	recurringExpense := decimal.Zero
	for _, rt := range recurring {
		if !rt.EndDate.IsZero() && rt.EndDate.Before(today) {
			continue
		}
		monthly := MonthlyEquivalent(rt)
		switch rt.Kind {
		case core.Income:
			recurringIncome = recurringIncome.Add(monthly)
		case core.Expense:
			recurringExpense = recurringExpense.Add(monthly)
		}
	}
	return buildForecast(txs, loans, recurringIncome, recurringExpense, months, today)
}

func buildForecast(txs []core.Transaction, loans []core.Loan, recurringIncome, recurringExpense decimal.Decimal, months int, today time.Time) ForecastResult {
	if months <= 0 {
		months = DefaultForecastMonths
	}

	baselineStart := today.AddDate(0, -BaselineMonths, 0)
	baseline := NetFlow(txs, baselineStart, today)

	loanObligation := decimal.Zero
	for _, l := range loans {
		loanObligation = loanObligation.Add(l.MonthlyPayment)
	}

	net := recurringIncome.Sub(recurringExpense).Sub(loanObligation)

	res := ForecastResult{
		Baseline:         baseline,
		RecurringIncome:  recurringIncome,
		RecurringExpense: recurringExpense,
		LoanObligation:   loanObligation,
		NetMonthly:       net,
		Points:           make([]ProjectionPoint, 0, months),
	}

	balance := baseline
	for i := 1; i <= months; i++ {
		balance = balance.Add(net)
		m := today.AddDate(0, i, 0)
		first := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, m.Location())
		res.Points = append(res.Points, ProjectionPoint{
			Month:   first,
			Label:   first.Format("Jan 2006"),
			Balance: balance,
		})
	}
	return res
}

// MonthlyEquivalent normalizes a recurring template's amount to a monthly
// figure: daily x30, weekly x4.33, yearly /12.
func MonthlyEquivalent(rt core.RecurringTransaction) decimal.Decimal {
	switch rt.Frequency {
	case core.Daily:
		return rt.Amount.Mul(daysPerMonth)
	case core.Weekly:
		return rt.Amount.Mul(weeklyPerMonth)
	case core.Yearly:
		return rt.Amount.Div(twelve).Round(core.DisplayScale)
	default:
		return rt.Amount
	}
}
