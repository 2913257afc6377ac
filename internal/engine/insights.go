package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"plata/internal/core"
)

// DefaultUnusualThreshold applies when the caller passes a non-positive
// threshold to DetectUnusualExpenses.
var DefaultUnusualThreshold = decimal.NewFromInt(1000)

type (
	SpendPrediction struct {
		PreviousMonth    decimal.Decimal // expenses of the last full calendar month
		RecurringMonthly decimal.Decimal // expenses posted by recurring templates
		Predicted        decimal.Decimal
	}

	UnusualExpense struct {
		Transaction core.Transaction
		OverBy      decimal.Decimal // amount above the threshold
	}

	UnusualReport struct {
		Threshold decimal.Decimal
		Average   decimal.Decimal // mean expense in the window, for context
		Flagged   []UnusualExpense
	}

	UpcomingPayment struct {
		RecurringID       string
		Description       string
		Amount            decimal.Decimal
		Frequency         core.Frequency
		MonthlyEquivalent decimal.Decimal
	}
)

// PredictMonthSpend estimates next month's expenses: the last full calendar
// month's spending plus the expenses already posted by recurring templates.
// Recurring occurrences inside last month contribute to both terms, which
// keeps the estimate pessimistic rather than optimistic.
func PredictMonthSpend(txs []core.Transaction, today time.Time) SpendPrediction {
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	prevStart := firstOfMonth.AddDate(0, -1, 0)
	prevEnd := firstOfMonth.AddDate(0, 0, -1)

	previous := SumAmount(txs, core.Expense, prevStart, prevEnd)

	recurring := decimal.Zero
	for _, t := range txs {
		if t.Kind != core.Expense || t.RecurringRef == "" {
			continue
		}
		recurring = recurring.Add(t.Amount)
	}

	return SpendPrediction{
		PreviousMonth:    previous,
		RecurringMonthly: recurring,
		Predicted:        previous.Add(recurring),
	}
}

// DetectUnusualExpenses flags expenses in [start, end] strictly above the
// threshold. A non-positive threshold falls back to DefaultUnusualThreshold.
// Flagged expenses are ordered by descending amount; ties order by date.
func DetectUnusualExpenses(txs []core.Transaction, threshold decimal.Decimal, start, end time.Time) UnusualReport {
	if !threshold.IsPositive() {
		threshold = DefaultUnusualThreshold
	}

	sum := decimal.Zero
	count := 0
	flagged := make([]UnusualExpense, 0)
	for _, t := range txs {
		if t.Kind != core.Expense || !inRange(t.Date, start, end) {
			continue
		}
		sum = sum.Add(t.Amount)
		count++
		if t.Amount.GreaterThan(threshold) {
			flagged = append(flagged, UnusualExpense{
				Transaction: t,
				OverBy:      t.Amount.Sub(threshold),
			})
		}
	}

	sort.Slice(flagged, func(i, j int) bool {
		a, b := flagged[i].Transaction, flagged[j].Transaction
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Date.Before(b.Date)
	})

	average := decimal.Zero
	if count > 0 {
		average = sum.Div(decimal.NewFromInt(int64(count))).Round(core.DisplayScale)
	}

	return UnusualReport{
		Threshold: threshold,
		Average:   average,
		Flagged:   flagged,
	}
}

// UpcomingPayments lists the expense templates still active at today, the
// reminders a user wants ahead of their fixed obligations. Income templates
// and templates already past their end date are excluded. Ordered by
// descending monthly-equivalent amount; ties order by description.
func UpcomingPayments(recurring []core.RecurringTransaction, today time.Time) []UpcomingPayment {
	out := make([]UpcomingPayment, 0, len(recurring))
	for _, rt := range recurring {
		if rt.Kind != core.Expense {
			continue
		}
		if !rt.EndDate.IsZero() && rt.EndDate.Before(today) {
			continue
		}
		out = append(out, UpcomingPayment{
			RecurringID:       rt.ID,
			Description:       rt.Description,
			Amount:            rt.Amount,
			Frequency:         rt.Frequency,
			MonthlyEquivalent: MonthlyEquivalent(rt),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].MonthlyEquivalent.Equal(out[j].MonthlyEquivalent) {
			return out[i].MonthlyEquivalent.GreaterThan(out[j].MonthlyEquivalent)
		}
		return out[i].Description < out[j].Description
	})
	return out
}
