package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"plata/internal/core"
)

type (
	// PeriodComparison contrasts expense totals between two windows, the more
	// recent window first.
	PeriodComparison struct {
		Period1Start  time.Time
		Period1End    time.Time
		Period1Total  decimal.Decimal
		Period2Start  time.Time
		Period2End    time.Time
		Period2Total  decimal.Decimal
		Difference    decimal.Decimal
		PercentChange decimal.Decimal
	}

	CategoryShare struct {
		Category string
		Total    decimal.Decimal
		Percent  decimal.Decimal
	}

	MonthReport struct {
		Year       int
		Month      time.Month
		Income     decimal.Decimal
		Expense    decimal.Decimal
		Balance    decimal.Decimal
		ByCategory []CategoryShare
	}

	NetWorthResult struct {
		Income   decimal.Decimal // year to date
		Expense  decimal.Decimal // year to date
		Debt     decimal.Decimal // outstanding loan principal
		NetWorth decimal.Decimal
	}

	SubscriptionGroup struct {
		Category     string
		Items        []SubscriptionItem
		MonthlyTotal decimal.Decimal
	}

	SubscriptionItem struct {
		Description   string
		Frequency     core.Frequency
		Amount        decimal.Decimal
		MonthlyAmount decimal.Decimal
	}

	SubscriptionReport struct {
		Groups       []SubscriptionGroup
		MonthlyTotal decimal.Decimal
		AnnualTotal  decimal.Decimal
	}
)

// CompareMonths contrasts the month containing ref against the previous month.
func CompareMonths(txs []core.Transaction, ref time.Time) PeriodComparison {
	p1Start, p1End := PeriodWindow(core.Monthly, ref)
	p2Start, p2End := PeriodWindow(core.Monthly, ref.AddDate(0, -1, 0))
	return comparePeriods(txs, p1Start, p1End, p2Start, p2End)
}

// CompareFortnights contrasts the half-month containing ref against the one
// before it.
func CompareFortnights(txs []core.Transaction, ref time.Time) PeriodComparison {
	p1Start, p1End := CurrentFortnight(ref)
	p2Start, p2End := PreviousFortnight(ref)
	return comparePeriods(txs, p1Start, p1End, p2Start, p2End)
}

func comparePeriods(txs []core.Transaction, p1Start, p1End, p2Start, p2End time.Time) PeriodComparison {
	p1 := SumAmount(txs, core.Expense, p1Start, p1End)
	p2 := SumAmount(txs, core.Expense, p2Start, p2End)
	diff := p1.Sub(p2)

	change := decimal.Zero
	if p2.IsPositive() {
		change = diff.Mul(hundred).Div(p2).Round(core.DisplayScale)
	}

	return PeriodComparison{
		Period1Start:  p1Start,
		Period1End:    p1End,
		Period1Total:  p1,
		Period2Start:  p2Start,
		Period2End:    p2End,
		Period2Total:  p2,
		Difference:    diff,
		PercentChange: change,
	}
}

// MonthlyReport summarizes one calendar month: totals by kind and the expense
// breakdown by category with each category's share of the month's spending.
func MonthlyReport(txs []core.Transaction, year int, month time.Month) MonthReport {
	ref := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start, end := PeriodWindow(core.Monthly, ref)

	income := SumAmount(txs, core.Income, start, end)
	expense := SumAmount(txs, core.Expense, start, end)

	inWindow := make([]core.Transaction, 0)
	for _, t := range txs {
		if inRange(t.Date, start, end) {
			inWindow = append(inWindow, t)
		}
	}

	byCategory := make([]CategoryShare, 0)
	for _, ct := range GroupByCategory(inWindow, core.Expense) {
		byCategory = append(byCategory, CategoryShare{
			Category: ct.Category,
			Total:    ct.Total,
			Percent:  core.Percent(ct.Total, expense),
		})
	}

	return MonthReport{
		Year:       year,
		Month:      month,
		Income:     income,
		Expense:    expense,
		Balance:    income.Sub(expense),
		ByCategory: byCategory,
	}
}

// NetWorth is year-to-date income minus year-to-date expense minus the
// outstanding principal across all loans.
func NetWorth(txs []core.Transaction, loans []core.Loan, today time.Time) NetWorthResult {
	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())

	income := SumAmount(txs, core.Income, yearStart, today)
	expense := SumAmount(txs, core.Expense, yearStart, today)

	debt := decimal.Zero
	for _, l := range loans {
		debt = debt.Add(l.Principal)
	}

	return NetWorthResult{
		Income:   income,
		Expense:  expense,
		Debt:     debt,
		NetWorth: income.Sub(expense).Sub(debt),
	}
}

// AnalyzeSubscriptions groups recurring expense templates by category with
// monthly-equivalent amounts, surfacing what the steady subscriptions cost
// per month and per year.
func AnalyzeSubscriptions(recurring []core.RecurringTransaction) SubscriptionReport {
	groups := make(map[string]*SubscriptionGroup)
	order := make([]string, 0)
	monthlyTotal := decimal.Zero

	for _, rt := range recurring {
		if rt.Kind != core.Expense {
			continue
		}
		cat := rt.Category
		if cat == "" {
			cat = core.DefaultCategory
		}
		g, ok := groups[cat]
		if !ok {
			g = &SubscriptionGroup{Category: cat, MonthlyTotal: decimal.Zero}
			groups[cat] = g
			order = append(order, cat)
		}

		monthly := MonthlyEquivalent(rt)
		g.Items = append(g.Items, SubscriptionItem{
			Description:   rt.Description,
			Frequency:     rt.Frequency,
			Amount:        rt.Amount,
			MonthlyAmount: monthly,
		})
		g.MonthlyTotal = g.MonthlyTotal.Add(monthly)
		monthlyTotal = monthlyTotal.Add(monthly)
	}

	report := SubscriptionReport{
		Groups:       make([]SubscriptionGroup, 0, len(order)),
		MonthlyTotal: monthlyTotal,
		AnnualTotal:  monthlyTotal.Mul(twelve),
	}
	for _, cat := range order {
		report.Groups = append(report.Groups, *groups[cat])
	}
	return report
}
