package engine

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"plata/internal/core"
)

const (
	BudgetUnder    BudgetState = "UNDER"
	BudgetWarning  BudgetState = "WARNING"
	BudgetExceeded BudgetState = "EXCEEDED"
)

// WarningThresholdPercent is the consumption percentage above which a budget
// that is not yet exceeded reports WARNING. The value is part of the observable
// behavior contract.
var WarningThresholdPercent = decimal.NewFromInt(80)

type (
	BudgetState string

	BudgetStatus struct {
		Category    string
		Limit       decimal.Decimal
		Spent       decimal.Decimal
		Remaining   decimal.Decimal
		UsedPercent decimal.Decimal
		State       BudgetState
		WindowStart time.Time
		WindowEnd   time.Time
	}
)

// FindBudget locates the budget for a category, matching case-insensitively.
// A missing budget is ErrNoBudget so callers can distinguish "no budget
// defined" from "zero usage".
func FindBudget(budgets []core.Budget, category string) (core.Budget, error) {
	for _, b := range budgets {
		if strings.EqualFold(b.Category, category) {
			return b, nil
		}
	}
	return core.Budget{}, ErrNoBudget
}

// EvaluateBudget computes spent-vs-limit for a budget over its window.
// The window runs from the budget's start date to its end date, or to today
// when no end date is set. Spent counts EXPENSE transactions in the budget's
// category, date bounds inclusive.
//
// Limit > 0 is a precondition enforced by core.Budget.Validate upstream.
func EvaluateBudget(b core.Budget, txs []core.Transaction, today time.Time) BudgetStatus {
	end := b.EndDate
	if end.IsZero() {
		end = today
	}

	spent := SumAmount(FilterByCategory(txs, b.Category), core.Expense, b.StartDate, end)
	remaining := b.Limit.Sub(spent)
	usedPercent := core.Percent(spent, b.Limit)

	state := BudgetUnder
	switch {
	case remaining.IsNegative():
		state = BudgetExceeded
	case usedPercent.GreaterThan(WarningThresholdPercent):
		state = BudgetWarning
	}

	return BudgetStatus{
		Category:    b.Category,
		Limit:       b.Limit,
		Spent:       spent,
		Remaining:   remaining,
		UsedPercent: usedPercent,
		State:       state,
		WindowStart: DateOnly(b.StartDate),
		WindowEnd:   DateOnly(end),
	}
}

// EvaluateBudgets evaluates every budget against the same transaction
// snapshot, preserving input order.
func EvaluateBudgets(budgets []core.Budget, txs []core.Transaction, today time.Time) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, EvaluateBudget(b, txs, today))
	}
	return out
}
