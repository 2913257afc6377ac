package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"plata/internal/core"
)

// CategoryTotal is an amount aggregated under a category name.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// SumAmount sums the amounts of transactions matching kind with dates in
// [start, end], bounds inclusive at day granularity. Empty input yields zero.
func SumAmount(txs []core.Transaction, kind core.TransactionKind, start, end time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		if !inRange(t.Date, start, end) {
			continue
		}
		sum = sum.Add(t.Amount)
	}
	return sum
}

// NetFlow is income minus expense over [start, end].
func NetFlow(txs []core.Transaction, start, end time.Time) decimal.Decimal {
	return SumAmount(txs, core.Income, start, end).Sub(SumAmount(txs, core.Expense, start, end))
}

// GroupByCategory reduces transactions of the given kind into per-category
// totals. Uncategorized transactions group under core.DefaultCategory.
// The result is ordered by descending total so ranked reports are stable;
// equal totals order by category name.
func GroupByCategory(txs []core.Transaction, kind core.TransactionKind) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = core.DefaultCategory
		}
		totals[cat] = totals[cat].Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for cat, sum := range totals {
		out = append(out, CategoryTotal{Category: cat, Total: sum})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// FilterByCategory returns the transactions attributed to the given category.
// Matching folds case, the same comparison FindBudget and FindGoal use, so a
// budget located as "Comida" also counts spending recorded as "comida".
func FilterByCategory(txs []core.Transaction, category string) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, t := range txs {
		if strings.EqualFold(t.Category, category) {
			out = append(out, t)
		}
	}
	return out
}

// inRange compares at day granularity: a transaction dated exactly on start
// or end counts.
func inRange(d, start, end time.Time) bool {
	d = DateOnly(d)
	return !d.Before(DateOnly(start)) && !d.After(DateOnly(end))
}
