package engine

import (
	"strings"

	"github.com/shopspring/decimal"

	"plata/internal/core"
)

type (
	// Rule maps a lowercase keyword to a category. Rules form an ordered
	// table evaluated first-match-wins, so precedence is explicit: a
	// description matching two keywords resolves to the earlier rule.
	Rule struct {
		Keyword  string
		Category string
	}

	Assignment struct {
		TransactionID string
		Category      string
	}

	// CategorizeResult separates proposed assignments from transactions no
	// rule matched. Unmatched transactions are reported, never silently
	// defaulted.
	CategorizeResult struct {
		Assigned  []Assignment
		Unmatched []string
	}

	// KeywordMatch is a merge proposal: the expense transactions whose
	// descriptions contain any of the requested keywords, with their total.
	KeywordMatch struct {
		Transactions []core.Transaction
		Total        decimal.Decimal
	}
)

// DefaultRules is the stock keyword table, evaluated top to bottom.
var DefaultRules = []Rule{
	{"uber", "Transporte"},
	{"didi", "Transporte"},
	{"taxi", "Transporte"},
	{"gasolina", "Transporte"},
	{"estacionamiento", "Transporte"},
	{"netflix", "Entretenimiento"},
	{"spotify", "Entretenimiento"},
	{"youtube", "Entretenimiento"},
	{"amazon", "Compras"},
	{"walmart", "Compras"},
	{"soriana", "Compras"},
	{"restaurante", "Comida"},
	{"cafe", "Comida"},
	{"starbucks", "Comida"},
	{"mcdonalds", "Comida"},
	{"banco", "Servicios"},
	{"electricidad", "Servicios"},
	{"agua", "Servicios"},
	{"internet", "Servicios"},
	{"telefono", "Servicios"},
	{"farmacia", "Salud"},
	{"medico", "Salud"},
	{"hospital", "Salud"},
}

// AutoCategorize proposes categories for expense transactions whose category
// is empty or the default placeholder, testing each rule's keyword as a
// substring of the lowercased description. Already-categorized transactions
// are untouched, which makes the operation idempotent. The engine only
// proposes; applying the assignments is the caller's write.
func AutoCategorize(txs []core.Transaction, rules []Rule) CategorizeResult {
	res := CategorizeResult{
		Assigned:  make([]Assignment, 0),
		Unmatched: make([]string, 0),
	}

	for _, t := range txs {
		if t.Kind != core.Expense {
			continue
		}
		if t.Category != "" && t.Category != core.DefaultCategory {
			continue
		}

		desc := strings.ToLower(t.Description)
		matched := false
		for _, r := range rules {
			if strings.Contains(desc, r.Keyword) {
				res.Assigned = append(res.Assigned, Assignment{
					TransactionID: t.ID,
					Category:      r.Category,
				})
				matched = true
				break
			}
		}
		if !matched {
			res.Unmatched = append(res.Unmatched, t.ID)
		}
	}
	return res
}

// MatchByKeywords finds the expense transactions whose descriptions contain
// any of the given keywords, for bulk regrouping under a single category.
func MatchByKeywords(txs []core.Transaction, keywords []string) KeywordMatch {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			lowered = append(lowered, k)
		}
	}

	match := KeywordMatch{Total: decimal.Zero}
	for _, t := range txs {
		if t.Kind != core.Expense {
			continue
		}
		desc := strings.ToLower(t.Description)
		for _, k := range lowered {
			if strings.Contains(desc, k) {
				match.Transactions = append(match.Transactions, t)
				match.Total = match.Total.Add(t.Amount)
				break
			}
		}
	}
	return match
}
