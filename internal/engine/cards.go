package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"plata/internal/core"
)

type (
	// DueCard is a credit card whose payment deadline falls within a lookahead
	// window.
	DueCard struct {
		Card         core.CreditCard
		NextDueDate  time.Time
		DaysUntilDue int
		Overdue      bool
	}

	// DuplicateGroup collects cards sharing the same last-four digits,
	// usually the same card registered more than once.
	DuplicateGroup struct {
		LastFour string
		Cards    []core.CreditCard
	}
)

// CardSource tags transactions charged to a card, matching Transaction.Source.
func CardSource(cardID string) string {
	return "card:" + cardID
}

// CardBalance recomputes a card's balance from its ledger: expense
// transactions sourced to the card minus payments made against it. When the
// ledger is empty the denormalized CurrentBalance is used as a fallback, since
// an absent ledger is indistinguishable from one that was never loaded.
func CardBalance(card core.CreditCard, payments []core.CreditCardPayment, txs []core.Transaction) decimal.Decimal {
	source := CardSource(card.ID)
	sawLedger := false

	balance := decimal.Zero
	for _, t := range txs {
		if t.Kind == core.Expense && t.Source == source {
			balance = balance.Add(t.Amount)
			sawLedger = true
		}
	}
	for _, p := range payments {
		if p.CardID == card.ID {
			balance = balance.Sub(p.Amount)
			sawLedger = true
		}
	}

	if !sawLedger {
		return card.CurrentBalance
	}
	return balance
}

// Utilization is balance over credit limit as a percentage.
func Utilization(card core.CreditCard, balance decimal.Decimal) decimal.Decimal {
	return core.Percent(balance, card.CreditLimit)
}

// UpcomingDueDates lists cards whose next payment date falls within daysAhead
// days of today, most urgent first.
func UpcomingDueDates(cards []core.CreditCard, today time.Time, daysAhead int) []DueCard {
	if daysAhead <= 0 {
		daysAhead = 30
	}
	horizon := DateOnly(today).AddDate(0, 0, daysAhead)

	out := make([]DueCard, 0)
	for _, c := range cards {
		due := NextDueDate(c.PaymentDueDay, today)
		if due.After(horizon) {
			continue
		}
		days := DaysBetween(today, due)
		out = append(out, DueCard{
			Card:         c,
			NextDueDate:  due,
			DaysUntilDue: days,
			Overdue:      days < 0,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysUntilDue < out[j].DaysUntilDue
	})
	return out
}

// DuplicateCards groups cards registered with the same last-four digits,
// returning only groups with more than one card.
func DuplicateCards(cards []core.CreditCard) []DuplicateGroup {
	byDigits := make(map[string][]core.CreditCard)
	order := make([]string, 0)
	for _, c := range cards {
		if c.LastFour == "" {
			continue
		}
		if _, seen := byDigits[c.LastFour]; !seen {
			order = append(order, c.LastFour)
		}
		byDigits[c.LastFour] = append(byDigits[c.LastFour], c)
	}

	out := make([]DuplicateGroup, 0)
	for _, digits := range order {
		if group := byDigits[digits]; len(group) > 1 {
			out = append(out, DuplicateGroup{LastFour: digits, Cards: group})
		}
	}
	return out
}
