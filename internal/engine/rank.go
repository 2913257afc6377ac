package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"plata/internal/core"
)

const (
	// Snowball orders debts by ascending balance: smallest debt first.
	Snowball Strategy = "SNOWBALL"
	// Avalanche orders debts by descending interest rate.
	Avalanche Strategy = "AVALANCHE"
	// Urgency scores debts by due-date proximity and balance size.
	Urgency Strategy = "URGENCY"
)

type (
	Strategy string

	// Debt is the strategy-agnostic view of anything owed: a loan principal
	// or a credit-card balance.
	Debt struct {
		ID            string
		Name          string
		Balance       decimal.Decimal
		AnnualRatePct decimal.Decimal
		DueDay        int // day of month; 0 when the debt has no fixed due day
	}

	ScoredDebt struct {
		Debt
		Score        int
		NextDueDate  time.Time
		DaysUntilDue int
		Overdue      bool
		Reasons      []string
	}

	// Scoring holds the urgency heuristic's constants. The exact values are
	// part of the observable behavior contract. The heuristic is intentionally
	// coarse: it orders payments by rough urgency, it is not an optimality
	// guarantee.
	Scoring struct {
		OverdueBonus       int
		DueSoonBase        int
		DueSoonWindowDays  int
		LargeBalanceBonus  int
		MediumBalanceBonus int
		LargeBalance       decimal.Decimal
		MediumBalance      decimal.Decimal
	}
)

var DefaultScoring = Scoring{
	OverdueBonus:       1000,
	DueSoonBase:        500,
	DueSoonWindowDays:  7,
	LargeBalanceBonus:  200,
	MediumBalanceBonus: 100,
	LargeBalance:       decimal.NewFromInt(10000),
	MediumBalance:      decimal.NewFromInt(5000),
}

// ParseStrategy maps free-text strategy names to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "SNOWBALL":
		return Snowball, nil
	case "AVALANCHE":
		return Avalanche, nil
	case "URGENCY":
		return Urgency, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// RankDebts orders debts highest priority first under the chosen strategy,
// breaking ties by input order.
func RankDebts(debts []Debt, strategy Strategy, today time.Time) ([]ScoredDebt, error) {
	scored := scoreAll(debts, DefaultScoring, today)

	switch strategy {
	case Snowball:
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Balance.LessThan(scored[j].Balance)
		})
	case Avalanche:
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].AnnualRatePct.GreaterThan(scored[j].AnnualRatePct)
		})
	case Urgency:
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	return scored, nil
}

func scoreAll(debts []Debt, cfg Scoring, today time.Time) []ScoredDebt {
	out := make([]ScoredDebt, 0, len(debts))
	for _, d := range debts {
		out = append(out, scoreDebt(d, cfg, today))
	}
	return out
}

func scoreDebt(d Debt, cfg Scoring, today time.Time) ScoredDebt {
	sd := ScoredDebt{Debt: d}

	if d.DueDay >= 1 && d.DueDay <= 31 {
		sd.NextDueDate = NextDueDate(d.DueDay, today)
		sd.DaysUntilDue = DaysBetween(today, sd.NextDueDate)
		sd.Overdue = sd.DaysUntilDue < 0

		if sd.Overdue {
			sd.Score += cfg.OverdueBonus
			sd.Reasons = append(sd.Reasons, "overdue")
		}
		if sd.DaysUntilDue >= 0 && sd.DaysUntilDue <= cfg.DueSoonWindowDays {
			sd.Score += cfg.DueSoonBase - sd.DaysUntilDue
			sd.Reasons = append(sd.Reasons, "due soon")
		}
	}

	switch {
	case d.Balance.GreaterThan(cfg.LargeBalance):
		sd.Score += cfg.LargeBalanceBonus
		sd.Reasons = append(sd.Reasons, "large balance")
	case d.Balance.GreaterThan(cfg.MediumBalance):
		sd.Score += cfg.MediumBalanceBonus
		sd.Reasons = append(sd.Reasons, "medium balance")
	}

	return sd
}

// LoanDebts adapts loans to the Debt view.
func LoanDebts(loans []core.Loan) []Debt {
	out := make([]Debt, 0, len(loans))
	for _, l := range loans {
		out = append(out, Debt{
			ID:            l.ID,
			Name:          l.Description,
			Balance:       l.Principal,
			AnnualRatePct: l.AnnualRatePct,
			DueDay:        l.PaymentDay,
		})
	}
	return out
}

// CardDebts adapts credit cards to the Debt view using their denormalized
// balance. Callers with ledger data should substitute CardBalance results.
func CardDebts(cards []core.CreditCard) []Debt {
	out := make([]Debt, 0, len(cards))
	for _, c := range cards {
		out = append(out, Debt{
			ID:            c.ID,
			Name:          c.Name,
			Balance:       c.CurrentBalance,
			AnnualRatePct: DefaultCardAPRPercent,
			DueDay:        c.PaymentDueDay,
		})
	}
	return out
}
