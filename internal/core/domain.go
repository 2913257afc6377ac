package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionKind = "INCOME"
	Expense TransactionKind = "EXPENSE"
)

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

// DefaultCategory is the placeholder assigned to transactions that have not
// been categorized yet.
const DefaultCategory = "General"

type (
	TransactionKind string

	// Frequency is shared by recurring transaction templates and budget periods.
	Frequency string

	User struct {
		ID       string
		Name     string
		Phone    string
		Currency string // ISO 4217 code, e.g. "MXN"
	}

	Transaction struct {
		ID           string
		UserID       string
		Kind         TransactionKind
		Description  string
		Category     string // empty when uncategorized
		Amount       decimal.Decimal
		Date         time.Time
		RecurringRef string // ID of the recurring template that posted this, if any
		Source       string // origin tag, e.g. "card:<id>"
	}

	// RecurringTransaction is a template for a periodically repeating movement,
	// distinct from the individual transactions it posts.
	RecurringTransaction struct {
		ID          string
		UserID      string
		Kind        TransactionKind
		Description string
		Category    string
		Amount      decimal.Decimal
		Frequency   Frequency
		StartDate   time.Time
		EndDate     time.Time // zero when open-ended
	}

	Budget struct {
		ID        string
		UserID    string
		Category  string
		Limit     decimal.Decimal
		Period    Frequency
		StartDate time.Time
		EndDate   time.Time // zero means "until today" at evaluation time
	}

	Loan struct {
		ID             string
		UserID         string
		Description    string
		Principal      decimal.Decimal
		AnnualRatePct  decimal.Decimal // percentage, e.g. 12.5
		MonthlyPayment decimal.Decimal
		StartDate      time.Time
		PaymentDay     int // day of month, 1-31
	}

	CreditCard struct {
		ID            string
		UserID        string
		Name          string
		LastFour      string
		CutOffDay     int
		PaymentDueDay int
		CreditLimit   decimal.Decimal
		// CurrentBalance is a denormalized cache. Engines recompute the
		// balance from the payment/transaction ledger when one is available.
		CurrentBalance decimal.Decimal
	}

	CreditCardPayment struct {
		ID            string
		CardID        string
		TransactionID string // linked transaction, if any
		Date          time.Time
		Amount        decimal.Decimal
	}

	SavingGoal struct {
		ID            string
		UserID        string
		Name          string
		TargetAmount  decimal.Decimal
		CurrentAmount decimal.Decimal
		TargetDate    time.Time
	}

	Category struct {
		ID     string
		UserID string
		Name   string
		Parent string // single level; deeper chains are legal but not traversed
	}

	Alert struct {
		ID          string
		UserID      string
		Type        string
		Message     string
		Status      string
		ScheduledAt time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrEmptyDescription   = errors.New("empty description")
	ErrInvalidDayOfMonth  = errors.New("day of month must be between 1 and 31")
	ErrInvalidDateRange   = errors.New("end date must not precede start date")
	ErrInvalidRate        = errors.New("interest rate must not be negative")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidTargetDate  = errors.New("target date is required")
	ErrNegativeCurrent    = errors.New("current amount must not be negative")
	ErrInvalidCreditLimit = errors.New("credit limit must be positive")
)

func (k TransactionKind) Valid() bool {
	return k == Income || k == Expense
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return errors.New("transaction date is required")
	}
	return nil
}

func (rt RecurringTransaction) Validate() error {
	if !rt.Kind.Valid() {
		return ErrInvalidKind
	}
	if !rt.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if len(strings.TrimSpace(rt.Description)) == 0 {
		return ErrEmptyDescription
	}
	if !rt.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if rt.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	if !rt.EndDate.IsZero() && rt.EndDate.Before(rt.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if !b.Limit.IsPositive() {
		return errors.New("budget limit must be positive")
	}
	if !b.Period.Valid() {
		return ErrInvalidFrequency
	}
	if b.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	if !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

func (l Loan) Validate() error {
	if !l.Principal.IsPositive() {
		return errors.New("principal must be positive")
	}
	if l.AnnualRatePct.IsNegative() {
		return ErrInvalidRate
	}
	if !l.MonthlyPayment.IsPositive() {
		return errors.New("monthly payment must be positive")
	}
	if l.PaymentDay < 1 || l.PaymentDay > 31 {
		return ErrInvalidDayOfMonth
	}
	if len(strings.TrimSpace(l.Description)) == 0 {
		return ErrEmptyDescription
	}
	return nil
}

func (c CreditCard) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.LastFour) != 4 {
		return errors.New("last four digits must be exactly four characters")
	}
	if c.CutOffDay < 1 || c.CutOffDay > 31 {
		return ErrInvalidDayOfMonth
	}
	if c.PaymentDueDay < 1 || c.PaymentDueDay > 31 {
		return ErrInvalidDayOfMonth
	}
	if !c.CreditLimit.IsPositive() {
		return ErrInvalidCreditLimit
	}
	return nil
}

func (p CreditCardPayment) Validate() error {
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.Date.IsZero() {
		return errors.New("payment date is required")
	}
	return nil
}

// Validate accepts over-funded goals: CurrentAmount above TargetAmount is legal.
func (g SavingGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if !g.TargetAmount.IsPositive() {
		return errors.New("target amount must be positive")
	}
	if g.CurrentAmount.IsNegative() {
		return ErrNegativeCurrent
	}
	if g.TargetDate.IsZero() {
		return ErrInvalidTargetDate
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
