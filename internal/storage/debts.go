package storage

import (
	"context"
	"fmt"

	"plata/internal/core"
)

func (s *Store) CreateLoan(ctx context.Context, l core.Loan) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO loans (id, user_id, description, principal, annual_rate_pct, monthly_payment, start_date, payment_day)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.Description, l.Principal.String(), l.AnnualRatePct.String(),
		l.MonthlyPayment.String(), encodeDate(l.StartDate), l.PaymentDay)
	if err != nil {
		return fmt.Errorf("create loan: %w", err)
	}
	return nil
}

func (s *Store) ListLoans(ctx context.Context, userID string) ([]core.Loan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, description, principal, annual_rate_pct, monthly_payment, start_date, payment_day
		 FROM loans WHERE user_id = ? ORDER BY start_date`, userID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	loans := make([]core.Loan, 0)
	for rows.Next() {
		var (
			l                              core.Loan
			principal, rate, payment, date string
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.Description, &principal, &rate,
			&payment, &date, &l.PaymentDay); err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		if l.Principal, err = decodeAmount(principal); err != nil {
			return nil, fmt.Errorf("decode loan principal: %w", err)
		}
		if l.AnnualRatePct, err = decodeAmount(rate); err != nil {
			return nil, fmt.Errorf("decode loan rate: %w", err)
		}
		if l.MonthlyPayment, err = decodeAmount(payment); err != nil {
			return nil, fmt.Errorf("decode loan payment: %w", err)
		}
		if l.StartDate, err = decodeDate(date); err != nil {
			return nil, fmt.Errorf("decode loan start date: %w", err)
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func (s *Store) CreateCard(ctx context.Context, c core.CreditCard) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credit_cards (id, user_id, name, last_four, cut_off_day, payment_due_day, credit_limit, current_balance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.LastFour, c.CutOffDay, c.PaymentDueDay,
		c.CreditLimit.String(), c.CurrentBalance.String())
	if err != nil {
		return fmt.Errorf("create credit card: %w", err)
	}
	return nil
}

func (s *Store) ListCards(ctx context.Context, userID string) ([]core.CreditCard, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, last_four, cut_off_day, payment_due_day, credit_limit, current_balance
		 FROM credit_cards WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list credit cards: %w", err)
	}
	defer rows.Close()

	cards := make([]core.CreditCard, 0)
	for rows.Next() {
		var (
			c               core.CreditCard
			limit, balance  string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.LastFour, &c.CutOffDay,
			&c.PaymentDueDay, &limit, &balance); err != nil {
			return nil, fmt.Errorf("scan credit card: %w", err)
		}
		if c.CreditLimit, err = decodeAmount(limit); err != nil {
			return nil, fmt.Errorf("decode card limit: %w", err)
		}
		if c.CurrentBalance, err = decodeAmount(balance); err != nil {
			return nil, fmt.Errorf("decode card balance: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// UpdateCardBalance refreshes the denormalized balance cache.
func (s *Store) UpdateCardBalance(ctx context.Context, id, balance string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE credit_cards SET current_balance = ? WHERE id = ?`, balance, id)
	if err != nil {
		return fmt.Errorf("update card balance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateCardPayment(ctx context.Context, p core.CreditCardPayment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credit_card_payments (id, card_id, transaction_id, paid_at, amount)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.CardID, p.TransactionID, encodeDate(p.Date), p.Amount.String())
	if err != nil {
		return fmt.Errorf("create card payment: %w", err)
	}
	return nil
}

func (s *Store) ListCardPayments(ctx context.Context, cardID string) ([]core.CreditCardPayment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, card_id, transaction_id, paid_at, amount
		 FROM credit_card_payments WHERE card_id = ? ORDER BY paid_at`, cardID)
	if err != nil {
		return nil, fmt.Errorf("list card payments: %w", err)
	}
	defer rows.Close()

	payments := make([]core.CreditCardPayment, 0)
	for rows.Next() {
		var (
			p            core.CreditCardPayment
			date, amount string
		)
		if err := rows.Scan(&p.ID, &p.CardID, &p.TransactionID, &date, &amount); err != nil {
			return nil, fmt.Errorf("scan card payment: %w", err)
		}
		if p.Date, err = decodeDate(date); err != nil {
			return nil, fmt.Errorf("decode payment date: %w", err)
		}
		if p.Amount, err = decodeAmount(amount); err != nil {
			return nil, fmt.Errorf("decode payment amount: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
