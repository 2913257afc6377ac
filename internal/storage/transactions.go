package storage

import (
	"context"
	"fmt"

	"plata/internal/core"
)

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, kind, description, category, amount, tx_date, recurring_ref, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, string(t.Kind), t.Description, t.Category,
		t.Amount.String(), encodeDate(t.Date), t.RecurringRef, t.Source)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, kind, description, category, amount, tx_date, recurring_ref, source
		 FROM transactions WHERE user_id = ? ORDER BY tx_date, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]core.Transaction, 0)
	for rows.Next() {
		var (
			t            core.Transaction
			kind         string
			amount, date string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &kind, &t.Description, &t.Category,
			&amount, &date, &t.RecurringRef, &t.Source); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.TransactionKind(kind)
		if t.Amount, err = decodeAmount(amount); err != nil {
			return nil, fmt.Errorf("decode transaction amount: %w", err)
		}
		if t.Date, err = decodeDate(date); err != nil {
			return nil, fmt.Errorf("decode transaction date: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// UpdateTransactionCategory applies a categorization proposal.
func (s *Store) UpdateTransactionCategory(ctx context.Context, id, category string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET category = ? WHERE id = ?`, category, id)
	if err != nil {
		return fmt.Errorf("update transaction category: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateRecurring(ctx context.Context, rt core.RecurringTransaction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recurring_transactions (id, user_id, kind, description, category, amount, frequency, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.ID, rt.UserID, string(rt.Kind), rt.Description, rt.Category,
		rt.Amount.String(), string(rt.Frequency), encodeDate(rt.StartDate), encodeDate(rt.EndDate))
	if err != nil {
		return fmt.Errorf("create recurring transaction: %w", err)
	}
	return nil
}

func (s *Store) ListRecurring(ctx context.Context, userID string) ([]core.RecurringTransaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, kind, description, category, amount, frequency, start_date, end_date
		 FROM recurring_transactions WHERE user_id = ? ORDER BY start_date`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recurring transactions: %w", err)
	}
	defer rows.Close()

	templates := make([]core.RecurringTransaction, 0)
	for rows.Next() {
		var (
			rt                      core.RecurringTransaction
			kind, freq              string
			amount, startStr, endDt string
		)
		if err := rows.Scan(&rt.ID, &rt.UserID, &kind, &rt.Description, &rt.Category,
			&amount, &freq, &startStr, &endDt); err != nil {
			return nil, fmt.Errorf("scan recurring transaction: %w", err)
		}
		rt.Kind = core.TransactionKind(kind)
		rt.Frequency = core.Frequency(freq)
		if rt.Amount, err = decodeAmount(amount); err != nil {
			return nil, fmt.Errorf("decode recurring amount: %w", err)
		}
		if rt.StartDate, err = decodeDate(startStr); err != nil {
			return nil, fmt.Errorf("decode recurring start date: %w", err)
		}
		if rt.EndDate, err = decodeDate(endDt); err != nil {
			return nil, fmt.Errorf("decode recurring end date: %w", err)
		}
		templates = append(templates, rt)
	}
	return templates, rows.Err()
}
