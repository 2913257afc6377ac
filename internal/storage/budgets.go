package storage

import (
	"context"
	"fmt"

	"plata/internal/core"
)

func (s *Store) CreateBudget(ctx context.Context, b core.Budget) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, category, budget_limit, period, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Category, b.Limit.String(), string(b.Period),
		encodeDate(b.StartDate), encodeDate(b.EndDate))
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (s *Store) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, category, budget_limit, period, start_date, end_date
		 FROM budgets WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]core.Budget, 0)
	for rows.Next() {
		var (
			b                        core.Budget
			limit, period, start, end string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &limit, &period, &start, &end); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Period = core.Frequency(period)
		if b.Limit, err = decodeAmount(limit); err != nil {
			return nil, fmt.Errorf("decode budget limit: %w", err)
		}
		if b.StartDate, err = decodeDate(start); err != nil {
			return nil, fmt.Errorf("decode budget start date: %w", err)
		}
		if b.EndDate, err = decodeDate(end); err != nil {
			return nil, fmt.Errorf("decode budget end date: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *Store) CreateGoal(ctx context.Context, g core.SavingGoal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saving_goals (id, user_id, name, target_amount, current_amount, target_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(),
		encodeDate(g.TargetDate))
	if err != nil {
		return fmt.Errorf("create saving goal: %w", err)
	}
	return nil
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]core.SavingGoal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_amount, current_amount, target_date
		 FROM saving_goals WHERE user_id = ? ORDER BY target_date`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saving goals: %w", err)
	}
	defer rows.Close()

	goals := make([]core.SavingGoal, 0)
	for rows.Next() {
		var (
			g                     core.SavingGoal
			target, current, date string
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &target, &current, &date); err != nil {
			return nil, fmt.Errorf("scan saving goal: %w", err)
		}
		if g.TargetAmount, err = decodeAmount(target); err != nil {
			return nil, fmt.Errorf("decode goal target: %w", err)
		}
		if g.CurrentAmount, err = decodeAmount(current); err != nil {
			return nil, fmt.Errorf("decode goal current: %w", err)
		}
		if g.TargetDate, err = decodeDate(date); err != nil {
			return nil, fmt.Errorf("decode goal target date: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpdateGoalAmount records progress toward a goal.
func (s *Store) UpdateGoalAmount(ctx context.Context, id, currentAmount string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE saving_goals SET current_amount = ? WHERE id = ?`, currentAmount, id)
	if err != nil {
		return fmt.Errorf("update goal amount: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
