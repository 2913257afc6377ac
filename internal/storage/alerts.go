package storage

import (
	"context"
	"fmt"
	"time"

	"plata/internal/core"
)

const (
	AlertPending = "PENDING"
	AlertSent    = "SENT"
	AlertFailed  = "FAILED"
)

func (s *Store) CreateAlert(ctx context.Context, a core.Alert) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (id, user_id, alert_type, message, status, scheduled_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Type, a.Message, a.Status, a.ScheduledAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

func (s *Store) ListPendingAlerts(ctx context.Context) ([]core.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, alert_type, message, status, scheduled_at
		 FROM alerts WHERE status = ? ORDER BY scheduled_at`, AlertPending)
	if err != nil {
		return nil, fmt.Errorf("list pending alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]core.Alert, 0)
	for rows.Next() {
		var (
			a         core.Alert
			scheduled string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Message, &a.Status, &scheduled); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		if a.ScheduledAt, err = time.Parse(time.RFC3339, scheduled); err != nil {
			return nil, fmt.Errorf("decode alert schedule: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *Store) MarkAlertStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("mark alert status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
