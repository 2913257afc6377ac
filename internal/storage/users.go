package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"plata/internal/core"
)

var ErrNotFound = errors.New("not found")

func (s *Store) CreateUser(ctx context.Context, u core.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, phone, currency) VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, u.Phone, u.Currency)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, phone, currency FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Phone, &u.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, phone, currency FROM users WHERE phone = ?`, phone).
		Scan(&u.ID, &u.Name, &u.Phone, &u.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by phone: %w", err)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, phone, currency FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]core.User, 0)
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Phone, &u.Currency); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, parent) VALUES (?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Parent)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, parent FROM categories WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]core.Category, 0)
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Parent); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
