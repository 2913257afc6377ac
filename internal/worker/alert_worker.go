// Package worker evaluates every user's finances on a schedule and emits
// alerts for budgets in trouble, card payments coming due, and goals past
// their target date.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"plata/internal/amqp"
	"plata/internal/core"
	"plata/internal/engine"
	"plata/internal/log"
	"plata/internal/storage"
)

// Store is the slice of persistence the worker needs.
type Store interface {
	ListUsers(ctx context.Context) ([]core.User, error)
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
	ListCards(ctx context.Context, userID string) ([]core.CreditCard, error)
	ListGoals(ctx context.Context, userID string) ([]core.SavingGoal, error)
	CreateAlert(ctx context.Context, a core.Alert) error
}

// Publisher sends alert notifications to the message broker.
type Publisher interface {
	PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error
}

type AlertWorker struct {
	store       Store
	publisher   Publisher
	daysAhead   int
	concurrency int
	logger      *log.Logger
	now         func() time.Time
}

func NewAlertWorker(store Store, publisher Publisher, daysAhead, concurrency int, logger *log.Logger) *AlertWorker {
	if daysAhead < 1 {
		daysAhead = 3
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &AlertWorker{
		store:       store,
		publisher:   publisher,
		daysAhead:   daysAhead,
		concurrency: concurrency,
		logger:      logger.WithComponent(log.ComponentWorker),
		now:         time.Now,
	}
}

// Run evaluates all users once, fanning out across a bounded worker group.
// Per-user failures are logged and do not stop the sweep.
func (w *AlertWorker) Run(ctx context.Context) error {
	users, err := w.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for _, u := range users {
		user := u
		g.Go(func() error {
			if err := w.evaluateUser(gctx, user); err != nil {
				fields := log.NewFields().
					WithUser(user.ID).
					WithOperation(log.OpEvaluate).
					WithError(err)
				w.logger.ErrorContext(gctx, "user evaluation failed", fields.ToSlice()...)
			}
			return nil
		})
	}
	return g.Wait()
}

func (w *AlertWorker) evaluateUser(ctx context.Context, user core.User) error {
	today := w.now()

	if err := w.checkBudgets(ctx, user, today); err != nil {
		return err
	}
	if err := w.checkCards(ctx, user, today); err != nil {
		return err
	}
	return w.checkGoals(ctx, user, today)
}

func (w *AlertWorker) checkBudgets(ctx context.Context, user core.User, today time.Time) error {
	budgets, err := w.store.ListBudgets(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list budgets: %w", err)
	}
	if len(budgets) == 0 {
		return nil
	}

	txs, err := w.store.ListTransactions(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	for _, status := range engine.EvaluateBudgets(budgets, txs, today) {
		switch status.State {
		case engine.BudgetExceeded:
			msg := fmt.Sprintf("Budget %q exceeded: spent %s of %s",
				status.Category, core.FormatAmount(status.Spent), core.FormatAmount(status.Limit))
			if err := w.emit(ctx, user.ID, amqp.AlertBudgetExceeded, msg, today); err != nil {
				return err
			}
		case engine.BudgetWarning:
			msg := fmt.Sprintf("Budget %q at %s%%: spent %s of %s",
				status.Category, status.UsedPercent, core.FormatAmount(status.Spent), core.FormatAmount(status.Limit))
			if err := w.emit(ctx, user.ID, amqp.AlertBudgetWarning, msg, today); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *AlertWorker) checkCards(ctx context.Context, user core.User, today time.Time) error {
	cards, err := w.store.ListCards(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list cards: %w", err)
	}

	for _, due := range engine.UpcomingDueDates(cards, today, w.daysAhead) {
		msg := fmt.Sprintf("Card %q payment due %s (%d days)",
			due.Card.Name, due.NextDueDate.Format("2006-01-02"), due.DaysUntilDue)
		if err := w.emit(ctx, user.ID, amqp.AlertCardDueSoon, msg, today); err != nil {
			return err
		}
	}
	return nil
}

func (w *AlertWorker) checkGoals(ctx context.Context, user core.User, today time.Time) error {
	goals, err := w.store.ListGoals(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list goals: %w", err)
	}

	for _, g := range goals {
		status := engine.TrackGoal(g, today)
		if status.State != engine.GoalOverdue {
			continue
		}
		msg := fmt.Sprintf("Goal %q is past its target date at %s%% complete",
			status.Name, status.PercentComplete)
		if err := w.emit(ctx, user.ID, amqp.AlertGoalOverdue, msg, today); err != nil {
			return err
		}
	}
	return nil
}

func (w *AlertWorker) emit(ctx context.Context, userID, alertType, message string, today time.Time) error {
	alert := core.Alert{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        alertType,
		Message:     message,
		Status:      storage.AlertPending,
		ScheduledAt: today,
	}

	if err := w.store.CreateAlert(ctx, alert); err != nil {
		return fmt.Errorf("persist alert: %w", err)
	}

	if w.publisher != nil {
		if err := w.publisher.PublishAlert(ctx, amqp.NewAlertMessage(alert.ID, userID, alertType, message)); err != nil {
			return fmt.Errorf("publish alert: %w", err)
		}
	}

	fields := log.NewFields().WithUser(userID).WithOperation(log.OpPublish)
	w.logger.InfoContext(ctx, "alert emitted",
		append(fields.ToSlice(), log.FieldAlertType, alertType)...)
	return nil
}
