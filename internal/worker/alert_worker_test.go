package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"plata/internal/amqp"
	"plata/internal/core"
	"plata/internal/log"
)

type fakeStore struct {
	mu     sync.Mutex
	users  []core.User
	txs    map[string][]core.Transaction
	budget map[string][]core.Budget
	cards  map[string][]core.CreditCard
	goals  map[string][]core.SavingGoal
	alerts []core.Alert
}

func (f *fakeStore) ListUsers(context.Context) ([]core.User, error) { return f.users, nil }
func (f *fakeStore) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	return f.txs[userID], nil
}
func (f *fakeStore) ListBudgets(_ context.Context, userID string) ([]core.Budget, error) {
	return f.budget[userID], nil
}
func (f *fakeStore) ListCards(_ context.Context, userID string) ([]core.CreditCard, error) {
	return f.cards[userID], nil
}
func (f *fakeStore) ListGoals(_ context.Context, userID string) ([]core.SavingGoal, error) {
	return f.goals[userID], nil
}
func (f *fakeStore) CreateAlert(_ context.Context, a core.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, a)
	return nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []*amqp.AlertMessage
}

func (f *fakePublisher) PublishAlert(_ context.Context, msg *amqp.AlertMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return nil
}

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func TestAlertWorkerRun(t *testing.T) {
	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	store := &fakeStore{
		users: []core.User{{ID: "u1", Name: "Ana", Phone: "+5215550000001", Currency: "MXN"}},
		budget: map[string][]core.Budget{
			"u1": {{
				ID:        "b1",
				UserID:    "u1",
				Category:  "Comida",
				Limit:     decimal.NewFromInt(1000),
				Period:    core.Monthly,
				StartDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			}},
		},
		txs: map[string][]core.Transaction{
			"u1": {{
				ID:          "t1",
				UserID:      "u1",
				Kind:        core.Expense,
				Description: "super",
				Category:    "Comida",
				Amount:      decimal.NewFromInt(1200),
				Date:        time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
			}},
		},
		cards: map[string][]core.CreditCard{
			"u1": {{
				ID:            "c1",
				UserID:        "u1",
				Name:          "visa",
				LastFour:      "1234",
				CutOffDay:     1,
				PaymentDueDay: 12, // 2 days out
				CreditLimit:   decimal.NewFromInt(20000),
			}},
		},
		goals: map[string][]core.SavingGoal{
			"u1": {{
				ID:            "g1",
				UserID:        "u1",
				Name:          "laptop",
				TargetAmount:  decimal.NewFromInt(2000),
				CurrentAmount: decimal.NewFromInt(500),
				TargetDate:    time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
			}},
		},
	}
	pub := &fakePublisher{}

	w := NewAlertWorker(store, pub, 3, 2, testLogger())
	w.now = func() time.Time { return today }

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(store.alerts) != 3 {
		t.Fatalf("len(alerts) = %d, want 3 (budget, card, goal)", len(store.alerts))
	}
	if len(pub.messages) != 3 {
		t.Fatalf("len(published) = %d, want 3", len(pub.messages))
	}

	types := make(map[string]int)
	for _, a := range store.alerts {
		types[a.Type]++
		if a.UserID != "u1" {
			t.Errorf("alert user = %s, want u1", a.UserID)
		}
		if a.ID == "" {
			t.Error("alert must carry a generated ID")
		}
	}
	for _, want := range []string{amqp.AlertBudgetExceeded, amqp.AlertCardDueSoon, amqp.AlertGoalOverdue} {
		if types[want] != 1 {
			t.Errorf("alerts of type %s = %d, want 1", want, types[want])
		}
	}
}

func TestAlertWorkerQuietWhenHealthy(t *testing.T) {
	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	store := &fakeStore{
		users: []core.User{{ID: "u1", Name: "Ana"}},
		budget: map[string][]core.Budget{
			"u1": {{
				ID:        "b1",
				UserID:    "u1",
				Category:  "Comida",
				Limit:     decimal.NewFromInt(1000),
				Period:    core.Monthly,
				StartDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			}},
		},
		txs: map[string][]core.Transaction{
			"u1": {{
				ID:          "t1",
				UserID:      "u1",
				Kind:        core.Expense,
				Description: "super",
				Category:    "Comida",
				Amount:      decimal.NewFromInt(100),
				Date:        time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
			}},
		},
		cards: map[string][]core.CreditCard{
			"u1": {{
				ID:            "c1",
				UserID:        "u1",
				Name:          "visa",
				LastFour:      "1234",
				CutOffDay:     1,
				PaymentDueDay: 25, // well outside the 3-day window
				CreditLimit:   decimal.NewFromInt(20000),
			}},
		},
	}
	pub := &fakePublisher{}

	w := NewAlertWorker(store, pub, 3, 2, testLogger())
	w.now = func() time.Time { return today }

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(store.alerts) != 0 {
		t.Errorf("len(alerts) = %d, want 0", len(store.alerts))
	}
}
