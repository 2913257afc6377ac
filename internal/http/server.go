// Package http exposes the analysis engines over a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"plata/internal/cache"
	"plata/internal/core"
	"plata/internal/engine"
	"plata/internal/log"
	"plata/internal/rates"
)

// Store is the persistence surface the handlers need.
type Store interface {
	CreateUser(ctx context.Context, u core.User) error
	GetUser(ctx context.Context, id string) (core.User, error)
	GetUserByPhone(ctx context.Context, phone string) (core.User, error)

	CreateCategory(ctx context.Context, c core.Category) error
	ListCategories(ctx context.Context, userID string) ([]core.Category, error)

	CreateTransaction(ctx context.Context, t core.Transaction) error
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, id, category string) error

	CreateRecurring(ctx context.Context, rt core.RecurringTransaction) error
	ListRecurring(ctx context.Context, userID string) ([]core.RecurringTransaction, error)

	CreateBudget(ctx context.Context, b core.Budget) error
	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)

	CreateLoan(ctx context.Context, l core.Loan) error
	ListLoans(ctx context.Context, userID string) ([]core.Loan, error)

	CreateCard(ctx context.Context, c core.CreditCard) error
	ListCards(ctx context.Context, userID string) ([]core.CreditCard, error)
	UpdateCardBalance(ctx context.Context, id, balance string) error
	CreateCardPayment(ctx context.Context, p core.CreditCardPayment) error
	ListCardPayments(ctx context.Context, cardID string) ([]core.CreditCardPayment, error)

	CreateGoal(ctx context.Context, g core.SavingGoal) error
	ListGoals(ctx context.Context, userID string) ([]core.SavingGoal, error)
	UpdateGoalAmount(ctx context.Context, id, currentAmount string) error
}

// Converter converts amounts between currencies. Satisfied by rates.Client.
type Converter interface {
	Daily(ctx context.Context) (rates.Table, error)
}

type Server struct {
	http.Server
	store  Store
	rates  Converter
	logger *log.Logger

	// defaultCurrency is assigned to new users who do not state one.
	defaultCurrency string

	// forecastCache keeps recent projections; forecasts walk the full ledger.
	forecastCache *cache.LRUCache[engine.ForecastResult]

	started      time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, store Store, converter Converter, logger *log.Logger, defaultCurrency string) *Server {
	mux := http.NewServeMux()
	httpLogger := logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           log.Middleware(httpLogger)(mux),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		store:           store,
		rates:           converter,
		logger:          httpLogger,
		defaultCurrency: defaultCurrency,
		forecastCache:   cache.NewLRUCache[engine.ForecastResult](100, 5*time.Minute),
		started:         time.Now(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/users", s.withLogging(s.handleCreateUser))
	mux.HandleFunc("GET /api/users/lookup", s.withLogging(s.handleLookupUser))
	mux.HandleFunc("POST /api/categories", s.withLogging(s.handleCreateCategory))
	mux.HandleFunc("GET /api/categories", s.withLogging(s.handleListCategories))
	mux.HandleFunc("POST /api/transactions", s.withLogging(s.handleCreateTransaction))
	mux.HandleFunc("POST /api/recurring", s.withLogging(s.handleCreateRecurring))
	mux.HandleFunc("POST /api/budgets", s.withLogging(s.handleCreateBudget))
	mux.HandleFunc("POST /api/loans", s.withLogging(s.handleCreateLoan))
	mux.HandleFunc("POST /api/cards", s.withLogging(s.handleCreateCard))
	mux.HandleFunc("POST /api/cards/payments", s.withLogging(s.handleCreateCardPayment))
	mux.HandleFunc("POST /api/goals", s.withLogging(s.handleCreateGoal))

	mux.HandleFunc("GET /api/budgets/status", s.withLogging(s.handleBudgetStatus))
	mux.HandleFunc("POST /api/loans/simulate", s.withLogging(s.handleSimulatePayoff))
	mux.HandleFunc("GET /api/debts/rank", s.withLogging(s.handleRankDebts))
	mux.HandleFunc("GET /api/forecast", s.withLogging(s.handleForecast))
	mux.HandleFunc("POST /api/transactions/categorize", s.withLogging(s.handleCategorize))
	mux.HandleFunc("GET /api/goals/status", s.withLogging(s.handleGoalStatus))
	mux.HandleFunc("GET /api/goals/plan", s.withLogging(s.handleGoalPlan))
	mux.HandleFunc("POST /api/goals/contribute", s.withLogging(s.handleGoalContribute))

	mux.HandleFunc("GET /api/insights/prediction", s.withLogging(s.handleSpendPrediction))
	mux.HandleFunc("GET /api/insights/unusual", s.withLogging(s.handleUnusualExpenses))
	mux.HandleFunc("GET /api/recurring/upcoming", s.withLogging(s.handleUpcomingPayments))

	mux.HandleFunc("GET /api/reports/monthly", s.withLogging(s.handleMonthlyReport))
	mux.HandleFunc("GET /api/reports/networth", s.withLogging(s.handleNetWorth))
	mux.HandleFunc("GET /api/reports/compare", s.withLogging(s.handleCompare))
	mux.HandleFunc("GET /api/reports/subscriptions", s.withLogging(s.handleSubscriptions))

	mux.HandleFunc("GET /api/cards/due", s.withLogging(s.handleCardsDue))
	mux.HandleFunc("GET /api/cards/utilization", s.withLogging(s.handleCardUtilization))
	mux.HandleFunc("GET /api/cards/duplicates", s.withLogging(s.handleCardDuplicates))
	mux.HandleFunc("POST /api/cards/refresh", s.withLogging(s.handleCardRefresh))

	mux.HandleFunc("GET /api/rates/convert", s.withLogging(s.handleConvert))

	return s
}

// withLogging adds a request ID and request/response logging.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()

		ctx := r.Context()
		s.logger.InfoContext(ctx, "request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		s.logger.InfoContext(ctx, "request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rec.status,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.store.GetUser(ctx, "readiness-probe"); err != nil && !isNotFound(err) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"store":  fmt.Sprintf("failed: %v", err),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// Shutdown gracefully shuts down the server once.
// Caches exposes the server's caches for periodic expiry sweeps.
func (s *Server) Caches() []cache.Cleaner {
	return []cache.Cleaner{s.forecastCache}
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
