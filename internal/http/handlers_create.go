package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"plata/internal/core"
	"plata/internal/engine"
	"plata/internal/log"
)

type createUserRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Currency string `json:"currency"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "name and phone are required")
		return
	}
	if req.Currency == "" {
		req.Currency = s.defaultCurrency
	}

	u := core.User{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Phone:    req.Phone,
		Currency: req.Currency,
	}
	if err := s.store.CreateUser(r.Context(), u); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": u.ID})
}

type createTransactionRequest struct {
	UserID      string          `json:"user_id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Source      string          `json:"source"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	// Missing or unparseable dates fall back to today rather than failing.
	date, parsed := engine.ResolveDate(req.Date, engine.DateOnly(time.Now()))
	if !parsed && req.Date != "" {
		s.logger.WarnContext(r.Context(), "unparseable transaction date, using today", "input", req.Date)
	}

	t := core.Transaction{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Kind:        core.TransactionKind(req.Kind),
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        date,
		Source:      req.Source,
	}
	if err := t.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.store.CreateTransaction(r.Context(), t); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "transaction created",
		log.FieldOperation, log.OpCreate,
		log.FieldUserID, t.UserID,
		log.FieldCategory, t.Category,
		log.FieldAmount, t.Amount.String())
	writeJSON(w, http.StatusCreated, map[string]string{"id": t.ID, "date": t.Date.Format("2006-01-02")})
}

type createRecurringRequest struct {
	UserID      string          `json:"user_id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   string          `json:"frequency"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req createRecurringRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start, _ := engine.ResolveDate(req.StartDate, engine.DateOnly(time.Now()))
	end, _ := engine.ResolveDate(req.EndDate, time.Time{}) // zero when absent: open-ended

	rt := core.RecurringTransaction{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Kind:        core.TransactionKind(req.Kind),
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		Frequency:   core.Frequency(req.Frequency),
		StartDate:   start,
		EndDate:     end,
	}
	if err := rt.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.store.CreateRecurring(r.Context(), rt); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": rt.ID})
}

type createBudgetRequest struct {
	UserID    string          `json:"user_id"`
	Category  string          `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
	Period    string          `json:"period"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Period == "" {
		req.Period = string(core.Monthly)
	}

	start, ok := engine.ResolveDate(req.StartDate, time.Time{})
	if !ok {
		// Default window is the current period.
		start, _ = engine.PeriodWindow(core.Frequency(req.Period), time.Now())
	}
	end, _ := engine.ResolveDate(req.EndDate, time.Time{})

	b := core.Budget{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Category:  req.Category,
		Limit:     req.Limit,
		Period:    core.Frequency(req.Period),
		StartDate: start,
		EndDate:   end,
	}
	if err := b.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.store.CreateBudget(r.Context(), b); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": b.ID})
}

type createLoanRequest struct {
	UserID         string          `json:"user_id"`
	Description    string          `json:"description"`
	Principal      decimal.Decimal `json:"principal"`
	AnnualRatePct  decimal.Decimal `json:"annual_rate_pct"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	StartDate      string          `json:"start_date"`
	PaymentDay     int             `json:"payment_day"`
}

func (s *Server) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start, _ := engine.ResolveDate(req.StartDate, engine.DateOnly(time.Now()))

	l := core.Loan{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		Description:    req.Description,
		Principal:      req.Principal,
		AnnualRatePct:  req.AnnualRatePct,
		MonthlyPayment: req.MonthlyPayment,
		StartDate:      start,
		PaymentDay:     req.PaymentDay,
	}
	if err := l.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.store.CreateLoan(r.Context(), l); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": l.ID})
}

type createCardRequest struct {
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	LastFour       string          `json:"last_four"`
	CutOffDay      int             `json:"cut_off_day"`
	PaymentDueDay  int             `json:"payment_due_day"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	c := core.CreditCard{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		Name:           req.Name,
		LastFour:       req.LastFour,
		CutOffDay:      req.CutOffDay,
		PaymentDueDay:  req.PaymentDueDay,
		CreditLimit:    req.CreditLimit,
		CurrentBalance: req.CurrentBalance,
	}
	if err := c.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.store.CreateCard(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": c.ID})
}

type createCardPaymentRequest struct {
	CardID string          `json:"card_id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

func (s *Server) handleCreateCardPayment(w http.ResponseWriter, r *http.Request) {
	var req createCardPaymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.CardID == "" {
		writeError(w, http.StatusBadRequest, "card_id is required")
		return
	}

	date, _ := engine.ResolveDate(req.Date, engine.DateOnly(time.Now()))

	p := core.CreditCardPayment{
		ID:     uuid.NewString(),
		CardID: req.CardID,
		Date:   date,
		Amount: req.Amount,
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.store.CreateCardPayment(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": p.ID})
}

type createGoalRequest struct {
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    string          `json:"target_date"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	targetDate, ok := engine.ResolveDate(req.TargetDate, time.Time{})
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "target_date is required")
		return
	}

	g := core.SavingGoal{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    targetDate,
	}
	if err := g.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.store.CreateGoal(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": g.ID})
}
