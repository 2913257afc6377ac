package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"plata/internal/core"
	"plata/internal/engine"
	"plata/internal/log"
)

type budgetStatusResponse struct {
	Category    string          `json:"category"`
	Limit       decimal.Decimal `json:"limit"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	UsedPercent decimal.Decimal `json:"used_percent"`
	State       string          `json:"state"`
	WindowStart string          `json:"window_start"`
	WindowEnd   string          `json:"window_end"`
}

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	ctx := r.Context()

	budgets, err := s.store.ListBudgets(ctx, uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	txs, err := s.store.ListTransactions(ctx, uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	today := time.Now()
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		b, err := engine.FindBudget(budgets, category)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, budgetStatusDTO(engine.EvaluateBudget(b, txs, today)))
		return
	}

	statuses := engine.EvaluateBudgets(budgets, txs, today)
	out := make([]budgetStatusResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, budgetStatusDTO(st))
	}
	writeJSON(w, http.StatusOK, out)
}

func budgetStatusDTO(st engine.BudgetStatus) budgetStatusResponse {
	return budgetStatusResponse{
		Category:    st.Category,
		Limit:       st.Limit,
		Spent:       st.Spent,
		Remaining:   st.Remaining,
		UsedPercent: st.UsedPercent,
		State:       string(st.State),
		WindowStart: st.WindowStart.Format("2006-01-02"),
		WindowEnd:   st.WindowEnd.Format("2006-01-02"),
	}
}

type simulateRequest struct {
	Balance        decimal.Decimal `json:"balance"`
	AnnualRatePct  decimal.Decimal `json:"annual_rate_pct"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	MaxMonths      int             `json:"max_months"`
}

type scheduleEntryResponse struct {
	Month     int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Remaining decimal.Decimal `json:"remaining"`
}

type scheduleResponse struct {
	Months        int                     `json:"months"`
	TotalInterest decimal.Decimal         `json:"total_interest"`
	TotalPaid     decimal.Decimal         `json:"total_paid"`
	Converged     bool                    `json:"converged"`
	Entries       []scheduleEntryResponse `json:"entries"`
}

func (s *Server) handleSimulatePayoff(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	sched, err := engine.SimulatePayoff(req.Balance, req.AnnualRatePct, req.MonthlyPayment, req.MaxMonths)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := scheduleResponse{
		Months:        sched.Months,
		TotalInterest: sched.TotalInterest.Round(core.DisplayScale),
		TotalPaid:     sched.TotalPaid.Round(core.DisplayScale),
		Converged:     sched.Converged,
		Entries:       make([]scheduleEntryResponse, 0, len(sched.Entries)),
	}
	for _, e := range sched.Entries {
		resp.Entries = append(resp.Entries, scheduleEntryResponse{
			Month:     e.Month,
			Payment:   e.Payment.Round(core.DisplayScale),
			Interest:  e.Interest.Round(core.DisplayScale),
			Principal: e.Principal.Round(core.DisplayScale),
			Remaining: e.Remaining.Round(core.DisplayScale),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type rankedDebtResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Balance      decimal.Decimal `json:"balance"`
	AnnualRate   decimal.Decimal `json:"annual_rate_pct"`
	Score        int             `json:"score"`
	NextDueDate  string          `json:"next_due_date,omitempty"`
	DaysUntilDue int             `json:"days_until_due"`
	Reasons      []string        `json:"reasons,omitempty"`
}

func (s *Server) handleRankDebts(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	ctx := r.Context()

	strategy, err := engine.ParseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	loans, err := s.store.ListLoans(ctx, uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	cards, err := s.store.ListCards(ctx, uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	debts := append(engine.LoanDebts(loans), engine.CardDebts(cards)...)
	ranked, err := engine.RankDebts(debts, strategy, time.Now())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	out := make([]rankedDebtResponse, 0, len(ranked))
	for _, d := range ranked {
		resp := rankedDebtResponse{
			ID:           d.ID,
			Name:         d.Name,
			Balance:      d.Balance,
			AnnualRate:   d.AnnualRatePct,
			Score:        d.Score,
			DaysUntilDue: d.DaysUntilDue,
			Reasons:      d.Reasons,
		}
		if !d.NextDueDate.IsZero() {
			resp.NextDueDate = d.NextDueDate.Format("2006-01-02")
		}
		out = append(out, resp)
	}

	s.logger.InfoContext(ctx, "ranked debts",
		log.FieldUserID, uid, log.FieldStrategy, string(strategy))
	writeJSON(w, http.StatusOK, out)
}

type forecastResponse struct {
	Baseline         decimal.Decimal         `json:"baseline"`
	RecurringIncome  decimal.Decimal         `json:"recurring_income"`
	RecurringExpense decimal.Decimal         `json:"recurring_expense"`
	LoanObligation   decimal.Decimal         `json:"loan_obligation"`
	NetMonthly       decimal.Decimal         `json:"net_monthly"`
	Points           []forecastPointResponse `json:"points"`
}

type forecastPointResponse struct {
	Label   string          `json:"label"`
	Balance decimal.Decimal `json:"balance"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	ctx := r.Context()
	months := queryInt(r, "months", engine.DefaultForecastMonths)
	normalized := r.URL.Query().Get("normalized") == "true"

	cacheKey := uid + "|" + r.URL.RawQuery
	result, cached := s.forecastCache.Get(cacheKey)
	if !cached {
		txs, err := s.store.ListTransactions(ctx, uid)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		loans, err := s.store.ListLoans(ctx, uid)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if normalized {
			recurring, err := s.store.ListRecurring(ctx, uid)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			result = engine.ForecastNormalized(txs, recurring, loans, months, time.Now())
		} else {
			result = engine.Forecast(txs, loans, months, time.Now())
		}
		s.forecastCache.Set(cacheKey, result)
		s.logger.InfoContext(ctx, "computed forecast",
			log.FieldUserID, uid, log.FieldMonths, months, "normalized", normalized)
	}

	resp := forecastResponse{
		Baseline:         result.Baseline.Round(core.DisplayScale),
		RecurringIncome:  result.RecurringIncome.Round(core.DisplayScale),
		RecurringExpense: result.RecurringExpense.Round(core.DisplayScale),
		LoanObligation:   result.LoanObligation.Round(core.DisplayScale),
		NetMonthly:       result.NetMonthly.Round(core.DisplayScale),
		Points:           make([]forecastPointResponse, 0, len(result.Points)),
	}
	for _, p := range result.Points {
		resp.Points = append(resp.Points, forecastPointResponse{
			Label:   p.Label,
			Balance: p.Balance.Round(core.DisplayScale),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type categorizeResponse struct {
	Assigned  []assignmentResponse `json:"assigned"`
	Unmatched []string             `json:"unmatched"`
	Applied   bool                 `json:"applied"`
}

type assignmentResponse struct {
	TransactionID string `json:"transaction_id"`
	Category      string `json:"category"`
}

// handleCategorize proposes categories for uncategorized expenses; apply=true
// also writes the assignments back.
func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	ctx := r.Context()
	apply := r.URL.Query().Get("apply") == "true"

	txs, err := s.store.ListTransactions(ctx, uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := engine.AutoCategorize(txs, engine.DefaultRules)

	if apply {
		for _, a := range result.Assigned {
			if err := s.store.UpdateTransactionCategory(ctx, a.TransactionID, a.Category); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
	}

	resp := categorizeResponse{
		Assigned:  make([]assignmentResponse, 0, len(result.Assigned)),
		Unmatched: result.Unmatched,
		Applied:   apply,
	}
	for _, a := range result.Assigned {
		resp.Assigned = append(resp.Assigned, assignmentResponse{
			TransactionID: a.TransactionID,
			Category:      a.Category,
		})
	}

	s.logger.InfoContext(ctx, "categorized transactions",
		log.FieldUserID, uid, "assigned", len(resp.Assigned), "applied", apply)
	writeJSON(w, http.StatusOK, resp)
}

type goalStatusResponse struct {
	Name            string          `json:"name"`
	Target          decimal.Decimal `json:"target"`
	Current         decimal.Decimal `json:"current"`
	Remaining       decimal.Decimal `json:"remaining"`
	PercentComplete decimal.Decimal `json:"percent_complete"`
	DaysRemaining   int             `json:"days_remaining"`
	State           string          `json:"state"`
}

func (s *Server) handleGoalStatus(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	ctx := r.Context()

	goals, err := s.store.ListGoals(ctx, uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	today := time.Now()
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		g, err := engine.FindGoal(goals, name)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, goalStatusDTO(engine.TrackGoal(g, today)))
		return
	}

	out := make([]goalStatusResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, goalStatusDTO(engine.TrackGoal(g, today)))
	}
	writeJSON(w, http.StatusOK, out)
}

func goalStatusDTO(st engine.GoalStatus) goalStatusResponse {
	return goalStatusResponse{
		Name:            st.Name,
		Target:          st.Target,
		Current:         st.Current,
		Remaining:       st.Remaining,
		PercentComplete: st.PercentComplete,
		DaysRemaining:   st.DaysRemaining,
		State:           string(st.State),
	}
}

type goalPlanResponse struct {
	Remaining     decimal.Decimal `json:"remaining"`
	DaysRemaining int             `json:"days_remaining"`
	Daily         decimal.Decimal `json:"daily"`
	Weekly        decimal.Decimal `json:"weekly"`
	Monthly       decimal.Decimal `json:"monthly"`
}

func (s *Server) handleGoalPlan(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	goals, err := s.store.ListGoals(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	g, err := engine.FindGoal(goals, name)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	plan, err := engine.GeneratePlan(g, time.Now())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goalPlanResponse{
		Remaining:     plan.Remaining,
		DaysRemaining: plan.DaysRemaining,
		Daily:         plan.Daily,
		Weekly:        plan.Weekly,
		Monthly:       plan.Monthly,
	})
}
