package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"plata/internal/core"
	"plata/internal/engine"
)

type spendPredictionResponse struct {
	PreviousMonth    decimal.Decimal `json:"previous_month"`
	RecurringMonthly decimal.Decimal `json:"recurring_monthly"`
	Predicted        decimal.Decimal `json:"predicted"`
}

func (s *Server) handleSpendPrediction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	p := engine.PredictMonthSpend(txs, time.Now())
	writeJSON(w, http.StatusOK, spendPredictionResponse{
		PreviousMonth:    p.PreviousMonth.Round(core.DisplayScale),
		RecurringMonthly: p.RecurringMonthly.Round(core.DisplayScale),
		Predicted:        p.Predicted.Round(core.DisplayScale),
	})
}

type unusualExpenseResponse struct {
	TransactionID string          `json:"transaction_id"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	OverBy        decimal.Decimal `json:"over_by"`
	Date          string          `json:"date"`
}

type unusualReportResponse struct {
	Threshold decimal.Decimal          `json:"threshold"`
	Average   decimal.Decimal          `json:"average"`
	Flagged   []unusualExpenseResponse `json:"flagged"`
}

// handleUnusualExpenses reports the current month's expenses above a
// threshold; the threshold query parameter overrides the default.
func (s *Server) handleUnusualExpenses(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	threshold := decimal.Zero
	if raw := strings.TrimSpace(r.URL.Query().Get("threshold")); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid threshold: "+raw)
			return
		}
		threshold = parsed
	}

	txs, err := s.store.ListTransactions(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	today := time.Now()
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	end := start.AddDate(0, 1, -1)

	report := engine.DetectUnusualExpenses(txs, threshold, start, end)
	resp := unusualReportResponse{
		Threshold: report.Threshold,
		Average:   report.Average,
		Flagged:   make([]unusualExpenseResponse, 0, len(report.Flagged)),
	}
	for _, f := range report.Flagged {
		resp.Flagged = append(resp.Flagged, unusualExpenseResponse{
			TransactionID: f.Transaction.ID,
			Description:   f.Transaction.Description,
			Category:      f.Transaction.Category,
			Amount:        f.Transaction.Amount,
			OverBy:        f.OverBy,
			Date:          f.Transaction.Date.Format("2006-01-02"),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type upcomingPaymentResponse struct {
	RecurringID       string          `json:"recurring_id"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Frequency         string          `json:"frequency"`
	MonthlyEquivalent decimal.Decimal `json:"monthly_equivalent"`
}

func (s *Server) handleUpcomingPayments(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	recurring, err := s.store.ListRecurring(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	payments := engine.UpcomingPayments(recurring, time.Now())
	out := make([]upcomingPaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, upcomingPaymentResponse{
			RecurringID:       p.RecurringID,
			Description:       p.Description,
			Amount:            p.Amount,
			Frequency:         string(p.Frequency),
			MonthlyEquivalent: p.MonthlyEquivalent.Round(core.DisplayScale),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
