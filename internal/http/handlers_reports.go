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

type monthReportResponse struct {
	Year       int                     `json:"year"`
	Month      int                     `json:"month"`
	Income     decimal.Decimal         `json:"income"`
	Expense    decimal.Decimal         `json:"expense"`
	Balance    decimal.Decimal         `json:"balance"`
	ByCategory []categoryShareResponse `json:"by_category"`
}

type categoryShareResponse struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Percent  decimal.Decimal `json:"percent"`
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	year, month := parseYearMonth(r)

	txs, err := s.store.ListTransactions(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	report := engine.MonthlyReport(txs, year, month)
	resp := monthReportResponse{
		Year:       report.Year,
		Month:      int(report.Month),
		Income:     report.Income,
		Expense:    report.Expense,
		Balance:    report.Balance,
		ByCategory: make([]categoryShareResponse, 0, len(report.ByCategory)),
	}
	for _, c := range report.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryShareResponse{
			Category: c.Category,
			Total:    c.Total,
			Percent:  c.Percent,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type netWorthResponse struct {
	Income   decimal.Decimal `json:"income_ytd"`
	Expense  decimal.Decimal `json:"expense_ytd"`
	Debt     decimal.Decimal `json:"debt"`
	NetWorth decimal.Decimal `json:"net_worth"`
}

func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	ctx := r.Context()

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

	nw := engine.NetWorth(txs, loans, time.Now())
	writeJSON(w, http.StatusOK, netWorthResponse{
		Income:   nw.Income,
		Expense:  nw.Expense,
		Debt:     nw.Debt,
		NetWorth: nw.NetWorth,
	})
}

type comparisonResponse struct {
	Period1Start  string          `json:"period1_start"`
	Period1End    string          `json:"period1_end"`
	Period1Total  decimal.Decimal `json:"period1_total"`
	Period2Start  string          `json:"period2_start"`
	Period2End    string          `json:"period2_end"`
	Period2Total  decimal.Decimal `json:"period2_total"`
	Difference    decimal.Decimal `json:"difference"`
	PercentChange decimal.Decimal `json:"percent_change"`
}

// handleCompare contrasts spending in the current period against the
// previous one; period=fortnight selects half-month windows.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
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

	var cmp engine.PeriodComparison
	if r.URL.Query().Get("period") == "fortnight" {
		cmp = engine.CompareFortnights(txs, time.Now())
	} else {
		cmp = engine.CompareMonths(txs, time.Now())
	}

	writeJSON(w, http.StatusOK, comparisonResponse{
		Period1Start:  cmp.Period1Start.Format("2006-01-02"),
		Period1End:    cmp.Period1End.Format("2006-01-02"),
		Period1Total:  cmp.Period1Total,
		Period2Start:  cmp.Period2Start.Format("2006-01-02"),
		Period2End:    cmp.Period2End.Format("2006-01-02"),
		Period2Total:  cmp.Period2Total,
		Difference:    cmp.Difference,
		PercentChange: cmp.PercentChange,
	})
}

type subscriptionReportResponse struct {
	Groups       []subscriptionGroupResponse `json:"groups"`
	MonthlyTotal decimal.Decimal             `json:"monthly_total"`
	AnnualTotal  decimal.Decimal             `json:"annual_total"`
}

type subscriptionGroupResponse struct {
	Category     string                     `json:"category"`
	MonthlyTotal decimal.Decimal            `json:"monthly_total"`
	Items        []subscriptionItemResponse `json:"items"`
}

type subscriptionItemResponse struct {
	Description   string          `json:"description"`
	Frequency     string          `json:"frequency"`
	Amount        decimal.Decimal `json:"amount"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
}

func (s *Server) handleSubscriptions(w http.ResponseWriter, r *http.Request) {
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

	report := engine.AnalyzeSubscriptions(recurring)
	resp := subscriptionReportResponse{
		Groups:       make([]subscriptionGroupResponse, 0, len(report.Groups)),
		MonthlyTotal: report.MonthlyTotal.Round(core.DisplayScale),
		AnnualTotal:  report.AnnualTotal.Round(core.DisplayScale),
	}
	for _, g := range report.Groups {
		group := subscriptionGroupResponse{
			Category:     g.Category,
			MonthlyTotal: g.MonthlyTotal.Round(core.DisplayScale),
			Items:        make([]subscriptionItemResponse, 0, len(g.Items)),
		}
		for _, item := range g.Items {
			group.Items = append(group.Items, subscriptionItemResponse{
				Description:   item.Description,
				Frequency:     string(item.Frequency),
				Amount:        item.Amount,
				MonthlyAmount: item.MonthlyAmount.Round(core.DisplayScale),
			})
		}
		resp.Groups = append(resp.Groups, group)
	}
	writeJSON(w, http.StatusOK, resp)
}

type dueCardResponse struct {
	CardID       string `json:"card_id"`
	Name         string `json:"name"`
	LastFour     string `json:"last_four"`
	NextDueDate  string `json:"next_due_date"`
	DaysUntilDue int    `json:"days_until_due"`
}

func (s *Server) handleCardsDue(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	days := queryInt(r, "days", 30)

	cards, err := s.store.ListCards(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	due := engine.UpcomingDueDates(cards, time.Now(), days)
	out := make([]dueCardResponse, 0, len(due))
	for _, d := range due {
		out = append(out, dueCardResponse{
			CardID:       d.Card.ID,
			Name:         d.Card.Name,
			LastFour:     d.Card.LastFour,
			NextDueDate:  d.NextDueDate.Format("2006-01-02"),
			DaysUntilDue: d.DaysUntilDue,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type cardUtilizationResponse struct {
	CardID      string          `json:"card_id"`
	Name        string          `json:"name"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Utilization decimal.Decimal `json:"utilization_percent"`
}

// handleCardUtilization reports each card's ledger-derived balance against
// its limit.
func (s *Server) handleCardUtilization(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	ctx := r.Context()

	cards, err := s.store.ListCards(ctx, uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	txs, err := s.store.ListTransactions(ctx, uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]cardUtilizationResponse, 0, len(cards))
	for _, c := range cards {
		payments, err := s.store.ListCardPayments(ctx, c.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		balance := engine.CardBalance(c, payments, txs)
		out = append(out, cardUtilizationResponse{
			CardID:      c.ID,
			Name:        c.Name,
			Balance:     balance,
			CreditLimit: c.CreditLimit,
			Utilization: engine.Utilization(c, balance),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type duplicateGroupResponse struct {
	LastFour string   `json:"last_four"`
	CardIDs  []string `json:"card_ids"`
	Names    []string `json:"names"`
}

func (s *Server) handleCardDuplicates(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	cards, err := s.store.ListCards(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	groups := engine.DuplicateCards(cards)
	out := make([]duplicateGroupResponse, 0, len(groups))
	for _, g := range groups {
		resp := duplicateGroupResponse{LastFour: g.LastFour}
		for _, c := range g.Cards {
			resp.CardIDs = append(resp.CardIDs, c.ID)
			resp.Names = append(resp.Names, c.Name)
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

type convertResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Converted decimal.Decimal `json:"converted"`
	RatesDay  string          `json:"rates_day"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if s.rates == nil {
		writeError(w, http.StatusServiceUnavailable, "exchange rates not configured")
		return
	}

	amount, err := core.ParseAmount(r.URL.Query().Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	from := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("from")))
	to := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("to")))
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to currencies are required")
		return
	}

	table, err := s.rates.Daily(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	converted, err := table.Convert(amount, from, to)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "converted amount",
		log.FieldCurrency, from+"/"+to, log.FieldAmount, amount.String())
	writeJSON(w, http.StatusOK, convertResponse{
		Amount:    amount,
		From:      from,
		To:        to,
		Converted: converted,
		RatesDay:  table.Day,
	})
}
