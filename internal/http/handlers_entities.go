package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"plata/internal/core"
	"plata/internal/engine"
	"plata/internal/log"
)

func (s *Server) handleLookupUser(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}

	u, err := s.store.GetUserByPhone(r.Context(), phone)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":       u.ID,
		"name":     u.Name,
		"phone":    u.Phone,
		"currency": u.Currency,
	})
}

type createCategoryRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Parent string `json:"parent"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	c := core.Category{
		ID:     uuid.NewString(),
		UserID: req.UserID,
		Name:   req.Name,
		Parent: req.Parent,
	}
	if err := c.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.store.CreateCategory(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": c.ID})
}

type categoryResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	cats, err := s.store.ListCategories(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name, Parent: c.Parent})
	}
	writeJSON(w, http.StatusOK, out)
}

type contributeRequest struct {
	UserID string          `json:"user_id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// handleGoalContribute records progress toward a goal and returns its updated
// status.
func (s *Server) handleGoalContribute(w http.ResponseWriter, r *http.Request) {
	var req contributeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusUnprocessableEntity, core.ErrInvalidAmount.Error())
		return
	}
	ctx := r.Context()

	goals, err := s.store.ListGoals(ctx, req.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	g, err := engine.FindGoal(goals, req.Name)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	g.CurrentAmount = g.CurrentAmount.Add(req.Amount)
	if err := s.store.UpdateGoalAmount(ctx, g.ID, g.CurrentAmount.String()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.InfoContext(ctx, "goal contribution recorded",
		log.FieldUserID, req.UserID, "goal", g.Name, log.FieldAmount, req.Amount.String())
	writeJSON(w, http.StatusOK, goalStatusDTO(engine.TrackGoal(g, time.Now())))
}

type cardBalanceResponse struct {
	CardID  string          `json:"card_id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// handleCardRefresh recomputes each card's balance from the payment and
// transaction ledger and writes it back to the denormalized cache.
func (s *Server) handleCardRefresh(w http.ResponseWriter, r *http.Request) {
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

	out := make([]cardBalanceResponse, 0, len(cards))
	for _, c := range cards {
		payments, err := s.store.ListCardPayments(ctx, c.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		balance := engine.CardBalance(c, payments, txs)
		if err := s.store.UpdateCardBalance(ctx, c.ID, balance.String()); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, cardBalanceResponse{CardID: c.ID, Name: c.Name, Balance: balance})
	}
	writeJSON(w, http.StatusOK, out)
}
