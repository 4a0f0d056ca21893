package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/ledger"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/middleware"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/service"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/storage"
)

type splitRequest struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
}

type createExpenseRequest struct {
	Description  string         `json:"description"`
	Amount       float64        `json:"amount"`
	Category     string         `json:"category"`
	Date         string         `json:"date,omitempty"`
	PayerID      string         `json:"paidBy"`
	SplitBetween []splitRequest `json:"splitBetween,omitempty"`
	Participants []string       `json:"participants,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	GroupID      string         `json:"groupId,omitempty"`
}

// accumulatorWarning rides along with an expense response whose ledger
// write succeeded but whose spend-total upserts partially failed.
type accumulatorWarning struct {
	Applied []string `json:"applied"`
	Failed  []string `json:"failed"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}

	in := service.SubmitExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    models.Category(req.Category),
		PayerID:     req.PayerID,
		Notes:       req.Notes,
		GroupID:     req.GroupID,
		CreatedByID: middleware.GetUserID(r.Context()),
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid date format"})
			return
		}
		in.Date = date
	}
	if len(req.SplitBetween) > 0 {
		for _, sp := range req.SplitBetween {
			in.Splits = append(in.Splits, models.SplitEntry{
				UserID: sp.UserID,
				Amount: sp.Amount,
				Paid:   sp.UserID == req.PayerID,
			})
		}
	} else {
		in.ParticipantIDs = req.Participants
	}

	expense, err := s.expenses.SubmitExpense(r.Context(), in)

	var partial *service.PartialAccumulatorError
	if errors.As(err, &partial) && expense != nil {
		respondJSON(w, http.StatusCreated, map[string]interface{}{
			"expense": toExpenseDTO(expense),
			"accumulatorWarning": accumulatorWarning{
				Applied: keyStrings(partial.Applied),
				Failed:  keyStrings(partial.Failed),
			},
		})
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toExpenseDTO(expense))
}

func keyStrings(keys []service.AccumulatorKey) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return out
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := storage.ExpenseFilter{}
	if c := q.Get("category"); c != "" {
		filter.Category = models.Category(c)
	}
	if v := q.Get("settled"); v != "" {
		settled := strings.EqualFold(v, "true")
		filter.Settled = &settled
	}
	if v := q.Get("startDate"); v != "" {
		start, err := parseDate(v)
		if err != nil {
			respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid startDate"})
			return
		}
		filter.StartDate = start
	}
	if v := q.Get("endDate"); v != "" {
		end, err := parseDate(v)
		if err != nil {
			respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid endDate"})
			return
		}
		filter.EndDate = end
	}

	page, err := s.expenses.ListExpenses(r.Context(),
		middleware.GetUserID(r.Context()), filter,
		queryInt(r, "page", ""), queryInt(r, "limit", ""))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"expenses": toExpenseDTOs(page.Expenses),
		"total":    page.Total,
		"page":     page.Page,
		"limit":    page.Limit,
	})
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.expenses.GetExpense(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toExpenseDTO(expense))
}

type updateExpenseRequest struct {
	Description *string `json:"description,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Category    *string `json:"category,omitempty"`
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}

	in := service.UpdateExpenseInput{
		Description: req.Description,
		Notes:       req.Notes,
	}
	if req.Category != nil {
		category := models.Category(*req.Category)
		in.Category = &category
	}

	expense, err := s.expenses.UpdateExpense(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toExpenseDTO(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := s.expenses.ReverseExpense(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "expense deleted", nil)
}

func (s *Server) handleSettleExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.expenses.MarkSettled(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toExpenseDTO(expense))
}

func (s *Server) handleExpenseStats(w http.ResponseWriter, r *http.Request) {
	var start, end int64
	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid startDate"})
			return
		}
		start = t
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid endDate"})
			return
		}
		end = t
	}

	totals, err := s.expenses.Stats(r.Context(), middleware.GetUserID(r.Context()), start, end)
	if err != nil {
		respondError(w, r, err)
		return
	}

	type categoryStat struct {
		Category string  `json:"category"`
		Total    float64 `json:"total"`
		Count    int     `json:"count"`
	}
	stats := make([]categoryStat, 0, len(totals))
	var grand float64
	for _, t := range totals {
		stats = append(stats, categoryStat{Category: string(t.Category), Total: t.Total, Count: t.Count})
		grand += t.Total
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"byCategory": stats,
		"total":      ledger.Round2(grand),
	})
}
