package httpapi

import (
	"net/http"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/middleware"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/service"
)

type createBudgetRequest struct {
	Category       string  `json:"category"`
	Month          int     `json:"month"`
	Year           int     `json:"year"`
	Limit          float64 `json:"limit"`
	AlertThreshold float64 `json:"alertThreshold,omitempty"`
	Color          string  `json:"color,omitempty"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := decodeBody(r, &req); err != nil {
		respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}

	budget, err := s.budgets.CreateBudget(r.Context(), service.CreateBudgetInput{
		UserID:         middleware.GetUserID(r.Context()),
		Category:       models.Category(req.Category),
		Month:          req.Month,
		Year:           req.Year,
		Limit:          req.Limit,
		AlertThreshold: req.AlertThreshold,
		Color:          req.Color,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBudgetDTO(budget.View()))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	month, year := parseYearMonth(r)
	views, err := s.budgets.Snapshot(r.Context(), middleware.GetUserID(r.Context()), month, year)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetDTOs(views))
}

func (s *Server) handleBudgetOverview(w http.ResponseWriter, r *http.Request) {
	month, year := parseYearMonth(r)
	overview, err := s.budgets.GetOverview(r.Context(), middleware.GetUserID(r.Context()), month, year)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"totalLimit":     overview.TotalLimit,
		"totalSpent":     overview.TotalSpent,
		"totalRemaining": overview.TotalRemaining,
		"exceededCount":  overview.ExceededCount,
		"alertCount":     overview.AlertCount,
		"budgets":        toBudgetDTOs(overview.Budgets),
	})
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	view, err := s.budgets.GetBudget(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetDTO(*view))
}

type updateBudgetRequest struct {
	Limit          *float64 `json:"limit,omitempty"`
	AlertThreshold *float64 `json:"alertThreshold,omitempty"`
	Color          *string  `json:"color,omitempty"`
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req updateBudgetRequest
	if err := decodeBody(r, &req); err != nil {
		respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}

	view, err := s.budgets.UpdateBudget(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()),
		service.UpdateBudgetInput{
			Limit:          req.Limit,
			AlertThreshold: req.AlertThreshold,
			Color:          req.Color,
		})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetDTO(*view))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	err := s.budgets.DeleteBudget(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "budget deleted", nil)
}

func (s *Server) handleReconcileBudgets(w http.ResponseWriter, r *http.Request) {
	month, year := parseYearMonth(r)
	report, err := s.budgets.Reconcile(r.Context(), middleware.GetUserID(r.Context()), month, year)
	if err != nil {
		respondError(w, r, err)
		return
	}

	type driftDTO struct {
		Key      string  `json:"key"`
		Recorded float64 `json:"recorded"`
		Actual   float64 `json:"actual"`
	}
	drifted := make([]driftDTO, 0, len(report.Drifted))
	for _, d := range report.Drifted {
		drifted = append(drifted, driftDTO{Key: d.Key.String(), Recorded: d.Recorded, Actual: d.Actual})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"checked":  report.Checked,
		"drifted":  drifted,
		"repaired": report.Repaired,
	})
}
