package httpapi

import (
	"net/http"
	"strings"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/middleware"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/service"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/storage"
)

func (s *Server) writeSettlements(w http.ResponseWriter, r *http.Request, scope storage.Scope) {
	result, err := s.settlements.ComputeSettlements(r.Context(), middleware.GetUserID(r.Context()), scope)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"settlements": toTransferDTOs(result.Transfers),
		"balances":    toBalanceDTOs(result.Balances),
	})
}

// handleSettlements serves the requester-wide scope, or an explicit user
// list when the "users" query parameter names comma-separated user IDs.
func (s *Server) handleSettlements(w http.ResponseWriter, r *http.Request) {
	var userIDs []string
	if raw := r.URL.Query().Get("users"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				userIDs = append(userIDs, id)
			}
		}
	}
	scope := service.GlobalScope(middleware.GetUserID(r.Context()), userIDs)
	s.writeSettlements(w, r, scope)
}

func (s *Server) handleGroupSettlements(w http.ResponseWriter, r *http.Request) {
	s.writeSettlements(w, r, storage.GroupScope(r.PathValue("groupId")))
}

func (s *Server) handlePairSettlements(w http.ResponseWriter, r *http.Request) {
	requesterID := middleware.GetUserID(r.Context())
	s.writeSettlements(w, r, storage.PairScope(requesterID, r.PathValue("userId")))
}

func (s *Server) handleSettlementSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.settlements.Summarize(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"totalOwed":  summary.TotalOwed,
		"totalOwing": summary.TotalOwing,
		"netBalance": summary.NetBalance,
		"status":     summary.Status,
	})
}
