package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/auth"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/middleware"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/service"
)

// Server bundles the services behind the HTTP surface.
type Server struct {
	auths       *service.AuthService
	expenses    *service.ExpenseService
	settlements *service.SettlementService
	budgets     *service.BudgetService
	groups      *service.GroupService
	jwtManager  *auth.JWTManager
}

// NewServer creates a Server over the given services.
func NewServer(
	auths *service.AuthService,
	expenses *service.ExpenseService,
	settlements *service.SettlementService,
	budgets *service.BudgetService,
	groups *service.GroupService,
	jwtManager *auth.JWTManager,
) *Server {
	return &Server{
		auths:       auths,
		expenses:    expenses,
		settlements: settlements,
		budgets:     budgets,
		groups:      groups,
		jwtManager:  jwtManager,
	}
}

// Handler builds the full route table with logging, metrics and auth
// middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	authed := http.NewServeMux()
	authed.HandleFunc("GET /api/auth/me", s.handleCurrentUser)

	authed.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	authed.HandleFunc("GET /api/expenses", s.handleListExpenses)
	authed.HandleFunc("GET /api/expenses/stats", s.handleExpenseStats)
	authed.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	authed.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	authed.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	authed.HandleFunc("PUT /api/expenses/{id}/settle", s.handleSettleExpense)

	authed.HandleFunc("GET /api/settlements", s.handleSettlements)
	authed.HandleFunc("GET /api/settlements/summary", s.handleSettlementSummary)
	authed.HandleFunc("GET /api/settlements/group/{groupId}", s.handleGroupSettlements)
	authed.HandleFunc("GET /api/settlements/between/{userId}", s.handlePairSettlements)

	authed.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	authed.HandleFunc("GET /api/budgets", s.handleListBudgets)
	authed.HandleFunc("GET /api/budgets/overview", s.handleBudgetOverview)
	authed.HandleFunc("POST /api/budgets/reconcile", s.handleReconcileBudgets)
	authed.HandleFunc("GET /api/budgets/{id}", s.handleGetBudget)
	authed.HandleFunc("PUT /api/budgets/{id}", s.handleUpdateBudget)
	authed.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	authed.HandleFunc("POST /api/groups", s.handleCreateGroup)
	authed.HandleFunc("GET /api/groups", s.handleListGroups)
	authed.HandleFunc("GET /api/groups/{id}", s.handleGetGroup)
	authed.HandleFunc("POST /api/groups/{id}/members", s.handleAddGroupMembers)

	requireAuth := middleware.RequireAuth(s.jwtManager)
	mux.Handle("/api/", requireAuth(authed))

	return middleware.Logging(middleware.Metrics(mux))
}
