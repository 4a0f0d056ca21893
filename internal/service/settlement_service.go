package service

import (
	"context"
	"log/slog"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/ledger"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/storage"
)

// SettlementService implements the read side of the engine: scoped
// balance aggregation and settlement optimization. It never writes;
// settlement is recorded by the payer through ExpenseService.MarkSettled.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given
// storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// SettlementResult is the outcome of one settlement computation: the
// proposed transfers plus the balances they were derived from, both
// rounded for reporting.
type SettlementResult struct {
	Transfers []ledger.Transfer
	Balances  []ledger.Balance
}

// GlobalScope selects everything involving the requester. If userIDs is
// non-empty it becomes the explicit-list scope instead, always including
// the requester.
func GlobalScope(requesterID string, userIDs []string) storage.Scope {
	if len(userIDs) == 0 {
		return storage.UserScope(requesterID)
	}
	for _, id := range userIDs {
		if id == requesterID {
			return storage.UsersScope(userIDs)
		}
	}
	return storage.UsersScope(append(append([]string{}, userIDs...), requesterID))
}

// ComputeBalances aggregates the scoped unsettled expenses into one net
// balance per involved user, with display names resolved and amounts
// rounded at this reporting boundary.
func (s *SettlementService) ComputeBalances(ctx context.Context, requesterID string, scope storage.Scope) ([]ledger.Balance, error) {
	balances, _, err := s.computeRaw(ctx, requesterID, scope)
	if err != nil {
		return nil, err
	}
	for i := range balances {
		balances[i].Net = ledger.Round2(balances[i].Net)
	}
	return balances, nil
}

// ComputeSettlements aggregates balances and runs the greedy optimizer.
func (s *SettlementService) ComputeSettlements(ctx context.Context, requesterID string, scope storage.Scope) (*SettlementResult, error) {
	balances, expenses, err := s.computeRaw(ctx, requesterID, scope)
	if err != nil {
		return nil, err
	}

	transfers := ledger.Optimize(balances)
	settlementRuns.Inc()
	slog.Debug("Settlements computed",
		"requester_id", requesterID,
		"expenses", len(expenses),
		"balances", len(balances),
		"transfers", len(transfers),
	)

	for i := range balances {
		balances[i].Net = ledger.Round2(balances[i].Net)
	}
	return &SettlementResult{Transfers: transfers, Balances: balances}, nil
}

// computeRaw performs the scope read, involved-user resolution, name
// lookup and aggregation, leaving the balances unrounded for the
// optimizer.
func (s *SettlementService) computeRaw(ctx context.Context, requesterID string, scope storage.Scope) ([]ledger.Balance, []*models.Expense, error) {
	var involved []string

	switch {
	case len(scope.UserIDs) == 1:
		// Global-for-user: first find everyone sharing unsettled expenses
		// with the requester, then widen the read to that set.
		seed, err := s.store.QueryUnsettled(ctx, scope)
		if err != nil {
			return nil, nil, err
		}
		involved = ledger.InvolvedUsers(seed, requesterID)
		scope = storage.UsersScope(involved)
	case len(scope.UserIDs) > 1:
		involved = scope.UserIDs
	}

	expenses, err := s.store.QueryUnsettled(ctx, scope)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case scope.GroupID != "":
		involved = ledger.InvolvedUsers(expenses, requesterID)
	case scope.Pair[0] != "":
		involved = []string{scope.Pair[0], scope.Pair[1]}
	}

	names, err := s.resolveNames(ctx, involved)
	if err != nil {
		return nil, nil, err
	}

	return ledger.ComputeBalances(expenses, involved, names), expenses, nil
}

func (s *SettlementService) resolveNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	users, err := s.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for id, u := range users {
		names[id] = u.Name
	}
	return names, nil
}

// Summary is a one-user digest of outstanding positions.
type Summary struct {
	TotalOwed  float64 // owed to the user by others
	TotalOwing float64 // owed by the user to others
	NetBalance float64
	Status     string // "owed", "owing" or "settled"
}

// Summarize walks the requester's unsettled expenses and totals what
// others owe them against what they owe others.
func (s *SettlementService) Summarize(ctx context.Context, requesterID string) (*Summary, error) {
	expenses, err := s.store.QueryUnsettled(ctx, storage.UserScope(requesterID))
	if err != nil {
		return nil, err
	}

	var owed, owing float64
	for _, e := range expenses {
		if e.PayerID == requesterID {
			for _, split := range e.Splits {
				if split.UserID != requesterID {
					owed += split.Amount
				}
			}
		} else if share := e.ShareOf(requesterID); share > 0 {
			owing += share
		}
	}

	net := owed - owing
	status := "settled"
	switch {
	case net > ledger.Epsilon:
		status = "owed"
	case net < -ledger.Epsilon:
		status = "owing"
	}

	return &Summary{
		TotalOwed:  ledger.Round2(owed),
		TotalOwing: ledger.Round2(owing),
		NetBalance: ledger.Round2(net),
		Status:     status,
	}, nil
}
