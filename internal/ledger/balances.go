package ledger

import "github.com/Hafsa-Ahmadi/Budget-flow/internal/models"

// Balance is the transient net position of one user over a scope.
// Positive means the user is owed money, negative means they owe.
type Balance struct {
	UserID   string
	UserName string
	Net      float64
}

// ComputeBalances reduces a scoped set of unsettled expenses into one net
// balance per involved user.
//
// For each expense the full amount is credited to the payer and each split
// share is debited from its participant. Updates for users outside the
// involved set are skipped, not errors: partial-scope queries intentionally
// ignore out-of-scope contributions. The result is order-independent (pure
// summation) and unrounded; callers round at the reporting boundary.
//
// names maps user IDs to pre-resolved display names; missing entries leave
// UserName empty.
func ComputeBalances(expenses []*models.Expense, involvedUserIDs []string, names map[string]string) []Balance {
	balances := make(map[string]*Balance, len(involvedUserIDs))
	for _, id := range involvedUserIDs {
		if _, ok := balances[id]; ok {
			continue
		}
		balances[id] = &Balance{UserID: id, UserName: names[id]}
	}

	for _, e := range expenses {
		if payer, ok := balances[e.PayerID]; ok {
			payer.Net += e.Amount
		}
		for _, s := range e.Splits {
			if participant, ok := balances[s.UserID]; ok {
				participant.Net -= s.Amount
			}
		}
	}

	result := make([]Balance, 0, len(balances))
	for _, b := range balances {
		result = append(result, *b)
	}
	return result
}

// InvolvedUsers collects every user touched by at least one expense
// (payer or split participant), always including the scope-initiating
// user even when no expense qualifies.
func InvolvedUsers(expenses []*models.Expense, initiatorID string) []string {
	seen := map[string]bool{}
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	add(initiatorID)
	for _, e := range expenses {
		add(e.PayerID)
		for _, s := range e.Splits {
			add(s.UserID)
		}
	}
	return ids
}
