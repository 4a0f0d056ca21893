package ledger

import (
	"math"
	"testing"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
)

func balanceByUser(balances []Balance) map[string]Balance {
	m := make(map[string]Balance, len(balances))
	for _, b := range balances {
		m[b.UserID] = b
	}
	return m
}

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name         string
		expenses     []*models.Expense
		involved     []string
		validateFunc func(t *testing.T, balances []Balance)
	}{
		{
			name: "single expense split four ways",
			expenses: []*models.Expense{
				{
					Amount:  2400.0,
					PayerID: "u1",
					Splits: []models.SplitEntry{
						{UserID: "u1", Amount: 600.0},
						{UserID: "u2", Amount: 600.0},
						{UserID: "u3", Amount: 600.0},
						{UserID: "u4", Amount: 600.0},
					},
				},
			},
			involved: []string{"u1", "u2", "u3", "u4"},
			validateFunc: func(t *testing.T, balances []Balance) {
				want := map[string]float64{"u1": 1800.0, "u2": -600.0, "u3": -600.0, "u4": -600.0}
				got := balanceByUser(balances)
				for id, net := range want {
					if math.Abs(got[id].Net-net) > Epsilon {
						t.Errorf("%s net = %v, want %v", id, got[id].Net, net)
					}
				}
			},
		},
		{
			name: "two overlapping expenses",
			expenses: []*models.Expense{
				{
					// 800 paid by u2, split u1/u2
					Amount:  800.0,
					PayerID: "u2",
					Splits: []models.SplitEntry{
						{UserID: "u1", Amount: 400.0},
						{UserID: "u2", Amount: 400.0},
					},
				},
				{
					// 350 paid by u1, split u1/u3
					Amount:  350.0,
					PayerID: "u1",
					Splits: []models.SplitEntry{
						{UserID: "u1", Amount: 175.0},
						{UserID: "u3", Amount: 175.0},
					},
				},
			},
			involved: []string{"u1", "u2", "u3"},
			validateFunc: func(t *testing.T, balances []Balance) {
				// u1: -400 (owes u2) + 350 - 175 = -225
				// u2: +800 - 400 = +400
				// u3: -175
				want := map[string]float64{"u1": -225.0, "u2": 400.0, "u3": -175.0}
				got := balanceByUser(balances)
				for id, net := range want {
					if math.Abs(got[id].Net-net) > Epsilon {
						t.Errorf("%s net = %v, want %v", id, got[id].Net, net)
					}
				}
			},
		},
		{
			name: "out-of-scope participants are skipped",
			expenses: []*models.Expense{
				{
					Amount:  90.0,
					PayerID: "u1",
					Splits: []models.SplitEntry{
						{UserID: "u1", Amount: 30.0},
						{UserID: "u2", Amount: 30.0},
						{UserID: "outsider", Amount: 30.0},
					},
				},
			},
			involved: []string{"u1", "u2"},
			validateFunc: func(t *testing.T, balances []Balance) {
				got := balanceByUser(balances)
				if len(balances) != 2 {
					t.Fatalf("expected 2 balances, got %d", len(balances))
				}
				if math.Abs(got["u1"].Net-60.0) > Epsilon {
					t.Errorf("u1 net = %v, want 60", got["u1"].Net)
				}
				if math.Abs(got["u2"].Net+30.0) > Epsilon {
					t.Errorf("u2 net = %v, want -30", got["u2"].Net)
				}
			},
		},
		{
			name:     "no expenses still yields a zero balance per involved user",
			expenses: nil,
			involved: []string{"u1"},
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 1 {
					t.Fatalf("expected 1 balance, got %d", len(balances))
				}
				if balances[0].Net != 0 {
					t.Errorf("net = %v, want 0", balances[0].Net)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := ComputeBalances(tt.expenses, tt.involved, nil)
			tt.validateFunc(t, balances)
		})
	}
}

// For any closed scope the net balances must cancel out.
func TestComputeBalancesClosure(t *testing.T) {
	expenses := []*models.Expense{
		{
			Amount:  123.45,
			PayerID: "a",
			Splits: []models.SplitEntry{
				{UserID: "a", Amount: 41.15},
				{UserID: "b", Amount: 41.15},
				{UserID: "c", Amount: 41.15},
			},
		},
		{
			Amount:  67.8,
			PayerID: "b",
			Splits: []models.SplitEntry{
				{UserID: "b", Amount: 33.9},
				{UserID: "d", Amount: 33.9},
			},
		},
		{
			Amount:  15.0,
			PayerID: "c",
			Splits: []models.SplitEntry{
				{UserID: "a", Amount: 7.5},
				{UserID: "d", Amount: 7.5},
			},
		},
	}

	balances := ComputeBalances(expenses, []string{"a", "b", "c", "d"}, nil)
	sum := 0.0
	for _, b := range balances {
		sum += b.Net
	}
	if math.Abs(sum) > Epsilon {
		t.Errorf("closed scope balance sum = %v, want 0", sum)
	}
}

func TestComputeBalancesNames(t *testing.T) {
	expenses := []*models.Expense{
		{
			Amount:  10.0,
			PayerID: "u1",
			Splits:  []models.SplitEntry{{UserID: "u2", Amount: 10.0}},
		},
	}
	names := map[string]string{"u1": "Alice", "u2": "Bob"}

	got := balanceByUser(ComputeBalances(expenses, []string{"u1", "u2"}, names))
	if got["u1"].UserName != "Alice" || got["u2"].UserName != "Bob" {
		t.Errorf("display names not carried: %+v", got)
	}
}

func TestInvolvedUsers(t *testing.T) {
	expenses := []*models.Expense{
		{
			PayerID: "u2",
			Splits: []models.SplitEntry{
				{UserID: "u1"},
				{UserID: "u2"},
				{UserID: "u3"},
			},
		},
	}

	ids := InvolvedUsers(expenses, "u1")
	if len(ids) != 3 {
		t.Fatalf("expected 3 involved users, got %d: %v", len(ids), ids)
	}
	if ids[0] != "u1" {
		t.Errorf("initiator should come first, got %v", ids)
	}

	// Initiator with no qualifying expenses is still reported.
	ids = InvolvedUsers(nil, "u9")
	if len(ids) != 1 || ids[0] != "u9" {
		t.Errorf("expected just the initiator, got %v", ids)
	}
}
