package sqlite

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "budgetflow-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestExpenseStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateExpense generates ID and timestamps", func(t *testing.T) {
		expense := &models.Expense{
			Description: "Dinner",
			Amount:      60.0,
			Category:    models.CategoryFood,
			Date:        time.Now().Unix(),
			PayerID:     "u1",
			CreatedByID: "u1",
			Splits: []models.SplitEntry{
				{UserID: "u1", Amount: 30.0, Paid: true},
				{UserID: "u2", Amount: 30.0},
			},
		}

		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Error("Expected expense ID to be generated")
		}
		if expense.CreatedAt == 0 || expense.UpdatedAt == 0 {
			t.Error("Expected timestamps to be set")
		}
	})

	t.Run("GetExpense retrieves splits in order", func(t *testing.T) {
		original := &models.Expense{
			Description: "Taxi",
			Amount:      45.0,
			Category:    models.CategoryTransport,
			Date:        time.Now().Unix(),
			PayerID:     "u2",
			CreatedByID: "u2",
			Notes:       "airport run",
			Splits: []models.SplitEntry{
				{UserID: "u2", Amount: 15.0, Paid: true},
				{UserID: "u1", Amount: 15.0},
				{UserID: "u3", Amount: 15.0},
			},
		}
		if err := store.CreateExpense(ctx, original); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		retrieved, err := store.GetExpense(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if retrieved.Description != original.Description {
			t.Errorf("Description mismatch: got %s, want %s", retrieved.Description, original.Description)
		}
		if retrieved.Amount != original.Amount {
			t.Errorf("Amount mismatch: got %f, want %f", retrieved.Amount, original.Amount)
		}
		if retrieved.Notes != "airport run" {
			t.Errorf("Notes mismatch: got %s", retrieved.Notes)
		}
		if len(retrieved.Splits) != 3 {
			t.Fatalf("Expected 3 splits, got %d", len(retrieved.Splits))
		}
		// Insertion order must survive the round trip.
		wantOrder := []string{"u2", "u1", "u3"}
		for i, s := range retrieved.Splits {
			if s.UserID != wantOrder[i] {
				t.Errorf("Split %d user = %s, want %s", i, s.UserID, wantOrder[i])
			}
		}
		if !retrieved.Splits[0].Paid {
			t.Error("Expected payer's split to be marked paid")
		}
	})

	t.Run("GetExpense returns ErrNotFound for unknown id", func(t *testing.T) {
		_, err := store.GetExpense(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateExpense writes mutable fields only", func(t *testing.T) {
		expense := &models.Expense{
			Description: "Groceries",
			Amount:      80.0,
			Category:    models.CategoryFood,
			Date:        time.Now().Unix(),
			PayerID:     "u1",
			CreatedByID: "u1",
			Splits: []models.SplitEntry{
				{UserID: "u1", Amount: 40.0, Paid: true},
				{UserID: "u2", Amount: 40.0},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expense.Description = "Weekly groceries"
		expense.Category = models.CategoryShopping
		expense.Settled = true
		expense.Splits[1].Paid = true
		if err := store.UpdateExpense(ctx, expense); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}

		retrieved, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if retrieved.Description != "Weekly groceries" {
			t.Errorf("Description = %s", retrieved.Description)
		}
		if retrieved.Category != models.CategoryShopping {
			t.Errorf("Category = %s", retrieved.Category)
		}
		if !retrieved.Settled {
			t.Error("Expected settled")
		}
		if !retrieved.Splits[1].Paid {
			t.Error("Expected second split marked paid")
		}
	})

	t.Run("UpdateExpense returns ErrNotFound for unknown id", func(t *testing.T) {
		err := store.UpdateExpense(ctx, &models.Expense{ID: "nonexistent-id"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteExpense removes expense and splits", func(t *testing.T) {
		expense := &models.Expense{
			Description: "Coffee",
			Amount:      10.0,
			Category:    models.CategoryFood,
			Date:        time.Now().Unix(),
			PayerID:     "u1",
			CreatedByID: "u1",
			Splits: []models.SplitEntry{
				{UserID: "u1", Amount: 5.0, Paid: true},
				{UserID: "u2", Amount: 5.0},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestQueryUnsettled(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", CreatedByID: "a", MemberIDs: []string{"a", "b"}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	mkExpense := func(payer string, amount float64, splits []models.SplitEntry, groupID string, settled bool) {
		t.Helper()
		e := &models.Expense{
			Description: "test",
			Amount:      amount,
			Category:    models.CategoryOther,
			Date:        time.Now().Unix(),
			PayerID:     payer,
			CreatedByID: payer,
			GroupID:     groupID,
			Splits:      splits,
		}
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if settled {
			e.Settled = true
			if err := store.UpdateExpense(ctx, e); err != nil {
				t.Fatalf("UpdateExpense failed: %v", err)
			}
		}
	}

	// a paid for a+b, b paid for b+c (group), c paid for a+c but settled.
	mkExpense("a", 100, []models.SplitEntry{{UserID: "a", Amount: 50, Paid: true}, {UserID: "b", Amount: 50}}, "", false)
	mkExpense("b", 60, []models.SplitEntry{{UserID: "b", Amount: 30, Paid: true}, {UserID: "c", Amount: 30}}, group.ID, false)
	mkExpense("c", 40, []models.SplitEntry{{UserID: "a", Amount: 20}, {UserID: "c", Amount: 20, Paid: true}}, "", true)

	t.Run("user scope sees all unsettled involvement", func(t *testing.T) {
		expenses, err := store.QueryUnsettled(ctx, storage.UserScope("b"))
		if err != nil {
			t.Fatalf("QueryUnsettled failed: %v", err)
		}
		if len(expenses) != 2 {
			t.Errorf("Expected 2 expenses for b, got %d", len(expenses))
		}
	})

	t.Run("settled expenses are excluded", func(t *testing.T) {
		expenses, err := store.QueryUnsettled(ctx, storage.UserScope("a"))
		if err != nil {
			t.Fatalf("QueryUnsettled failed: %v", err)
		}
		if len(expenses) != 1 {
			t.Errorf("Expected 1 unsettled expense for a, got %d", len(expenses))
		}
	})

	t.Run("group scope sees only group expenses", func(t *testing.T) {
		expenses, err := store.QueryUnsettled(ctx, storage.GroupScope(group.ID))
		if err != nil {
			t.Fatalf("QueryUnsettled failed: %v", err)
		}
		if len(expenses) != 1 {
			t.Fatalf("Expected 1 group expense, got %d", len(expenses))
		}
		if expenses[0].GroupID != group.ID {
			t.Errorf("GroupID = %s, want %s", expenses[0].GroupID, group.ID)
		}
	})

	t.Run("pair scope requires both users involved", func(t *testing.T) {
		expenses, err := store.QueryUnsettled(ctx, storage.PairScope("b", "c"))
		if err != nil {
			t.Fatalf("QueryUnsettled failed: %v", err)
		}
		if len(expenses) != 1 {
			t.Errorf("Expected 1 expense involving both b and c, got %d", len(expenses))
		}

		expenses, err = store.QueryUnsettled(ctx, storage.PairScope("a", "c"))
		if err != nil {
			t.Fatalf("QueryUnsettled failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("Expected 0 unsettled expenses involving both a and c, got %d", len(expenses))
		}
	})
}

func TestListAndAggregate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mk := func(desc string, amount float64, category models.Category, date time.Time, share float64) {
		t.Helper()
		e := &models.Expense{
			Description: desc,
			Amount:      amount,
			Category:    category,
			Date:        date.Unix(),
			PayerID:     "u1",
			CreatedByID: "u1",
			Splits: []models.SplitEntry{
				{UserID: "u1", Amount: share, Paid: true},
				{UserID: "u2", Amount: amount - share},
			},
		}
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	mk("lunch", 30, models.CategoryFood, base, 15)
	mk("dinner", 50, models.CategoryFood, base.Add(time.Hour), 25)
	mk("bus", 10, models.CategoryTransport, base.Add(2*time.Hour), 5)
	mk("april rent", 1000, models.CategoryBills, base.AddDate(0, 1, 0), 500)

	t.Run("ListExpensesByUser honors pagination", func(t *testing.T) {
		expenses, err := store.ListExpensesByUser(ctx, "u1", storage.ExpenseFilter{Limit: 2})
		if err != nil {
			t.Fatalf("ListExpensesByUser failed: %v", err)
		}
		if len(expenses) != 2 {
			t.Fatalf("Expected 2 expenses, got %d", len(expenses))
		}
		// Newest first.
		if expenses[0].Description != "april rent" {
			t.Errorf("First expense = %s, want april rent", expenses[0].Description)
		}

		total, err := store.CountExpensesByUser(ctx, "u1", storage.ExpenseFilter{})
		if err != nil {
			t.Fatalf("CountExpensesByUser failed: %v", err)
		}
		if total != 4 {
			t.Errorf("Count = %d, want 4", total)
		}
	})

	t.Run("category filter narrows listing", func(t *testing.T) {
		filter := storage.ExpenseFilter{Category: models.CategoryFood, Limit: 10}
		expenses, err := store.ListExpensesByUser(ctx, "u1", filter)
		if err != nil {
			t.Fatalf("ListExpensesByUser failed: %v", err)
		}
		if len(expenses) != 2 {
			t.Errorf("Expected 2 food expenses, got %d", len(expenses))
		}
	})

	t.Run("CategoryTotals sums own shares", func(t *testing.T) {
		totals, err := store.CategoryTotals(ctx, "u1", 0, 0)
		if err != nil {
			t.Fatalf("CategoryTotals failed: %v", err)
		}
		byCategory := map[models.Category]storage.CategoryTotal{}
		for _, ct := range totals {
			byCategory[ct.Category] = ct
		}
		if got := byCategory[models.CategoryFood]; got.Total != 40 || got.Count != 2 {
			t.Errorf("Food = %+v, want total 40 count 2", got)
		}
		if got := byCategory[models.CategoryTransport]; got.Total != 5 {
			t.Errorf("Transport total = %f, want 5", got.Total)
		}
	})

	t.Run("SumShares isolates month and year", func(t *testing.T) {
		march, err := store.SumShares(ctx, "u1", models.CategoryFood, 3, 2026)
		if err != nil {
			t.Fatalf("SumShares failed: %v", err)
		}
		if math.Abs(march-40) > 0.01 {
			t.Errorf("March food shares = %f, want 40", march)
		}

		april, err := store.SumShares(ctx, "u1", models.CategoryBills, 4, 2026)
		if err != nil {
			t.Fatalf("SumShares failed: %v", err)
		}
		if math.Abs(april-500) > 0.01 {
			t.Errorf("April bills shares = %f, want 500", april)
		}

		empty, err := store.SumShares(ctx, "u2", models.CategoryHealthcare, 3, 2026)
		if err != nil {
			t.Fatalf("SumShares failed: %v", err)
		}
		if empty != 0 {
			t.Errorf("Expected 0 for empty key, got %f", empty)
		}
	})
}

func TestBudgetStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateBudget enforces unique key", func(t *testing.T) {
		budget := &models.Budget{
			UserID:   "u1",
			Category: models.CategoryFood,
			Month:    3,
			Year:     2026,
			Limit:    500,
		}
		if err := store.CreateBudget(ctx, budget); err != nil {
			t.Fatalf("CreateBudget failed: %v", err)
		}
		if budget.ID == "" {
			t.Error("Expected budget ID to be generated")
		}

		dup := &models.Budget{UserID: "u1", Category: models.CategoryFood, Month: 3, Year: 2026, Limit: 100}
		if err := store.CreateBudget(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("AddSpent creates row then accumulates", func(t *testing.T) {
		key := models.CategoryTransport
		if err := store.AddSpent(ctx, "u1", key, 3, 2026, 12.50); err != nil {
			t.Fatalf("AddSpent failed: %v", err)
		}
		if err := store.AddSpent(ctx, "u1", key, 3, 2026, 7.25); err != nil {
			t.Fatalf("AddSpent failed: %v", err)
		}

		budget, err := store.GetBudgetByKey(ctx, "u1", key, 3, 2026)
		if err != nil {
			t.Fatalf("GetBudgetByKey failed: %v", err)
		}
		if math.Abs(budget.Spent-19.75) > 0.001 {
			t.Errorf("Spent = %f, want 19.75", budget.Spent)
		}
		if budget.Limit != 0 {
			t.Errorf("Lazily created row should have no limit, got %f", budget.Limit)
		}
	})

	t.Run("AddSpent applies negative deltas", func(t *testing.T) {
		if err := store.AddSpent(ctx, "u1", models.CategoryTransport, 3, 2026, -7.25); err != nil {
			t.Fatalf("AddSpent failed: %v", err)
		}
		budget, err := store.GetBudgetByKey(ctx, "u1", models.CategoryTransport, 3, 2026)
		if err != nil {
			t.Fatalf("GetBudgetByKey failed: %v", err)
		}
		if math.Abs(budget.Spent-12.50) > 0.001 {
			t.Errorf("Spent = %f, want 12.50", budget.Spent)
		}
	})

	t.Run("SetSpent overwrites the accumulated total", func(t *testing.T) {
		if err := store.SetSpent(ctx, "u1", models.CategoryTransport, 3, 2026, 99.99); err != nil {
			t.Fatalf("SetSpent failed: %v", err)
		}
		budget, err := store.GetBudgetByKey(ctx, "u1", models.CategoryTransport, 3, 2026)
		if err != nil {
			t.Fatalf("GetBudgetByKey failed: %v", err)
		}
		if budget.Spent != 99.99 {
			t.Errorf("Spent = %f, want 99.99", budget.Spent)
		}
	})

	t.Run("UpdateBudget keeps Spent untouched", func(t *testing.T) {
		budget, err := store.GetBudgetByKey(ctx, "u1", models.CategoryFood, 3, 2026)
		if err != nil {
			t.Fatalf("GetBudgetByKey failed: %v", err)
		}
		if err := store.AddSpent(ctx, "u1", models.CategoryFood, 3, 2026, 42); err != nil {
			t.Fatalf("AddSpent failed: %v", err)
		}

		budget.Limit = 750
		budget.AlertThreshold = 90
		if err := store.UpdateBudget(ctx, budget); err != nil {
			t.Fatalf("UpdateBudget failed: %v", err)
		}

		updated, err := store.GetBudget(ctx, budget.ID)
		if err != nil {
			t.Fatalf("GetBudget failed: %v", err)
		}
		if updated.Limit != 750 {
			t.Errorf("Limit = %f, want 750", updated.Limit)
		}
		if math.Abs(updated.Spent-42) > 0.001 {
			t.Errorf("Spent = %f, want 42", updated.Spent)
		}
	})

	t.Run("ListBudgets filters by period", func(t *testing.T) {
		budgets, err := store.ListBudgets(ctx, "u1", 3, 2026)
		if err != nil {
			t.Fatalf("ListBudgets failed: %v", err)
		}
		if len(budgets) != 2 {
			t.Errorf("Expected 2 budget rows for March, got %d", len(budgets))
		}

		budgets, err = store.ListBudgets(ctx, "u1", 4, 2026)
		if err != nil {
			t.Fatalf("ListBudgets failed: %v", err)
		}
		if len(budgets) != 0 {
			t.Errorf("Expected 0 budget rows for April, got %d", len(budgets))
		}
	})

	t.Run("DeleteBudget removes the row", func(t *testing.T) {
		budget, err := store.GetBudgetByKey(ctx, "u1", models.CategoryFood, 3, 2026)
		if err != nil {
			t.Fatalf("GetBudgetByKey failed: %v", err)
		}
		if err := store.DeleteBudget(ctx, budget.ID); err != nil {
			t.Fatalf("DeleteBudget failed: %v", err)
		}
		if _, err := store.GetBudget(ctx, budget.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestUserStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := models.NewUser("alice@example.com", "Alice", "hash-a")
	if err := store.CreateUser(ctx, alice); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Alice 2", "hash-b")
		if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("lookup by email and id", func(t *testing.T) {
		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != alice.ID {
			t.Errorf("ID mismatch: got %s, want %s", byEmail.ID, alice.ID)
		}

		byID, err := store.GetUserByID(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Email != alice.Email {
			t.Errorf("Email mismatch: got %s", byID.Email)
		}

		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetUsersByIDs omits unknown ids", func(t *testing.T) {
		bob := models.NewUser("bob@example.com", "Bob", "hash-c")
		if err := store.CreateUser(ctx, bob); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, bob.ID, "ghost"})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("Expected 2 users, got %d", len(users))
		}
		if users[alice.ID].Name != "Alice" {
			t.Errorf("Alice name = %s", users[alice.ID].Name)
		}
	})
}

func TestGroupStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Flatmates", CreatedByID: "a", MemberIDs: []string{"a", "b"}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.ID == "" {
		t.Fatal("Expected group ID to be generated")
	}

	t.Run("GetGroup returns members", func(t *testing.T) {
		retrieved, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if retrieved.Name != "Flatmates" {
			t.Errorf("Name = %s", retrieved.Name)
		}
		if len(retrieved.MemberIDs) != 2 {
			t.Errorf("Expected 2 members, got %d", len(retrieved.MemberIDs))
		}
	})

	t.Run("AddGroupMembers is idempotent", func(t *testing.T) {
		if err := store.AddGroupMembers(ctx, group.ID, []string{"b", "c"}); err != nil {
			t.Fatalf("AddGroupMembers failed: %v", err)
		}
		retrieved, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(retrieved.MemberIDs) != 3 {
			t.Errorf("Expected 3 members, got %d", len(retrieved.MemberIDs))
		}
	})

	t.Run("ListGroupsByUser", func(t *testing.T) {
		groups, err := store.ListGroupsByUser(ctx, "c")
		if err != nil {
			t.Fatalf("ListGroupsByUser failed: %v", err)
		}
		if len(groups) != 1 {
			t.Errorf("Expected 1 group for c, got %d", len(groups))
		}

		groups, err = store.ListGroupsByUser(ctx, "zz")
		if err != nil {
			t.Fatalf("ListGroupsByUser failed: %v", err)
		}
		if len(groups) != 0 {
			t.Errorf("Expected 0 groups, got %d", len(groups))
		}
	})
}
