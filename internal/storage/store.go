// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint would be violated
	// (e.g., a second budget row for the same user/category/period, or a
	// reused email).
	ErrDuplicate = errors.New("record already exists")
)

// Scope selects which expenses participate in a balance computation.
// Exactly one of the three kinds is set.
type Scope struct {
	// UserIDs selects records where any listed user is the payer or a
	// split participant (the global-for-user scope when it holds a single
	// id, the explicit-list scope otherwise).
	UserIDs []string

	// GroupID selects records tagged with the group.
	GroupID string

	// Pair selects records where both users are involved.
	Pair [2]string
}

// UserScope is the global-for-user scope.
func UserScope(userID string) Scope { return Scope{UserIDs: []string{userID}} }

// UsersScope is the explicit user-list scope.
func UsersScope(userIDs []string) Scope { return Scope{UserIDs: userIDs} }

// GroupScope selects a group's expenses.
func GroupScope(groupID string) Scope { return Scope{GroupID: groupID} }

// PairScope selects expenses involving both users.
func PairScope(a, b string) Scope { return Scope{Pair: [2]string{a, b}} }

// ExpenseFilter narrows historical expense listings. Zero values mean
// "no constraint".
type ExpenseFilter struct {
	Category  models.Category
	Settled   *bool
	StartDate int64 // unix, inclusive
	EndDate   int64 // unix, inclusive
	Limit     int
	Offset    int
}

// CategoryTotal is one row of a per-category share aggregation.
type CategoryTotal struct {
	Category models.Category
	Total    float64
	Count    int
}

// ExpenseStore holds the ledger of record.
type ExpenseStore interface {
	// CreateExpense persists a new expense with its splits. The ID,
	// CreatedAt and UpdatedAt fields are populated by the store. The
	// expense and its splits are written atomically; nothing else is.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// UpdateExpense writes the mutable fields (description, notes,
	// category, settled, split paid flags) and bumps UpdatedAt. Amount
	// and split shares are never rewritten.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, id string) error

	// QueryUnsettled returns the unsettled expenses in scope, the read
	// feeding balance aggregation.
	QueryUnsettled(ctx context.Context, scope Scope) ([]*models.Expense, error)

	// ListExpensesByUser returns expenses where the user is payer or
	// participant, newest first, honoring the filter.
	ListExpensesByUser(ctx context.Context, userID string, filter ExpenseFilter) ([]*models.Expense, error)

	// CountExpensesByUser returns the total matching ListExpensesByUser
	// before Limit/Offset, for pagination.
	CountExpensesByUser(ctx context.Context, userID string, filter ExpenseFilter) (int, error)

	// CategoryTotals sums the user's own share amounts per category over
	// an optional date range.
	CategoryTotals(ctx context.Context, userID string, startDate, endDate int64) ([]CategoryTotal, error)

	// SumShares recomputes, from the ledger alone, the total of the
	// user's shares for one accumulator key. This is the reconciliation
	// read.
	SumShares(ctx context.Context, userID string, category models.Category, month, year int) (float64, error)
}

// BudgetStore holds the derived spend accumulator.
type BudgetStore interface {
	// CreateBudget persists an explicitly configured budget row.
	// Returns ErrDuplicate if the (user, category, month, year) key
	// already has one.
	CreateBudget(ctx context.Context, budget *models.Budget) error

	GetBudget(ctx context.Context, id string) (*models.Budget, error)
	GetBudgetByKey(ctx context.Context, userID string, category models.Category, month, year int) (*models.Budget, error)

	// ListBudgets returns the user's budget rows for a period. A zero
	// month or year means any.
	ListBudgets(ctx context.Context, userID string, month, year int) ([]*models.Budget, error)

	// UpdateBudget writes limit, alert threshold and color.
	UpdateBudget(ctx context.Context, budget *models.Budget) error

	DeleteBudget(ctx context.Context, id string) error

	// AddSpent applies a spend delta to the accumulator key as a single
	// atomic upsert, creating the row with zero spent first if absent.
	AddSpent(ctx context.Context, userID string, category models.Category, month, year int, delta float64) error

	// SetSpent overwrites the accumulated total for a key. This is the
	// sanctioned reconciliation repair; nothing else may write Spent
	// directly.
	SetSpent(ctx context.Context, userID string, category models.Category, month, year int, amount float64) error
}

// UserStore holds registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns a map of user ID to user. Unknown IDs are
	// omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// GroupStore holds expense groups.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error
}

// Store is the complete persistence surface. The sqlite package provides
// the canonical implementation; the split into per-concern interfaces
// keeps services depending only on what they use.
type Store interface {
	ExpenseStore
	BudgetStore
	UserStore
	GroupStore

	// Close releases any resources held by the store.
	Close() error
}
