package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/storage"
)

const expenseColumns = "id, description, amount, category, date, payer_id, notes, settled, group_id, created_by, created_at, updated_at"

// CreateExpense persists an expense and its splits in one transaction.
// The transaction covers the single record only; accumulator updates are
// the caller's concern and are intentionally not part of it.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now
	if expense.Date == 0 {
		expense.Date = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID interface{}
	if expense.GroupID != "" {
		groupID = expense.GroupID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount, string(expense.Category),
		expense.Date, expense.PayerID, expense.Notes, boolToInt(expense.Settled),
		groupID, expense.CreatedByID, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO expense_splits (expense_id, user_id, amount, paid, position)
			 VALUES (?, ?, ?, ?, ?)`,
			expense.ID, split.UserID, split.Amount, boolToInt(split.Paid), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its splits in their
// original order.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)

	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.attachSplits(ctx, []*models.Expense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// UpdateExpense writes the mutable fields and the splits' paid flags.
// Amount and share values are never rewritten.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses
		 SET description = ?, notes = ?, category = ?, settled = ?, updated_at = ?
		 WHERE id = ?`,
		expense.Description, expense.Notes, string(expense.Category),
		boolToInt(expense.Settled), expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	for _, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			"UPDATE expense_splits SET paid = ? WHERE expense_id = ? AND user_id = ?",
			boolToInt(split.Paid), expense.ID, split.UserID,
		)
		if err != nil {
			return fmt.Errorf("failed to update split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense; splits go with it via cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// involvementClause matches expenses where the user is payer or participant.
const involvementClause = "(payer_id = ? OR id IN (SELECT expense_id FROM expense_splits WHERE user_id = ?))"

// QueryUnsettled returns the unsettled expenses selected by the scope.
func (s *SQLiteStore) QueryUnsettled(ctx context.Context, scope storage.Scope) ([]*models.Expense, error) {
	var (
		where string
		args  []interface{}
	)
	switch {
	case scope.GroupID != "":
		where = "group_id = ?"
		args = append(args, scope.GroupID)
	case scope.Pair[0] != "" && scope.Pair[1] != "":
		where = involvementClause + " AND " + involvementClause
		args = append(args, scope.Pair[0], scope.Pair[0], scope.Pair[1], scope.Pair[1])
	case len(scope.UserIDs) > 0:
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(scope.UserIDs)), ", ")
		where = "(payer_id IN (" + placeholders + ")" +
			" OR id IN (SELECT expense_id FROM expense_splits WHERE user_id IN (" + placeholders + ")))"
		for i := 0; i < 2; i++ {
			for _, id := range scope.UserIDs {
				args = append(args, id)
			}
		}
	default:
		return nil, errors.New("empty scope")
	}

	query := "SELECT " + expenseColumns + " FROM expenses WHERE settled = 0 AND " + where + " ORDER BY date DESC"
	return s.queryExpenses(ctx, query, args...)
}

// ListExpensesByUser returns the user's expenses, newest first.
func (s *SQLiteStore) ListExpensesByUser(ctx context.Context, userID string, filter storage.ExpenseFilter) ([]*models.Expense, error) {
	where, args := buildUserFilter(userID, filter)
	query := "SELECT " + expenseColumns + " FROM expenses WHERE " + where + " ORDER BY date DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}
	return s.queryExpenses(ctx, query, args...)
}

// CountExpensesByUser counts the rows ListExpensesByUser would match
// before pagination.
func (s *SQLiteStore) CountExpensesByUser(ctx context.Context, userID string, filter storage.ExpenseFilter) (int, error) {
	where, args := buildUserFilter(userID, filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses WHERE "+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}

// CategoryTotals sums the user's own share amounts per category.
func (s *SQLiteStore) CategoryTotals(ctx context.Context, userID string, startDate, endDate int64) ([]storage.CategoryTotal, error) {
	query := `SELECT e.category, SUM(s.amount), COUNT(*)
		FROM expense_splits s
		JOIN expenses e ON e.id = s.expense_id
		WHERE s.user_id = ?`
	args := []interface{}{userID}
	if startDate > 0 {
		query += " AND e.date >= ?"
		args = append(args, startDate)
	}
	if endDate > 0 {
		query += " AND e.date <= ?"
		args = append(args, endDate)
	}
	query += " GROUP BY e.category ORDER BY SUM(s.amount) DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate category totals: %w", err)
	}
	defer rows.Close()

	var totals []storage.CategoryTotal
	for rows.Next() {
		var (
			category string
			t        storage.CategoryTotal
		)
		if err := rows.Scan(&category, &t.Total, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		t.Category = models.Category(category)
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category totals: %w", err)
	}
	return totals, nil
}

// SumShares recomputes the user's share total for one accumulator key
// directly from the ledger.
func (s *SQLiteStore) SumShares(ctx context.Context, userID string, category models.Category, month, year int) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(s.amount), 0)
		 FROM expense_splits s
		 JOIN expenses e ON e.id = s.expense_id
		 WHERE s.user_id = ?
		   AND e.category = ?
		   AND CAST(strftime('%m', e.date, 'unixepoch') AS INTEGER) = ?
		   AND CAST(strftime('%Y', e.date, 'unixepoch') AS INTEGER) = ?`,
		userID, string(category), month, year,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum shares: %w", err)
	}
	return total, nil
}

func buildUserFilter(userID string, filter storage.ExpenseFilter) (string, []interface{}) {
	where := involvementClause
	args := []interface{}{userID, userID}

	if filter.Category != "" {
		where += " AND category = ?"
		args = append(args, string(filter.Category))
	}
	if filter.Settled != nil {
		where += " AND settled = ?"
		args = append(args, boolToInt(*filter.Settled))
	}
	if filter.StartDate > 0 {
		where += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if filter.EndDate > 0 {
		where += " AND date <= ?"
		args = append(args, filter.EndDate)
	}
	return where, args
}

func (s *SQLiteStore) queryExpenses(ctx context.Context, query string, args ...interface{}) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := s.attachSplits(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// attachSplits loads the split entries for every expense in one query,
// preserving split order.
func (s *SQLiteStore) attachSplits(ctx context.Context, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[string]*models.Expense, len(expenses))
	args := make([]interface{}, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		args[i] = e.ID
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(expenses)), ", ")

	rows, err := s.db.QueryContext(ctx,
		`SELECT expense_id, user_id, amount, paid FROM expense_splits
		 WHERE expense_id IN (`+placeholders+`) ORDER BY expense_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to query splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			expenseID string
			split     models.SplitEntry
			paid      int
		)
		if err := rows.Scan(&expenseID, &split.UserID, &split.Amount, &paid); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		split.Paid = paid != 0
		if e, ok := byID[expenseID]; ok {
			e.Splits = append(e.Splits, split)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var (
		expense  models.Expense
		category string
		settled  int
		groupID  sql.NullString
	)
	err := row.Scan(
		&expense.ID, &expense.Description, &expense.Amount, &category,
		&expense.Date, &expense.PayerID, &expense.Notes, &settled,
		&groupID, &expense.CreatedByID, &expense.CreatedAt, &expense.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	expense.Category = models.Category(category)
	expense.Settled = settled != 0
	if groupID.Valid {
		expense.GroupID = groupID.String
	}
	return &expense, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
