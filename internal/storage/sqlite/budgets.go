package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/storage"
)

const budgetColumns = "id, user_id, category, month, year, limit_amount, spent, alert_threshold, color, created_at, updated_at"

// CreateBudget persists an explicitly configured budget row.
func (s *SQLiteStore) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if budget.CreatedAt == 0 {
		budget.CreatedAt = now
	}
	budget.UpdatedAt = now
	if budget.AlertThreshold == 0 {
		budget.AlertThreshold = 80
	}
	if budget.Color == "" {
		budget.Color = "#3b82f6"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		budget.ID, budget.UserID, string(budget.Category), budget.Month, budget.Year,
		budget.Limit, budget.Spent, budget.AlertThreshold, budget.Color,
		budget.CreatedAt, budget.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("budget for %s/%s %d-%02d: %w",
				budget.UserID, budget.Category, budget.Year, budget.Month, storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert budget: %w", err)
	}
	return nil
}

// GetBudget retrieves a budget row by ID.
func (s *SQLiteStore) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+budgetColumns+" FROM budgets WHERE id = ?", id)
	budget, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("budget %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return budget, nil
}

// GetBudgetByKey retrieves the budget row for one accumulator key.
func (s *SQLiteStore) GetBudgetByKey(ctx context.Context, userID string, category models.Category, month, year int) (*models.Budget, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE user_id = ? AND category = ? AND month = ? AND year = ?",
		userID, string(category), month, year)
	budget, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("budget for %s/%s %d-%02d: %w", userID, category, year, month, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return budget, nil
}

// ListBudgets returns the user's budget rows; zero month or year matches any.
func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string, month, year int) ([]*models.Budget, error) {
	query := "SELECT " + budgetColumns + " FROM budgets WHERE user_id = ?"
	args := []interface{}{userID}
	if month > 0 {
		query += " AND month = ?"
		args = append(args, month)
	}
	if year > 0 {
		query += " AND year = ?"
		args = append(args, year)
	}
	query += " ORDER BY year DESC, month DESC, category"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudget writes limit, alert threshold and color. Spent is owned by
// AddSpent/SetSpent and deliberately not touched here.
func (s *SQLiteStore) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	budget.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET limit_amount = ?, alert_threshold = ?, color = ?, updated_at = ? WHERE id = ?`,
		budget.Limit, budget.AlertThreshold, budget.Color, budget.UpdatedAt, budget.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("budget %s: %w", budget.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteBudget removes a budget row.
func (s *SQLiteStore) DeleteBudget(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("budget %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// AddSpent applies a spend delta to one accumulator key as a single atomic
// upsert. The row is created lazily with defaults and no limit.
func (s *SQLiteStore) AddSpent(ctx context.Context, userID string, category models.Category, month, year int, delta float64) error {
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, category, month, year, limit_amount, spent, alert_threshold, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, 80, '#3b82f6', ?, ?)
		 ON CONFLICT (user_id, category, month, year)
		 DO UPDATE SET spent = spent + excluded.spent, updated_at = excluded.updated_at`,
		uuid.New().String(), userID, string(category), month, year, delta, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to apply spend delta: %w", err)
	}
	return nil
}

// SetSpent overwrites the accumulated total for one key. Reconciliation is
// the only caller.
func (s *SQLiteStore) SetSpent(ctx context.Context, userID string, category models.Category, month, year int, amount float64) error {
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, category, month, year, limit_amount, spent, alert_threshold, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, 80, '#3b82f6', ?, ?)
		 ON CONFLICT (user_id, category, month, year)
		 DO UPDATE SET spent = excluded.spent, updated_at = excluded.updated_at`,
		uuid.New().String(), userID, string(category), month, year, amount, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to overwrite spent total: %w", err)
	}
	return nil
}

func scanBudget(row rowScanner) (*models.Budget, error) {
	var (
		budget   models.Budget
		category string
	)
	err := row.Scan(
		&budget.ID, &budget.UserID, &category, &budget.Month, &budget.Year,
		&budget.Limit, &budget.Spent, &budget.AlertThreshold, &budget.Color,
		&budget.CreatedAt, &budget.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	budget.Category = models.Category(category)
	return &budget, nil
}

// isUniqueViolation matches the sqlite unique-constraint error text; the
// modernc driver does not expose a typed error for it.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
