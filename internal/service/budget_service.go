package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/ledger"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/storage"
)

// BudgetService manages explicit budget configuration and exposes the
// spend accumulator: period snapshots with derived fields, an overview,
// and the reconciliation repair pass.
type BudgetService struct {
	store storage.Store
}

// NewBudgetService creates a new BudgetService with the given storage
// backend.
func NewBudgetService(store storage.Store) *BudgetService {
	return &BudgetService{store: store}
}

// CreateBudgetInput configures a budget row.
type CreateBudgetInput struct {
	UserID         string
	Category       models.Category
	Month          int
	Year           int
	Limit          float64
	AlertThreshold float64
	Color          string
}

// CreateBudget creates a budget row, or attaches the limit configuration
// to a lazily created accumulator row if one already exists for the key.
func (s *BudgetService) CreateBudget(ctx context.Context, in CreateBudgetInput) (*models.Budget, error) {
	if !in.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}
	if in.Month < 1 || in.Month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	if in.Year < 2020 {
		return nil, fmt.Errorf("%w: year must be 2020 or later", ErrInvalidInput)
	}
	if in.Limit < 0 {
		return nil, fmt.Errorf("%w: budget limit cannot be negative", ErrInvalidInput)
	}
	if in.AlertThreshold < 0 || in.AlertThreshold > 100 {
		return nil, fmt.Errorf("%w: alert threshold must be between 0 and 100", ErrInvalidInput)
	}

	budget := &models.Budget{
		UserID:         in.UserID,
		Category:       in.Category,
		Month:          in.Month,
		Year:           in.Year,
		Limit:          in.Limit,
		AlertThreshold: in.AlertThreshold,
		Color:          in.Color,
	}

	err := s.store.CreateBudget(ctx, budget)
	if err == nil {
		return budget, nil
	}

	// The accumulator may have lazily created the row already; configure
	// it in place instead of failing.
	existing, getErr := s.store.GetBudgetByKey(ctx, in.UserID, in.Category, in.Month, in.Year)
	if getErr != nil {
		return nil, err
	}
	existing.Limit = in.Limit
	if in.AlertThreshold > 0 {
		existing.AlertThreshold = in.AlertThreshold
	}
	if in.Color != "" {
		existing.Color = in.Color
	}
	if err := s.store.UpdateBudget(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// GetBudget returns one budget view; only the owner may read it.
func (s *BudgetService) GetBudget(ctx context.Context, id, requesterID string) (*models.BudgetView, error) {
	budget, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if budget.UserID != requesterID {
		return nil, fmt.Errorf("view budget %s: %w", id, ErrNotAuthorized)
	}
	view := roundedView(*budget)
	return &view, nil
}

// Snapshot returns the requester's budget views for a period, derived
// fields computed and rounded at this boundary. Zero month/year match any.
func (s *BudgetService) Snapshot(ctx context.Context, userID string, month, year int) ([]models.BudgetView, error) {
	budgets, err := s.store.ListBudgets(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}
	views := make([]models.BudgetView, len(budgets))
	for i, b := range budgets {
		views[i] = roundedView(*b)
	}
	return views, nil
}

// UpdateBudgetInput carries the configurable fields; nil leaves a field
// unchanged. Spent is not configurable: it belongs to the accumulator.
type UpdateBudgetInput struct {
	Limit          *float64
	AlertThreshold *float64
	Color          *string
}

// UpdateBudget reconfigures a budget row; only the owner may update.
func (s *BudgetService) UpdateBudget(ctx context.Context, id, requesterID string, in UpdateBudgetInput) (*models.BudgetView, error) {
	budget, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if budget.UserID != requesterID {
		return nil, fmt.Errorf("update budget %s: %w", id, ErrNotAuthorized)
	}

	if in.Limit != nil {
		if *in.Limit < 0 {
			return nil, fmt.Errorf("%w: budget limit cannot be negative", ErrInvalidInput)
		}
		budget.Limit = *in.Limit
	}
	if in.AlertThreshold != nil {
		if *in.AlertThreshold < 0 || *in.AlertThreshold > 100 {
			return nil, fmt.Errorf("%w: alert threshold must be between 0 and 100", ErrInvalidInput)
		}
		budget.AlertThreshold = *in.AlertThreshold
	}
	if in.Color != nil {
		budget.Color = *in.Color
	}

	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		return nil, err
	}
	view := roundedView(*budget)
	return &view, nil
}

// DeleteBudget removes a budget row; only the owner may delete.
func (s *BudgetService) DeleteBudget(ctx context.Context, id, requesterID string) error {
	budget, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return err
	}
	if budget.UserID != requesterID {
		return fmt.Errorf("delete budget %s: %w", id, ErrNotAuthorized)
	}
	return s.store.DeleteBudget(ctx, id)
}

// Overview aggregates a user's budgets for one period.
type Overview struct {
	TotalLimit     float64
	TotalSpent     float64
	TotalRemaining float64
	ExceededCount  int
	AlertCount     int
	Budgets        []models.BudgetView
}

// GetOverview totals the period's budget views.
func (s *BudgetService) GetOverview(ctx context.Context, userID string, month, year int) (*Overview, error) {
	views, err := s.Snapshot(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}

	o := &Overview{Budgets: views}
	for _, v := range views {
		o.TotalLimit += v.Limit
		o.TotalSpent += v.Spent
		o.TotalRemaining += v.Remaining
		if v.IsExceeded {
			o.ExceededCount++
		}
		if v.AlertTriggered {
			o.AlertCount++
		}
	}
	o.TotalLimit = ledger.Round2(o.TotalLimit)
	o.TotalSpent = ledger.Round2(o.TotalSpent)
	o.TotalRemaining = ledger.Round2(o.TotalRemaining)
	return o, nil
}

// DriftEntry reports one accumulator key whose maintained total diverged
// from the ledger.
type DriftEntry struct {
	Key      AccumulatorKey
	Recorded float64 // accumulator value before repair
	Actual   float64 // recomputed from the ledger
}

// ReconcileReport is the outcome of one reconciliation pass.
type ReconcileReport struct {
	Checked  int
	Drifted  []DriftEntry
	Repaired int
}

// Reconcile recomputes a user's accumulator totals for one period from
// the ledger and overwrites any drifted key. This is the only sanctioned
// repair path for accumulator drift; drift is reported, never silently
// corrected without a trace.
func (s *BudgetService) Reconcile(ctx context.Context, userID string, month, year int) (*ReconcileReport, error) {
	if month < 1 || month > 12 || year < 2020 {
		return nil, fmt.Errorf("%w: a valid month and year are required", ErrInvalidInput)
	}

	report := &ReconcileReport{}
	for _, category := range models.Categories() {
		report.Checked++

		actual, err := s.store.SumShares(ctx, userID, category, month, year)
		if err != nil {
			return nil, fmt.Errorf("reconcile %s/%s: %w", userID, category, err)
		}

		recorded := 0.0
		budget, err := s.store.GetBudgetByKey(ctx, userID, category, month, year)
		switch {
		case err == nil:
			recorded = budget.Spent
		case actual == 0:
			// No accumulator row and no ledger activity: nothing to do.
			continue
		}

		if math.Abs(actual-recorded) <= ledger.Epsilon {
			continue
		}

		accumulatorDrift.Inc()
		entry := DriftEntry{
			Key:      AccumulatorKey{UserID: userID, Category: category, Month: month, Year: year},
			Recorded: recorded,
			Actual:   actual,
		}
		report.Drifted = append(report.Drifted, entry)
		slog.Warn("Accumulator drift detected",
			"key", entry.Key.String(),
			"recorded", recorded,
			"actual", actual,
		)

		if err := s.store.SetSpent(ctx, userID, category, month, year, actual); err != nil {
			return report, fmt.Errorf("repair %s: %w", entry.Key, err)
		}
		report.Repaired++
	}

	return report, nil
}

// roundedView computes the derived fields and rounds every monetary and
// percentage value for reporting.
func roundedView(b models.Budget) models.BudgetView {
	v := b.View()
	v.Spent = ledger.Round2(v.Spent)
	v.Limit = ledger.Round2(v.Limit)
	v.Remaining = ledger.Round2(v.Remaining)
	v.UtilizationPercent = ledger.Round2(v.UtilizationPercent)
	return v
}
