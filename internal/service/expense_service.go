package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/ledger"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/storage"
)

// ExpenseService implements the ledger mutation surface: submitting,
// updating, reversing and settling expenses. Every mutation passes the
// split validator before any write; accumulator adjustments follow the
// ledger write as independent best-effort upserts.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage
// backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// SubmitExpenseInput carries a new expense. Exactly one of Splits and
// ParticipantIDs must be set: explicit splits are validated as given,
// a participant list takes the equal-split convenience path.
type SubmitExpenseInput struct {
	Description    string
	Amount         float64
	Category       models.Category
	Date           int64 // unix; zero means now
	PayerID        string
	ParticipantIDs []string
	Splits         []models.SplitEntry
	Notes          string
	GroupID        string
	CreatedByID    string
}

// SubmitExpense validates, persists and accounts a new expense.
//
// On success the returned error is nil. If the ledger write succeeds but
// some accumulator upserts fail, the created expense is returned together
// with a *PartialAccumulatorError describing which keys landed; the
// expense itself is valid and reconciliation is the repair path.
func (s *ExpenseService) SubmitExpense(ctx context.Context, in SubmitExpenseInput) (*models.Expense, error) {
	if in.Description == "" || in.PayerID == "" || in.CreatedByID == "" {
		return nil, fmt.Errorf("%w: description, payer and creator are required", ErrInvalidInput)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidInput)
	}
	if !in.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}

	if in.Date == 0 {
		in.Date = time.Now().Unix()
	}

	splits := in.Splits
	if len(splits) == 0 {
		var err error
		splits, err = ledger.EqualSplits(in.Amount, in.PayerID, in.ParticipantIDs)
		if err != nil {
			return nil, err
		}
	} else if err := ledger.ValidateSplits(in.Amount, splits); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        in.Date,
		PayerID:     in.PayerID,
		Splits:      splits,
		Notes:       in.Notes,
		GroupID:     in.GroupID,
		CreatedByID: in.CreatedByID,
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("SubmitExpense: ledger write failed", "error", err)
		return nil, err
	}
	expensesCreated.Inc()

	s.autoAddParticipantsToGroup(ctx, expense)

	if err := s.applyAccumulatorDeltas(ctx, "create", expense, +1); err != nil {
		return expense, err
	}
	return expense, nil
}

// GetExpense returns an expense to a requester who is involved in it
// (payer, participant, or creator).
func (s *ExpenseService) GetExpense(ctx context.Context, id, requesterID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if !expense.Involves(requesterID) && expense.CreatedByID != requesterID {
		return nil, fmt.Errorf("view expense %s: %w", id, ErrNotAuthorized)
	}
	return expense, nil
}

// ExpensePage is one page of a user's expense history.
type ExpensePage struct {
	Expenses []*models.Expense
	Total    int
	Page     int
	Limit    int
}

// ListExpenses returns the requester's expense history, newest first.
// page is 1-based; limit defaults to 20.
func (s *ExpenseService) ListExpenses(ctx context.Context, requesterID string, filter storage.ExpenseFilter, page, limit int) (*ExpensePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	expenses, err := s.store.ListExpensesByUser(ctx, requesterID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountExpensesByUser(ctx, requesterID, filter)
	if err != nil {
		return nil, err
	}
	return &ExpensePage{Expenses: expenses, Total: total, Page: page, Limit: limit}, nil
}

// UpdateExpenseInput carries the mutable fields of an expense. Nil means
// "leave unchanged". Amount and splits are immutable after creation.
type UpdateExpenseInput struct {
	Description *string
	Notes       *string
	Category    *models.Category
}

// UpdateExpense applies the mutable-field update. Only the creator may
// update. The split invariant is re-checked even though none of the
// mutable fields touch it.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id, requesterID string, in UpdateExpenseInput) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense.CreatedByID != requesterID {
		return nil, fmt.Errorf("update expense %s: %w", id, ErrNotAuthorized)
	}

	if in.Description != nil {
		if *in.Description == "" {
			return nil, fmt.Errorf("%w: description cannot be empty", ErrInvalidInput)
		}
		expense.Description = *in.Description
	}
	if in.Notes != nil {
		expense.Notes = *in.Notes
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, *in.Category)
		}
		expense.Category = *in.Category
	}

	if err := ledger.ValidateSplits(expense.Amount, expense.Splits); err != nil {
		return nil, err
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ReverseExpense deletes an expense after rolling its accumulator deltas
// back. Only the creator may reverse. If some decrements fail, the
// expense is NOT deleted and a *PartialAccumulatorError reports which
// keys were rolled back, so the ledger stays authoritative for the
// subsequent reconciliation.
func (s *ExpenseService) ReverseExpense(ctx context.Context, id, requesterID string) error {
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if expense.CreatedByID != requesterID {
		return fmt.Errorf("reverse expense %s: %w", id, ErrNotAuthorized)
	}

	// Roll back the original splits before removal, never later edits
	// (splits are immutable anyway).
	if err := s.applyAccumulatorDeltas(ctx, "reverse", expense, -1); err != nil {
		return err
	}

	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}
	expensesReversed.Inc()
	slog.Info("Expense reversed", "expense_id", id, "requester_id", requesterID)
	return nil
}

// MarkSettled marks an expense settled and every split paid. Only the
// payer may settle. Settling does not touch the spend accumulator: the
// participants' shares were spent regardless of repayment.
func (s *ExpenseService) MarkSettled(ctx context.Context, id, requesterID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense.PayerID != requesterID {
		return nil, fmt.Errorf("only the payer can mark expense %s as settled: %w", id, ErrNotAuthorized)
	}

	expense.Settled = true
	for i := range expense.Splits {
		expense.Splits[i].Paid = true
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}
	expensesSettled.Inc()
	return expense, nil
}

// Stats sums the requester's own shares per category over a date range.
// Amounts are rounded at this boundary.
func (s *ExpenseService) Stats(ctx context.Context, requesterID string, startDate, endDate int64) ([]storage.CategoryTotal, error) {
	totals, err := s.store.CategoryTotals(ctx, requesterID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	for i := range totals {
		totals[i].Total = ledger.Round2(totals[i].Total)
	}
	return totals, nil
}

// applyAccumulatorDeltas upserts one spend delta per split entry. The
// upserts are independent single-key writes; a crash or failure part way
// leaves the accumulator drifted until reconciliation, which is reported,
// not masked.
func (s *ExpenseService) applyAccumulatorDeltas(ctx context.Context, op string, expense *models.Expense, sign float64) error {
	date := time.Unix(expense.Date, 0).UTC()
	month, year := int(date.Month()), date.Year()

	var applied, failed []AccumulatorKey
	var cause error
	for _, split := range expense.Splits {
		key := AccumulatorKey{UserID: split.UserID, Category: expense.Category, Month: month, Year: year}
		err := s.store.AddSpent(ctx, split.UserID, expense.Category, month, year, sign*split.Amount)
		if err != nil {
			failed = append(failed, key)
			if cause == nil {
				cause = err
			}
			continue
		}
		applied = append(applied, key)
	}

	if len(failed) > 0 {
		partialAccumulatorUpdates.Inc()
		perr := &PartialAccumulatorError{Op: op, Applied: applied, Failed: failed, Cause: cause}
		slog.Error("Accumulator update partially applied",
			"op", op,
			"expense_id", expense.ID,
			"applied", len(applied),
			"failed", len(failed),
			"error", cause,
		)
		return perr
	}
	return nil
}

// autoAddParticipantsToGroup adds any expense participants (and the
// payer) not already in the expense's group.
func (s *ExpenseService) autoAddParticipantsToGroup(ctx context.Context, expense *models.Expense) {
	if expense.GroupID == "" {
		return
	}
	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		slog.Warn("autoAddParticipantsToGroup: failed to get group", "group_id", expense.GroupID, "error", err)
		return
	}

	var newMembers []string
	consider := append(expense.Participants(), expense.PayerID)
	for _, id := range consider {
		if !group.HasMember(id) {
			newMembers = append(newMembers, id)
		}
	}
	if len(newMembers) == 0 {
		return
	}

	if err := s.store.AddGroupMembers(ctx, expense.GroupID, newMembers); err != nil {
		slog.Error("autoAddParticipantsToGroup: failed to add members", "group_id", expense.GroupID, "error", err)
		return
	}
	slog.Info("Auto-added participants to group", "group_id", expense.GroupID, "new_members", newMembers)
}
