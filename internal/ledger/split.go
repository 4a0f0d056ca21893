// Package ledger implements the accounting core: split validation, balance
// aggregation over scoped expense sets, and greedy settlement optimization.
// Everything here is a pure function over explicitly passed snapshots; no
// state is kept between calls.
package ledger

import (
	"fmt"
	"math"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
)

// Epsilon is the absolute tolerance, in currency units, used everywhere the
// engine compares monetary values: split-sum validation, creditor/debtor
// classification, and settlement termination.
const Epsilon = 0.01

// InvariantError reports an accounting invariant violation: the split set
// of an expense is empty, contains a negative or duplicate entry, or does
// not sum to the expense amount within Epsilon. Mutations failing this
// check are rejected before any write.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return "accounting invariant violation: " + e.Reason
}

// ValidateSplits checks the split set of an expense against its amount.
// Valid iff the set is non-empty, every share is >= 0, no participant
// appears twice, and the shares sum to amount within Epsilon.
func ValidateSplits(amount float64, splits []models.SplitEntry) error {
	if len(splits) == 0 {
		return &InvariantError{Reason: "at least one person must be included in the split"}
	}

	seen := make(map[string]bool, len(splits))
	sum := 0.0
	for _, s := range splits {
		if s.UserID == "" {
			return &InvariantError{Reason: "split entry is missing a participant"}
		}
		if s.Amount < 0 {
			return &InvariantError{Reason: fmt.Sprintf("split amount for %s is negative", s.UserID)}
		}
		if seen[s.UserID] {
			return &InvariantError{Reason: fmt.Sprintf("participant %s appears more than once", s.UserID)}
		}
		seen[s.UserID] = true
		sum += s.Amount
	}

	if math.Abs(sum-amount) > Epsilon {
		return &InvariantError{
			Reason: fmt.Sprintf("sum of split amounts (%.2f) must equal total expense amount (%.2f)", sum, amount),
		}
	}
	return nil
}

// EqualSplits builds the equal-split convenience path: amount/n per
// participant, with the payer's own entry marked paid. The computed set is
// re-validated against the same tolerance as manually specified splits.
func EqualSplits(amount float64, payerID string, participantIDs []string) ([]models.SplitEntry, error) {
	if len(participantIDs) == 0 {
		return nil, &InvariantError{Reason: "at least one person must be included in the split"}
	}

	share := amount / float64(len(participantIDs))
	splits := make([]models.SplitEntry, len(participantIDs))
	for i, id := range participantIDs {
		splits[i] = models.SplitEntry{
			UserID: id,
			Amount: share,
			Paid:   id == payerID,
		}
	}

	if err := ValidateSplits(amount, splits); err != nil {
		return nil, err
	}
	return splits, nil
}

// Round2 rounds to two decimal places. Applied only at reporting
// boundaries, never mid-computation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
