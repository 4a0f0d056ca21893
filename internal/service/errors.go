package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
)

var (
	// ErrNotAuthorized is returned when the requester is not allowed to
	// perform the operation (only the creator may update or reverse an
	// expense, only the payer may settle it).
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidInput is returned for malformed requests rejected before
	// any accounting check runs (unknown category, non-positive amount,
	// missing fields).
	ErrInvalidInput = errors.New("invalid input")
)

// AccumulatorKey identifies one spend accumulator record.
type AccumulatorKey struct {
	UserID   string
	Category models.Category
	Month    int
	Year     int
}

func (k AccumulatorKey) String() string {
	return fmt.Sprintf("%s/%s/%d-%02d", k.UserID, k.Category, k.Year, k.Month)
}

// PartialAccumulatorError reports that a multi-entry accumulator update
// only partly applied. The ledger write itself succeeded; Applied lists
// the keys whose deltas landed and Failed the ones that did not, so
// callers can repair the failed subset (via reconciliation) instead of
// double-applying the successful ones.
type PartialAccumulatorError struct {
	Op      string // "create" or "reverse"
	Applied []AccumulatorKey
	Failed  []AccumulatorKey
	Cause   error
}

func (e *PartialAccumulatorError) Error() string {
	failed := make([]string, len(e.Failed))
	for i, k := range e.Failed {
		failed[i] = k.String()
	}
	return fmt.Sprintf("partial accumulator update during %s: %d applied, %d failed (%s): %v",
		e.Op, len(e.Applied), len(e.Failed), strings.Join(failed, ", "), e.Cause)
}

func (e *PartialAccumulatorError) Unwrap() error { return e.Cause }
