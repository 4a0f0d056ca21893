package models

// Budget is the spend accumulator record for one (user, category, month,
// year) key. Rows are created lazily by the first contributing expense and
// never deleted automatically.
//
// Spent is a maintained total, not derived on read: expense creation adds
// each participant's share, expense reversal subtracts it. Under partial
// failure the total can drift from the ledger until a reconciliation pass
// recomputes it (see service.BudgetService.Reconcile).
type Budget struct {
	// ID is the unique identifier for the budget row (UUID format).
	ID string

	// UserID, Category, Month and Year form the unique accumulator key.
	// Month is 1-12.
	UserID   string
	Category Category
	Month    int
	Year     int

	// Limit is the spending cap for the period. Zero means no cap was set
	// (lazily created rows start without one).
	Limit float64

	// Spent is the accumulated share total for the key.
	Spent float64

	// AlertThreshold is the utilization percentage (0-100) at which the
	// budget should raise an alert. Defaults to 80.
	AlertThreshold float64

	// Color is a display hint for clients (hex string).
	Color string

	// CreatedAt and UpdatedAt are Unix timestamps maintained by the store.
	CreatedAt int64
	UpdatedAt int64
}

// BudgetView is a Budget plus its derived read-only fields, computed at the
// reporting boundary.
type BudgetView struct {
	Budget

	// Remaining is max(0, Limit - Spent).
	Remaining float64

	// UtilizationPercent is Spent/Limit*100, or 0 when no limit is set.
	UtilizationPercent float64

	// IsExceeded reports Spent > Limit (always false without a limit).
	IsExceeded bool

	// AlertTriggered reports UtilizationPercent >= AlertThreshold.
	AlertTriggered bool
}

// View computes the derived fields for the budget.
func (b Budget) View() BudgetView {
	v := BudgetView{Budget: b}
	if b.Limit > 0 {
		if b.Limit > b.Spent {
			v.Remaining = b.Limit - b.Spent
		}
		v.UtilizationPercent = b.Spent / b.Limit * 100
		v.IsExceeded = b.Spent > b.Limit
		v.AlertTriggered = v.UtilizationPercent >= b.AlertThreshold
	}
	return v
}
