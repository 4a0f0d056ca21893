package models

// Category is the closed set of expense categories.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills"
	CategoryHealthcare    Category = "Healthcare"
	CategoryOther         Category = "Other"
)

// Categories lists every valid category, in display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryEntertainment,
		CategoryBills,
		CategoryHealthcare,
		CategoryOther,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryShopping,
		CategoryEntertainment, CategoryBills, CategoryHealthcare, CategoryOther:
		return true
	}
	return false
}

// SplitEntry is one participant's share of an expense.
// Entries are owned by their expense and have no independent lifecycle.
type SplitEntry struct {
	// UserID is the participant who owes this share.
	UserID string

	// Amount is the share owed. Always >= 0. The sum of all entries on an
	// expense must equal the expense amount within 0.01.
	Amount float64

	// Paid marks whether this share has been paid back. The payer's own
	// entry starts out true; the rest flip when the expense is settled.
	Paid bool
}

// Expense represents a shared expense split among participants.
//
// Amount and Splits are immutable after creation: the spend accumulator
// deltas applied at creation time are reversed from these exact values on
// deletion, so editing them later would leave the accumulator stranded.
// Only Description, Notes and Category may change post-creation.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is the human-readable label (e.g., "Dinner at Luigi's").
	Description string

	// Amount is the total expense amount. Always > 0.
	Amount float64

	// Category is one of the closed category set.
	Category Category

	// Date is the Unix timestamp of when the expense occurred
	// (not when it was recorded).
	Date int64

	// PayerID is the user who paid the full amount up front.
	PayerID string

	// Splits is the ordered, non-empty list of share entries. Each
	// participant appears at most once.
	Splits []SplitEntry

	// Notes is an optional free-form annotation.
	Notes string

	// Settled marks the expense as fully paid back. Settled expenses are
	// excluded from balance and settlement computations.
	Settled bool

	// GroupID optionally scopes the expense to a group.
	GroupID string

	// CreatedByID is the user who recorded the expense. Only they may
	// update or reverse it.
	CreatedByID string

	// CreatedAt and UpdatedAt are Unix timestamps maintained by the store.
	CreatedAt int64
	UpdatedAt int64
}

// Participants returns the user IDs of every split entry, in split order.
func (e *Expense) Participants() []string {
	ids := make([]string, len(e.Splits))
	for i, s := range e.Splits {
		ids[i] = s.UserID
	}
	return ids
}

// Involves reports whether the user is the payer or a split participant.
func (e *Expense) Involves(userID string) bool {
	if e.PayerID == userID {
		return true
	}
	for _, s := range e.Splits {
		if s.UserID == userID {
			return true
		}
	}
	return false
}

// ShareOf returns the split amount owed by the given user, or 0 if the
// user is not a participant.
func (e *Expense) ShareOf(userID string) float64 {
	for _, s := range e.Splits {
		if s.UserID == userID {
			return s.Amount
		}
	}
	return 0
}
