// Package models defines the persisted domain entities for Budget-flow.
//
// # Entities
//
//   - Expense: a shared expense with an inlined split list (who owes what)
//   - SplitEntry: one participant's share of an expense (owned by the
//     expense, no independent lifecycle)
//   - Budget: a per-user, per-category, per-month spend accumulator with an
//     optional limit and alert threshold
//   - User: a registered account, referenced by ID from expenses and splits
//   - Group: a named set of members that expenses can be scoped to
//
// # Design Principles
//
// 1. **Plain identifiers**: entities reference each other by ID strings,
// never by pointer. The engine operates on identifiers plus display names
// that callers resolve up front.
//
// 2. **Inlined ownership**: split entries are stored and loaded as part of
// their expense; there is no way to address a split on its own.
//
// 3. **Transient values stay out**: computed values (net balances,
// settlement transfers, budget utilization) live in the packages that
// compute them and are never persisted.
package models
