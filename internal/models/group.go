package models

// Group represents a reusable set of members that expenses can be scoped
// to, enabling per-group settlement.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// MemberIDs is the list of user IDs in this group.
	MemberIDs []string

	// CreatedByID is the user who created the group.
	CreatedByID string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether the user belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
