package service

import (
	"context"
	"fmt"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/storage"
)

// GroupService manages expense groups: reusable member sets that
// expenses can be scoped to for per-group settlement.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage
// backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group. The creator is always a member.
func (s *GroupService) CreateGroup(ctx context.Context, name, creatorID string, memberIDs []string) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidInput)
	}

	members := []string{creatorID}
	for _, id := range memberIDs {
		if id != creatorID {
			members = append(members, id)
		}
	}

	group := &models.Group{
		Name:        name,
		MemberIDs:   members,
		CreatedByID: creatorID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroup returns a group; only members may read it.
func (s *GroupService) GetGroup(ctx context.Context, id, requesterID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(requesterID) {
		return nil, fmt.Errorf("view group %s: %w", id, ErrNotAuthorized)
	}
	return group, nil
}

// ListGroups returns every group the requester belongs to.
func (s *GroupService) ListGroups(ctx context.Context, requesterID string) ([]*models.Group, error) {
	return s.store.ListGroupsByUser(ctx, requesterID)
}

// AddMembers adds users to a group; only members may extend the group.
func (s *GroupService) AddMembers(ctx context.Context, groupID, requesterID string, userIDs []string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(requesterID) {
		return nil, fmt.Errorf("modify group %s: %w", groupID, ErrNotAuthorized)
	}
	if err := s.store.AddGroupMembers(ctx, groupID, userIDs); err != nil {
		return nil, err
	}
	return s.store.GetGroup(ctx, groupID)
}
