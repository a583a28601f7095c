package services

import (
	"context"
	"fmt"
	"strings"

	"dating-backend/internal/models"
	"dating-backend/internal/shared"
)

var knownRoles = map[string]bool{
	"member":    true,
	"moderator": true,
	"admin":     true,
}

// AdminService handles role administration
type AdminService struct {
	members MemberStore
	roles   RoleStore
}

// NewAdminService creates a new admin service
func NewAdminService(members MemberStore, roles RoleStore) *AdminService {
	return &AdminService{
		members: members,
		roles:   roles,
	}
}

// ListMembersWithRoles retrieves every member and their roles
func (s *AdminService) ListMembersWithRoles(ctx context.Context) ([]*models.MemberWithRoles, error) {
	return s.roles.ListMembersWithRoles(ctx)
}

// EditRoles replaces a member's role set with the requested
// comma-separated list: roles not yet held are added, held roles not
// requested are removed. Returns the resulting role set.
func (s *AdminService) EditRoles(ctx context.Context, username, rolesCSV string) ([]string, error) {
	selected, err := parseRoleList(rolesCSV)
	if err != nil {
		return nil, err
	}

	member, err := s.members.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	current, err := s.roles.RolesFor(ctx, member.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up roles: %w", err)
	}

	toAdd := difference(selected, current)
	toRemove := difference(current, selected)

	if err := s.roles.Assign(ctx, member.ID, toAdd); err != nil {
		return nil, fmt.Errorf("failed to add roles: %w", err)
	}
	if err := s.roles.Revoke(ctx, member.ID, toRemove); err != nil {
		return nil, fmt.Errorf("failed to remove roles: %w", err)
	}

	return s.roles.RolesFor(ctx, member.ID)
}

func parseRoleList(rolesCSV string) ([]string, error) {
	var roles []string
	for _, r := range strings.Split(rolesCSV, ",") {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		if !knownRoles[r] {
			return nil, shared.Validationf("unknown role %q", r)
		}
		roles = append(roles, r)
	}
	if len(roles) == 0 {
		return nil, shared.Validationf("at least one role must be selected")
	}
	return roles, nil
}

// difference returns the elements of a that are not in b
func difference(a, b []string) []string {
	var out []string
	for _, x := range a {
		found := false
		for _, y := range b {
			if x == y {
				found = true
				break
			}
		}
		if !found {
			out = append(out, x)
		}
	}
	return out
}
