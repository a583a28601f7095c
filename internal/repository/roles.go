package repository

import (
	"context"
	"fmt"

	"dating-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RoleRepository handles database operations for role assignments
type RoleRepository struct {
	db *pgxpool.Pool
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{db: db}
}

// RolesFor retrieves the roles assigned to a member
func (r *RoleRepository) RolesFor(ctx context.Context, memberID string) ([]string, error) {
	query := `SELECT role FROM member_roles WHERE member_id = $1 ORDER BY role`
	rows, err := r.db.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}

	return roles, nil
}

// Assign grants roles to a member; already-held roles are left alone
func (r *RoleRepository) Assign(ctx context.Context, memberID string, roles []string) error {
	if len(roles) == 0 {
		return nil
	}
	query := `
		INSERT INTO member_roles (member_id, role)
		SELECT $1, unnest($2::text[])
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, memberID, roles); err != nil {
		return fmt.Errorf("failed to assign roles: %w", err)
	}
	return nil
}

// Revoke removes roles from a member
func (r *RoleRepository) Revoke(ctx context.Context, memberID string, roles []string) error {
	if len(roles) == 0 {
		return nil
	}
	query := `DELETE FROM member_roles WHERE member_id = $1 AND role = ANY($2)`
	if _, err := r.db.Exec(ctx, query, memberID, roles); err != nil {
		return fmt.Errorf("failed to revoke roles: %w", err)
	}
	return nil
}

// ListMembersWithRoles retrieves every member and their role set,
// ordered by username.
func (r *RoleRepository) ListMembersWithRoles(ctx context.Context) ([]*models.MemberWithRoles, error) {
	query := `
		SELECT m.id, m.username, coalesce(array_agg(mr.role ORDER BY mr.role) FILTER (WHERE mr.role IS NOT NULL), '{}')
		FROM members m
		LEFT JOIN member_roles mr ON mr.member_id = m.id
		GROUP BY m.id, m.username
		ORDER BY m.username
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list members with roles: %w", err)
	}
	defer rows.Close()

	var members []*models.MemberWithRoles
	for rows.Next() {
		var m models.MemberWithRoles
		if err := rows.Scan(&m.ID, &m.Username, &m.Roles); err != nil {
			return nil, fmt.Errorf("failed to scan member roles: %w", err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}
