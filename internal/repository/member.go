package repository

import (
	"context"
	"fmt"
	"time"

	"dating-backend/internal/models"
	"dating-backend/internal/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memberColumns = `id, username, password_hash, known_as, gender, date_of_birth,
	introduction, looking_for, interests, city, country, push_token, created_at, last_active`

// MemberRepository handles database operations for members
type MemberRepository struct {
	db *pgxpool.Pool
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

func scanMember(row pgx.Row) (*models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.ID, &m.Username, &m.PasswordHash, &m.KnownAs, &m.Gender, &m.DateOfBirth,
		&m.Introduction, &m.LookingFor, &m.Interests, &m.City, &m.Country,
		&m.PushToken, &m.CreatedAt, &m.LastActive,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}
	return &m, nil
}

// Create creates a new member
func (r *MemberRepository) Create(ctx context.Context, m *models.Member) error {
	query := `
		INSERT INTO members (id, username, password_hash, known_as, gender, date_of_birth,
			introduction, looking_for, interests, city, country, created_at, last_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.Username, m.PasswordHash, m.KnownAs, m.Gender, m.DateOfBirth,
		m.Introduction, m.LookingFor, m.Interests, m.City, m.Country, m.CreatedAt, m.LastActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// GetByID retrieves a member by ID
func (r *MemberRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return scanMember(r.db.QueryRow(ctx, query, id))
}

// GetByUsername retrieves a member by username, case-insensitively
func (r *MemberRepository) GetByUsername(ctx context.Context, username string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE username = lower($1)`
	return scanMember(r.db.QueryRow(ctx, query, username))
}

// GetByPhotoID retrieves the member owning a photo
func (r *MemberRepository) GetByPhotoID(ctx context.Context, photoID string) (*models.Member, error) {
	query := `
		SELECT ` + memberColumns + ` FROM members
		WHERE id = (SELECT member_id FROM photos WHERE id = $1)
	`
	return scanMember(r.db.QueryRow(ctx, query, photoID))
}

// GetWithPhotos retrieves a member by username together with their
// photos. Unapproved photos are only included for the member's own view.
func (r *MemberRepository) GetWithPhotos(ctx context.Context, username string, includeUnapproved bool) (*models.Member, error) {
	m, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, member_id, url, storage_key, is_main, is_approved, created_at
		FROM photos
		WHERE member_id = $1 AND (is_approved OR $2)
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, m.ID, includeUnapproved)
	if err != nil {
		return nil, fmt.Errorf("failed to get photos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Photo
		err := rows.Scan(&p.ID, &p.MemberID, &p.URL, &p.StorageKey, &p.IsMain, &p.IsApproved, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		m.Photos = append(m.Photos, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}

	return m, nil
}

// UsernameExists checks if a username is already taken
func (r *MemberRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM members WHERE username = lower($1))`
	var exists bool
	if err := r.db.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

// Gender retrieves a member's gender by username
func (r *MemberRepository) Gender(ctx context.Context, username string) (string, error) {
	query := `SELECT gender FROM members WHERE username = lower($1)`
	var gender string
	err := r.db.QueryRow(ctx, query, username).Scan(&gender)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", shared.ErrNotFound
		}
		return "", fmt.Errorf("failed to get gender: %w", err)
	}
	return gender, nil
}

// ProfileUpdate holds the member-editable profile fields
type ProfileUpdate struct {
	KnownAs      string `json:"known_as"`
	Introduction string `json:"introduction"`
	LookingFor   string `json:"looking_for"`
	Interests    string `json:"interests"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

// UpdateProfile updates a member's profile fields
func (r *MemberRepository) UpdateProfile(ctx context.Context, memberID string, u ProfileUpdate) error {
	query := `
		UPDATE members
		SET known_as = $1, introduction = $2, looking_for = $3, interests = $4, city = $5, country = $6
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query,
		u.KnownAs, u.Introduction, u.LookingFor, u.Interests, u.City, u.Country, memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdatePushToken updates the push token for a member
func (r *MemberRepository) UpdatePushToken(ctx context.Context, memberID string, pushToken *string) error {
	query := `UPDATE members SET push_token = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, query, pushToken, memberID); err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	return nil
}

// UpdateLastActive bumps a member's last-active timestamp
func (r *MemberRepository) UpdateLastActive(ctx context.Context, memberID string) error {
	query := `UPDATE members SET last_active = now() WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, memberID); err != nil {
		return fmt.Errorf("failed to update last active: %w", err)
	}
	return nil
}

// MemberFilter describes the filtered, ordered member query. The service
// layer resolves ages into date-of-birth bounds before it gets here.
type MemberFilter struct {
	ExcludeUsername string
	Gender          string
	MinDateOfBirth  time.Time
	MaxDateOfBirth  time.Time
	OrderBy         string // "created", anything else means last_active
}

func (f MemberFilter) whereClause() (string, []any) {
	clause := `WHERE m.username <> $1 AND m.gender = $2 AND m.date_of_birth BETWEEN $3 AND $4`
	return clause, []any{f.ExcludeUsername, f.Gender, f.MinDateOfBirth, f.MaxDateOfBirth}
}

func (f MemberFilter) orderClause() string {
	if f.OrderBy == "created" {
		return `ORDER BY m.created_at DESC`
	}
	return `ORDER BY m.last_active DESC`
}

// MemberListItem is a member row joined with their main photo URL
type MemberListItem struct {
	models.Member
	MainPhotoURL string
}

// List retrieves a page of matching members plus the total match count.
// Both queries are built from the same filter and order so the count and
// the slice always agree on membership.
func (r *MemberRepository) List(ctx context.Context, f MemberFilter, limit, offset int) ([]*MemberListItem, int, error) {
	where, args := f.whereClause()

	countQuery := `SELECT count(*) FROM members m ` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	query := `
		SELECT m.id, m.username, m.password_hash, m.known_as, m.gender, m.date_of_birth,
			m.introduction, m.looking_for, m.interests, m.city, m.country,
			m.push_token, m.created_at, m.last_active, coalesce(p.url, '')
		FROM members m
		LEFT JOIN photos p ON p.member_id = m.id AND p.is_main
		` + where + `
		` + f.orderClause() + `
		LIMIT $5 OFFSET $6
	`
	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var items []*MemberListItem
	for rows.Next() {
		var item MemberListItem
		err := rows.Scan(
			&item.ID, &item.Username, &item.PasswordHash, &item.KnownAs, &item.Gender, &item.DateOfBirth,
			&item.Introduction, &item.LookingFor, &item.Interests, &item.City, &item.Country,
			&item.PushToken, &item.CreatedAt, &item.LastActive, &item.MainPhotoURL,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan member: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating members: %w", err)
	}

	return items, total, nil
}
