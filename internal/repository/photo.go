package repository

import (
	"context"
	"fmt"

	"dating-backend/internal/models"
	"dating-backend/internal/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PhotoRepository handles database operations for photos
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create creates a new photo record
func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (id, member_id, url, storage_key, is_main, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		photo.ID, photo.MemberID, photo.URL, photo.StorageKey,
		photo.IsMain, photo.IsApproved, photo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

// GetByID retrieves a photo by ID
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `
		SELECT id, member_id, url, storage_key, is_main, is_approved, created_at
		FROM photos
		WHERE id = $1
	`
	var photo models.Photo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&photo.ID, &photo.MemberID, &photo.URL, &photo.StorageKey,
		&photo.IsMain, &photo.IsApproved, &photo.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &photo, nil
}

// MemberHasMain checks whether the member already has a main photo
func (r *PhotoRepository) MemberHasMain(ctx context.Context, memberID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM photos WHERE member_id = $1 AND is_main)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, memberID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check main photo: %w", err)
	}
	return exists, nil
}

// Approve marks a photo approved; when alsoMain is set the same statement
// promotes it to the member's main photo, so the fallback cannot race a
// concurrent approval into two mains.
func (r *PhotoRepository) Approve(ctx context.Context, photoID string, alsoMain bool) error {
	query := `UPDATE photos SET is_approved = TRUE, is_main = is_main OR $2 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, photoID, alsoMain)
	if err != nil {
		return fmt.Errorf("failed to approve photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetMain demotes the member's current main photo and promotes the target
// inside one transaction, so either both writes land or neither does.
func (r *PhotoRepository) SetMain(ctx context.Context, memberID, photoID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `UPDATE photos SET is_main = FALSE WHERE member_id = $1 AND is_main`, memberID)
	if err != nil {
		return fmt.Errorf("failed to unset main photo: %w", err)
	}

	result, err := tx.Exec(ctx, `UPDATE photos SET is_main = TRUE WHERE id = $1 AND member_id = $2`, photoID, memberID)
	if err != nil {
		return fmt.Errorf("failed to set main photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit main photo swap: %w", err)
	}
	return nil
}

// Delete removes a photo record
func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListUnapproved retrieves all photos awaiting moderation
func (r *PhotoRepository) ListUnapproved(ctx context.Context) ([]*models.PhotoForModeration, error) {
	query := `
		SELECT p.id, p.url, m.username
		FROM photos p
		JOIN members m ON m.id = p.member_id
		WHERE NOT p.is_approved
		ORDER BY p.created_at
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unapproved photos: %w", err)
	}
	defer rows.Close()

	var photos []*models.PhotoForModeration
	for rows.Next() {
		var p models.PhotoForModeration
		if err := rows.Scan(&p.ID, &p.URL, &p.Username); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}

	return photos, nil
}
