package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"dating-backend/internal/models"
	"dating-backend/internal/shared"

	"github.com/google/uuid"
)

// PhotoStore is the persistence collaborator for photos. Approve and
// SetMain are each a single commit; the store is expected to run them
// under an isolation level that keeps the one-main-photo invariant.
type PhotoStore interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	MemberHasMain(ctx context.Context, memberID string) (bool, error)
	Approve(ctx context.Context, photoID string, alsoMain bool) error
	SetMain(ctx context.Context, memberID, photoID string) error
	Delete(ctx context.Context, id string) error
	ListUnapproved(ctx context.Context) ([]*models.PhotoForModeration, error)
}

// FileStorage is the remote storage collaborator for photo files
type FileStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// PhotoService governs the photo lifecycle: upload, moderation, main
// photo selection and deletion.
type PhotoService struct {
	photos  PhotoStore
	storage FileStorage
}

// NewPhotoService creates a new photo service
func NewPhotoService(photos PhotoStore, storage FileStorage) *PhotoService {
	return &PhotoService{
		photos:  photos,
		storage: storage,
	}
}

// Upload stores the file remotely and records the photo as awaiting
// approval. The remote write happens first so a failed commit never
// leaves a record pointing at nothing.
func (s *PhotoService) Upload(ctx context.Context, caller models.Identity, filename, contentType string, body io.Reader) (*models.Photo, error) {
	photoID := uuid.New().String()
	key := fmt.Sprintf("photos/%s/%s%s", caller.ID, photoID, path.Ext(filename))

	url, err := s.storage.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	photo := &models.Photo{
		ID:         photoID,
		MemberID:   caller.ID,
		URL:        url,
		StorageKey: &key,
		CreatedAt:  time.Now(),
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		// best effort: don't leave an orphaned remote object behind
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("failed to create photo record (remote cleanup also failed: %v): %w", delErr, err)
		}
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}

	return photo, nil
}

// Approve marks a photo approved. The member's first approved photo
// becomes their main photo automatically; re-approving is a no-op on the
// flag but the fallback is still applied.
func (s *PhotoService) Approve(ctx context.Context, photoID string) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}

	hasMain, err := s.photos.MemberHasMain(ctx, photo.MemberID)
	if err != nil {
		return fmt.Errorf("failed to check main photo: %w", err)
	}

	return s.photos.Approve(ctx, photoID, !hasMain)
}

// Reject removes an unwanted photo. When the photo has a remote asset,
// its deletion has to succeed before the record goes; otherwise the
// record is kept so nothing is orphaned.
func (s *PhotoService) Reject(ctx context.Context, photoID string) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}

	if photo.StorageKey != nil {
		if err := s.storage.Delete(ctx, *photo.StorageKey); err != nil {
			return fmt.Errorf("failed to delete remote photo: %w", err)
		}
	}

	return s.photos.Delete(ctx, photoID)
}

// SetMain makes one of the caller's own photos their main photo
func (s *PhotoService) SetMain(ctx context.Context, caller models.Identity, photoID string) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.MemberID != caller.ID {
		return shared.ErrUnauthorized
	}
	if photo.IsMain {
		return shared.ErrAlreadyMain
	}

	return s.photos.SetMain(ctx, caller.ID, photoID)
}

// Delete removes one of the caller's own photos. The main photo cannot
// be deleted; another photo has to be promoted first.
func (s *PhotoService) Delete(ctx context.Context, caller models.Identity, photoID string) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.MemberID != caller.ID {
		return shared.ErrUnauthorized
	}
	if photo.IsMain {
		return shared.ErrDeleteMainPhoto
	}

	if photo.StorageKey != nil {
		if err := s.storage.Delete(ctx, *photo.StorageKey); err != nil {
			return fmt.Errorf("failed to delete remote photo: %w", err)
		}
	}

	return s.photos.Delete(ctx, photoID)
}

// ListUnapproved retrieves the moderation queue
func (s *PhotoService) ListUnapproved(ctx context.Context) ([]*models.PhotoForModeration, error) {
	return s.photos.ListUnapproved(ctx)
}
