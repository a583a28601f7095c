package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dating-backend/internal/models"
	"dating-backend/internal/pagination"
	"dating-backend/internal/repository"
	"dating-backend/internal/shared"
)

const (
	defaultMinAge = 18
	defaultMaxAge = 150
)

// MemberStore is the persistence collaborator for members
type MemberStore interface {
	Create(ctx context.Context, m *models.Member) error
	GetByID(ctx context.Context, id string) (*models.Member, error)
	GetByUsername(ctx context.Context, username string) (*models.Member, error)
	GetByPhotoID(ctx context.Context, photoID string) (*models.Member, error)
	GetWithPhotos(ctx context.Context, username string, includeUnapproved bool) (*models.Member, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Gender(ctx context.Context, username string) (string, error)
	UpdateProfile(ctx context.Context, memberID string, u repository.ProfileUpdate) error
	UpdatePushToken(ctx context.Context, memberID string, pushToken *string) error
	List(ctx context.Context, f repository.MemberFilter, limit, offset int) ([]*repository.MemberListItem, int, error)
}

// MemberService handles member discovery and profile logic
type MemberService struct {
	members MemberStore
	now     func() time.Time
}

// NewMemberService creates a new member service
func NewMemberService(members MemberStore) *MemberService {
	return &MemberService{
		members: members,
		now:     time.Now,
	}
}

// MemberListParams is the caller's matching filter
type MemberListParams struct {
	Gender  string
	MinAge  int
	MaxAge  int
	OrderBy string
	Page    pagination.Params
}

// List returns a page of members matching the filter. The caller is
// always excluded from their own results; when no target gender is given
// it defaults to the opposite of the caller's own.
func (s *MemberService) List(ctx context.Context, caller models.Identity, p MemberListParams) (*pagination.Page[*models.MemberSummary], error) {
	gender := p.Gender
	if gender == "" {
		own, err := s.members.Gender(ctx, caller.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve caller gender: %w", err)
		}
		switch own {
		case "male":
			gender = "female"
		case "female":
			gender = "male"
		default:
			return nil, shared.Validationf("cannot infer a target gender for %q", caller.Username)
		}
	}

	minAge, maxAge := sanitizeAges(p.MinAge, p.MaxAge)
	today := s.today()
	minDOB, maxDOB := dobWindow(today, minAge, maxAge)

	pageParams := p.Page.Sanitize()
	filter := repository.MemberFilter{
		ExcludeUsername: caller.Username,
		Gender:          gender,
		MinDateOfBirth:  minDOB,
		MaxDateOfBirth:  maxDOB,
		OrderBy:         p.OrderBy,
	}

	items, total, err := s.members.List(ctx, filter, pageParams.PageSize, pageParams.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	summaries := make([]*models.MemberSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, &models.MemberSummary{
			ID:         item.ID,
			Username:   item.Username,
			KnownAs:    item.KnownAs,
			Age:        ageAt(item.DateOfBirth, today),
			Gender:     item.Gender,
			City:       item.City,
			Country:    item.Country,
			PhotoURL:   item.MainPhotoURL,
			CreatedAt:  item.CreatedAt,
			LastActive: item.LastActive,
		})
	}

	return pagination.New(summaries, total, pageParams), nil
}

// Get retrieves a member profile by username. A member looking at their
// own profile also sees their unapproved photos.
func (s *MemberService) Get(ctx context.Context, caller models.Identity, username string) (*models.Member, error) {
	isCurrentUser := strings.EqualFold(caller.Username, username)
	return s.members.GetWithPhotos(ctx, username, isCurrentUser)
}

// UpdateProfile updates the caller's own profile fields
func (s *MemberService) UpdateProfile(ctx context.Context, caller models.Identity, u repository.ProfileUpdate) error {
	return s.members.UpdateProfile(ctx, caller.ID, u)
}

// UpdatePushToken stores the caller's device push token
func (s *MemberService) UpdatePushToken(ctx context.Context, caller models.Identity, pushToken *string) error {
	return s.members.UpdatePushToken(ctx, caller.ID, pushToken)
}

// sanitizeAges clamps the age range into something sensible instead of
// rejecting it
func sanitizeAges(minAge, maxAge int) (int, int) {
	if minAge < defaultMinAge {
		minAge = defaultMinAge
	}
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	if maxAge < minAge {
		maxAge = minAge
	}
	return minAge, maxAge
}

// dobWindow translates an inclusive age range into date-of-birth bounds
// using calendar-year arithmetic. The lower bound is one year wide on
// purpose: someone is only excluded from the day they actually turn
// maxAge+1, not from January 1st of that year.
func dobWindow(today time.Time, minAge, maxAge int) (time.Time, time.Time) {
	minDOB := today.AddDate(-maxAge-1, 0, 0)
	maxDOB := today.AddDate(-minAge, 0, 0)
	return minDOB, maxDOB
}

// ageAt computes age in whole years at the given date
func ageAt(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if dob.AddDate(age, 0, 0).After(today) {
		age--
	}
	return age
}

func (s *MemberService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
