package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dating-backend/internal/models"
	"dating-backend/internal/shared"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RoleStore is the persistence collaborator for role assignments
type RoleStore interface {
	RolesFor(ctx context.Context, memberID string) ([]string, error)
	Assign(ctx context.Context, memberID string, roles []string) error
	Revoke(ctx context.Context, memberID string, roles []string) error
	ListMembersWithRoles(ctx context.Context) ([]*models.MemberWithRoles, error)
}

// AccountService handles registration and login
type AccountService struct {
	members MemberStore
	roles   RoleStore
	tokens  *TokenService
}

// NewAccountService creates a new account service
func NewAccountService(members MemberStore, roles RoleStore, tokens *TokenService) *AccountService {
	return &AccountService{
		members: members,
		roles:   roles,
		tokens:  tokens,
	}
}

// RegisterRequest carries the fields needed to create an account
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	KnownAs     string `json:"known_as"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	City        string `json:"city"`
	Country     string `json:"country"`
}

// AuthResponse is what both register and login hand back to the client
type AuthResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	PhotoURL string `json:"photo_url,omitempty"`
	KnownAs  string `json:"known_as"`
	Gender   string `json:"gender"`
}

// Register creates a new member with the default member role and returns
// an issued token
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return nil, shared.Validationf("username is required")
	}
	if len(req.Password) < 4 {
		return nil, shared.Validationf("password must be at least 4 characters")
	}
	if req.Gender != "male" && req.Gender != "female" {
		return nil, shared.Validationf("gender must be male or female")
	}
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, shared.Validationf("date_of_birth must be YYYY-MM-DD")
	}

	exists, err := s.members.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, shared.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	member := &models.Member{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		KnownAs:      req.KnownAs,
		Gender:       req.Gender,
		DateOfBirth:  dob,
		City:         req.City,
		Country:      req.Country,
		CreatedAt:    now,
		LastActive:   now,
	}

	if err := s.members.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	roles := []string{"member"}
	if err := s.roles.Assign(ctx, member.ID, roles); err != nil {
		return nil, fmt.Errorf("failed to assign default role: %w", err)
	}

	token, err := s.tokens.Issue(member.ID, member.Username, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResponse{
		Username: member.Username,
		Token:    token,
		KnownAs:  member.KnownAs,
		Gender:   member.Gender,
	}, nil
}

// Login verifies credentials and returns an issued token. Unknown
// usernames and bad passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	member, err := s.members.GetWithPhotos(ctx, username, false)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up member: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrUnauthorized
	}

	roles, err := s.roles.RolesFor(ctx, member.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up roles: %w", err)
	}

	token, err := s.tokens.Issue(member.ID, member.Username, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	resp := &AuthResponse{
		Username: member.Username,
		Token:    token,
		KnownAs:  member.KnownAs,
		Gender:   member.Gender,
	}
	for _, p := range member.Photos {
		if p.IsMain {
			resp.PhotoURL = p.URL
			break
		}
	}

	return resp, nil
}
