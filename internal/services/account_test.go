package services

import (
	"context"
	"testing"
	"time"

	"dating-backend/internal/models"
	"dating-backend/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Username:    "Anna",
		Password:    "s3cret",
		KnownAs:     "Anna",
		Gender:      "female",
		DateOfBirth: "1995-06-01",
		City:        "Oslo",
		Country:     "Norway",
	}
}

func TestRegister(t *testing.T) {
	members := newFakeMemberStore()
	roles := newFakeRoleStore()
	svc := NewAccountService(members, roles, NewTokenService("test-secret"))

	resp, err := svc.Register(context.Background(), validRegisterRequest())

	require.NoError(t, err)
	assert.Equal(t, "anna", resp.Username)
	assert.NotEmpty(t, resp.Token)

	stored, err := members.GetByUsername(context.Background(), "anna")
	require.NoError(t, err)
	assert.Equal(t, "anna", stored.Username)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.Equal(t, []string{"member"}, roles.roles[stored.ID])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	members := newFakeMemberStore(&models.Member{ID: "m1", Username: "anna"})
	svc := NewAccountService(members, newFakeRoleStore(), NewTokenService("test-secret"))

	_, err := svc.Register(context.Background(), validRegisterRequest())

	assert.ErrorIs(t, err, shared.ErrUsernameTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAccountService(newFakeMemberStore(), newFakeRoleStore(), NewTokenService("test-secret"))

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"empty username", func(r *RegisterRequest) { r.Username = "  " }},
		{"short password", func(r *RegisterRequest) { r.Password = "abc" }},
		{"bad gender", func(r *RegisterRequest) { r.Gender = "robot" }},
		{"bad date of birth", func(r *RegisterRequest) { r.DateOfBirth = "01/06/1995" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(&req)

			_, err := svc.Register(context.Background(), req)

			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	member := &models.Member{
		ID:           "m1",
		Username:     "anna",
		PasswordHash: string(hash),
		KnownAs:      "Anna",
		Gender:       "female",
		DateOfBirth:  time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC),
		Photos: []*models.Photo{
			{ID: "p1", URL: "https://cdn.example.com/p1", IsApproved: true, IsMain: true},
			{ID: "p2", URL: "https://cdn.example.com/p2", IsApproved: true},
		},
	}
	members := newFakeMemberStore(member)
	roles := newFakeRoleStore()
	roles.roles["m1"] = []string{"member"}
	tokens := NewTokenService("test-secret")
	svc := NewAccountService(members, roles, tokens)

	resp, err := svc.Login(context.Background(), "anna", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, "anna", resp.Username)
	assert.Equal(t, "https://cdn.example.com/p1", resp.PhotoURL)

	identity, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "m1", identity.ID)
	assert.Equal(t, []string{"member"}, identity.Roles)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	members := newFakeMemberStore(&models.Member{ID: "m1", Username: "anna", PasswordHash: string(hash)})
	svc := NewAccountService(members, newFakeRoleStore(), NewTokenService("test-secret"))

	_, err = svc.Login(context.Background(), "anna", "wrong")

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestLoginUnknownUsername(t *testing.T) {
	svc := NewAccountService(newFakeMemberStore(), newFakeRoleStore(), NewTokenService("test-secret"))

	_, err := svc.Login(context.Background(), "ghost", "whatever")

	// indistinguishable from a wrong password
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}
