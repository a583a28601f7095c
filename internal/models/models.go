package models

import "time"

// Member represents a registered user with a dating profile
type Member struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	KnownAs      string    `json:"known_as"`
	Gender       string    `json:"gender"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	Introduction string    `json:"introduction"`
	LookingFor   string    `json:"looking_for"`
	Interests    string    `json:"interests"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	PushToken    *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	LastActive   time.Time `json:"last_active"`
	Photos       []*Photo  `json:"photos,omitempty"`
}

// Photo represents a profile photo owned by a member
type Photo struct {
	ID         string    `json:"id"`
	MemberID   string    `json:"-"`
	URL        string    `json:"url"`
	StorageKey *string   `json:"-"`
	IsMain     bool      `json:"is_main"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// Message represents a message between two members. Each side can hide it
// from their own view independently; it is only removed for good once both
// sides have deleted it.
type Message struct {
	ID                string    `json:"id"`
	SenderID          string    `json:"sender_id"`
	SenderUsername    string    `json:"sender_username"`
	RecipientID       string    `json:"recipient_id"`
	RecipientUsername string    `json:"recipient_username"`
	Content           string    `json:"content"`
	SenderDeleted     bool      `json:"-"`
	RecipientDeleted  bool      `json:"-"`
	SentAt            time.Time `json:"sent_at"`
}

// Identity is the authenticated caller, resolved from a verified token.
// Core operations take it as an explicit argument instead of digging it
// out of a request context.
type Identity struct {
	ID       string
	Username string
	Roles    []string
}

// HasRole reports whether the identity carries the named role
func (i Identity) HasRole(name string) bool {
	for _, r := range i.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the identity carries at least one of the named roles
func (i Identity) HasAnyRole(names ...string) bool {
	for _, n := range names {
		if i.HasRole(n) {
			return true
		}
	}
	return false
}

// MemberSummary is the projection of a member used in list views
type MemberSummary struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	KnownAs    string    `json:"known_as"`
	Age        int       `json:"age"`
	Gender     string    `json:"gender"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// MemberWithRoles is the admin view of a member's role assignment
type MemberWithRoles struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// PhotoForModeration is an unapproved photo together with its owner
type PhotoForModeration struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Username string `json:"username"`
}
