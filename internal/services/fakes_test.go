package services

import (
	"context"
	"io"
	"strings"

	"dating-backend/internal/models"
	"dating-backend/internal/repository"
	"dating-backend/internal/shared"
)

// In-memory stand-ins for the persistence and storage collaborators.
// They mirror the repositories' semantics closely enough to drive the
// state machines through full sequences.

type fakeMemberStore struct {
	members map[string]*models.Member // keyed by lowercase username

	listItems  []*repository.MemberListItem
	lastFilter repository.MemberFilter
	lastLimit  int
	lastOffset int
}

func newFakeMemberStore(members ...*models.Member) *fakeMemberStore {
	s := &fakeMemberStore{members: make(map[string]*models.Member)}
	for _, m := range members {
		s.members[strings.ToLower(m.Username)] = m
	}
	return s
}

func (s *fakeMemberStore) Create(ctx context.Context, m *models.Member) error {
	s.members[strings.ToLower(m.Username)] = m
	return nil
}

func (s *fakeMemberStore) GetByID(ctx context.Context, id string) (*models.Member, error) {
	for _, m := range s.members {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *fakeMemberStore) GetByUsername(ctx context.Context, username string) (*models.Member, error) {
	if m, ok := s.members[strings.ToLower(username)]; ok {
		return m, nil
	}
	return nil, shared.ErrNotFound
}

func (s *fakeMemberStore) GetByPhotoID(ctx context.Context, photoID string) (*models.Member, error) {
	for _, m := range s.members {
		for _, p := range m.Photos {
			if p.ID == photoID {
				return m, nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

func (s *fakeMemberStore) GetWithPhotos(ctx context.Context, username string, includeUnapproved bool) (*models.Member, error) {
	m, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if includeUnapproved {
		return m, nil
	}
	visible := *m
	visible.Photos = nil
	for _, p := range m.Photos {
		if p.IsApproved {
			visible.Photos = append(visible.Photos, p)
		}
	}
	return &visible, nil
}

func (s *fakeMemberStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, ok := s.members[strings.ToLower(username)]
	return ok, nil
}

func (s *fakeMemberStore) Gender(ctx context.Context, username string) (string, error) {
	m, err := s.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	return m.Gender, nil
}

func (s *fakeMemberStore) UpdateProfile(ctx context.Context, memberID string, u repository.ProfileUpdate) error {
	m, err := s.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	m.KnownAs = u.KnownAs
	m.Introduction = u.Introduction
	m.LookingFor = u.LookingFor
	m.Interests = u.Interests
	m.City = u.City
	m.Country = u.Country
	return nil
}

func (s *fakeMemberStore) UpdatePushToken(ctx context.Context, memberID string, pushToken *string) error {
	m, err := s.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	m.PushToken = pushToken
	return nil
}

func (s *fakeMemberStore) List(ctx context.Context, f repository.MemberFilter, limit, offset int) ([]*repository.MemberListItem, int, error) {
	s.lastFilter = f
	s.lastLimit = limit
	s.lastOffset = offset

	// Apply the filter the way the SQL does, so boundary tests exercise
	// the resolved date-of-birth window.
	var matched []*repository.MemberListItem
	for _, item := range s.listItems {
		if item.Username == f.ExcludeUsername {
			continue
		}
		if item.Gender != f.Gender {
			continue
		}
		if item.DateOfBirth.Before(f.MinDateOfBirth) || item.DateOfBirth.After(f.MaxDateOfBirth) {
			continue
		}
		matched = append(matched, item)
	}
	return matched, len(matched), nil
}

type fakePhotoStore struct {
	photos map[string]*models.Photo
}

func newFakePhotoStore(photos ...*models.Photo) *fakePhotoStore {
	s := &fakePhotoStore{photos: make(map[string]*models.Photo)}
	for _, p := range photos {
		s.photos[p.ID] = p
	}
	return s
}

func (s *fakePhotoStore) Create(ctx context.Context, photo *models.Photo) error {
	s.photos[photo.ID] = photo
	return nil
}

func (s *fakePhotoStore) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	if p, ok := s.photos[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (s *fakePhotoStore) MemberHasMain(ctx context.Context, memberID string) (bool, error) {
	for _, p := range s.photos {
		if p.MemberID == memberID && p.IsMain {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakePhotoStore) Approve(ctx context.Context, photoID string, alsoMain bool) error {
	p, ok := s.photos[photoID]
	if !ok {
		return shared.ErrNotFound
	}
	p.IsApproved = true
	p.IsMain = p.IsMain || alsoMain
	return nil
}

func (s *fakePhotoStore) SetMain(ctx context.Context, memberID, photoID string) error {
	target, ok := s.photos[photoID]
	if !ok || target.MemberID != memberID {
		return shared.ErrNotFound
	}
	for _, p := range s.photos {
		if p.MemberID == memberID {
			p.IsMain = false
		}
	}
	target.IsMain = true
	return nil
}

func (s *fakePhotoStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.photos[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.photos, id)
	return nil
}

func (s *fakePhotoStore) ListUnapproved(ctx context.Context) ([]*models.PhotoForModeration, error) {
	var out []*models.PhotoForModeration
	for _, p := range s.photos {
		if !p.IsApproved {
			out = append(out, &models.PhotoForModeration{ID: p.ID, URL: p.URL})
		}
	}
	return out, nil
}

func (s *fakePhotoStore) mainCount(memberID string) int {
	n := 0
	for _, p := range s.photos {
		if p.MemberID == memberID && p.IsMain {
			n++
		}
	}
	return n
}

type fakeStorage struct {
	uploadErr error
	deleteErr error

	uploaded []string
	deleted  []string
}

func (s *fakeStorage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploaded = append(s.uploaded, key)
	return "https://cdn.example.com/" + key, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, key)
	return nil
}

type fakeMessageStore struct {
	messages map[string]*models.Message

	lastFilter repository.MessageFilter
}

func newFakeMessageStore(messages ...*models.Message) *fakeMessageStore {
	s := &fakeMessageStore{messages: make(map[string]*models.Message)}
	for _, m := range messages {
		s.messages[m.ID] = m
	}
	return s
}

func (s *fakeMessageStore) Create(ctx context.Context, m *models.Message) error {
	s.messages[m.ID] = m
	return nil
}

func (s *fakeMessageStore) GetByID(ctx context.Context, id string) (*models.Message, error) {
	if m, ok := s.messages[id]; ok {
		c := *m
		return &c, nil
	}
	return nil, shared.ErrNotFound
}

func (s *fakeMessageStore) ListForMember(ctx context.Context, f repository.MessageFilter, limit, offset int) ([]*models.Message, int, error) {
	s.lastFilter = f
	var out []*models.Message
	for _, m := range s.messages {
		if f.Container == "outbox" {
			if m.SenderID == f.MemberID && !m.SenderDeleted {
				out = append(out, m)
			}
		} else {
			if m.RecipientID == f.MemberID && !m.RecipientDeleted {
				out = append(out, m)
			}
		}
	}
	return out, len(out), nil
}

func (s *fakeMessageStore) Thread(ctx context.Context, memberID, otherID string) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range s.messages {
		if m.SenderID == memberID && m.RecipientID == otherID && !m.SenderDeleted {
			out = append(out, m)
		}
		if m.SenderID == otherID && m.RecipientID == memberID && !m.RecipientDeleted {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMessageStore) MarkDeleted(ctx context.Context, id string, bySender bool) error {
	m, ok := s.messages[id]
	if !ok {
		return shared.ErrNotFound
	}
	if bySender {
		m.SenderDeleted = true
	} else {
		m.RecipientDeleted = true
	}
	return nil
}

func (s *fakeMessageStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.messages[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.messages, id)
	return nil
}

type fakeRoleStore struct {
	roles map[string][]string

	withRoles []*models.MemberWithRoles
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{roles: make(map[string][]string)}
}

func (s *fakeRoleStore) RolesFor(ctx context.Context, memberID string) ([]string, error) {
	return s.roles[memberID], nil
}

func (s *fakeRoleStore) Assign(ctx context.Context, memberID string, roles []string) error {
	for _, r := range roles {
		held := false
		for _, h := range s.roles[memberID] {
			if h == r {
				held = true
			}
		}
		if !held {
			s.roles[memberID] = append(s.roles[memberID], r)
		}
	}
	return nil
}

func (s *fakeRoleStore) Revoke(ctx context.Context, memberID string, roles []string) error {
	var kept []string
	for _, h := range s.roles[memberID] {
		drop := false
		for _, r := range roles {
			if h == r {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, h)
		}
	}
	s.roles[memberID] = kept
	return nil
}

func (s *fakeRoleStore) ListMembersWithRoles(ctx context.Context) ([]*models.MemberWithRoles, error) {
	return s.withRoles, nil
}

type fakeNotifier struct {
	delivered bool
	notified  []string
}

func (n *fakeNotifier) NotifyNewMessage(recipientID string, msg *models.Message) bool {
	n.notified = append(n.notified, recipientID)
	return n.delivered
}

type fakePusher struct {
	pushed []string
}

func (p *fakePusher) PushNewMessage(deviceToken, fromName string) {
	p.pushed = append(p.pushed, deviceToken)
}
