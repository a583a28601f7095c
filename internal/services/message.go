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

	"github.com/google/uuid"
)

// MessageStore is the persistence collaborator for messages
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	ListForMember(ctx context.Context, f repository.MessageFilter, limit, offset int) ([]*models.Message, int, error)
	Thread(ctx context.Context, memberID, otherID string) ([]*models.Message, error)
	MarkDeleted(ctx context.Context, id string, bySender bool) error
	Delete(ctx context.Context, id string) error
}

// Notifier delivers a new message to a connected recipient and reports
// whether it was delivered live
type Notifier interface {
	NotifyNewMessage(recipientID string, msg *models.Message) bool
}

// Pusher sends a push notification about a new message
type Pusher interface {
	PushNewMessage(deviceToken, fromName string)
}

// MessageService governs the two-party inbox and its visibility protocol
type MessageService struct {
	messages MessageStore
	members  MemberStore
	notifier Notifier
	pusher   Pusher
}

// NewMessageService creates a new message service. Notifier and pusher
// are optional.
func NewMessageService(messages MessageStore, members MemberStore, notifier Notifier, pusher Pusher) *MessageService {
	return &MessageService{
		messages: messages,
		members:  members,
		notifier: notifier,
		pusher:   pusher,
	}
}

// Send creates a message from the caller to another member. A connected
// recipient gets it over their websocket; an offline one with a
// registered device gets a push.
func (s *MessageService) Send(ctx context.Context, caller models.Identity, recipientUsername, content string) (*models.Message, error) {
	if strings.EqualFold(caller.Username, recipientUsername) {
		return nil, shared.ErrSelfMessage
	}
	if strings.TrimSpace(content) == "" {
		return nil, shared.Validationf("message content is required")
	}

	recipient, err := s.members.GetByUsername(ctx, recipientUsername)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:                uuid.New().String(),
		SenderID:          caller.ID,
		SenderUsername:    caller.Username,
		RecipientID:       recipient.ID,
		RecipientUsername: recipient.Username,
		Content:           content,
		SentAt:            time.Now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	delivered := false
	if s.notifier != nil {
		delivered = s.notifier.NotifyNewMessage(recipient.ID, msg)
	}
	if !delivered && s.pusher != nil && recipient.PushToken != nil {
		s.pusher.PushNewMessage(*recipient.PushToken, caller.Username)
	}

	return msg, nil
}

// List returns a page of the caller's messages. Container is "outbox"
// for sent messages; anything else means inbox. Messages the caller has
// deleted never show up, whatever the other party did.
func (s *MessageService) List(ctx context.Context, caller models.Identity, container string, page pagination.Params) (*pagination.Page[*models.Message], error) {
	pageParams := page.Sanitize()
	filter := repository.MessageFilter{MemberID: caller.ID, Container: container}

	messages, total, err := s.messages.ListForMember(ctx, filter, pageParams.PageSize, pageParams.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return pagination.New(messages, total, pageParams), nil
}

// Thread returns the caller's view of their conversation with another member
func (s *MessageService) Thread(ctx context.Context, caller models.Identity, otherUsername string) ([]*models.Message, error) {
	other, err := s.members.GetByUsername(ctx, otherUsername)
	if err != nil {
		return nil, err
	}
	return s.messages.Thread(ctx, caller.ID, other.ID)
}

// Delete hides a message from the caller's view. Which flag flips is
// decided by identity match, never by the caller. Once both parties have
// deleted it the message is removed for good.
func (s *MessageService) Delete(ctx context.Context, caller models.Identity, messageID string) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	if msg.SenderID != caller.ID && msg.RecipientID != caller.ID {
		return shared.ErrUnauthorized
	}

	bySender := msg.SenderID == caller.ID
	if bySender {
		msg.SenderDeleted = true
	} else {
		msg.RecipientDeleted = true
	}

	if msg.SenderDeleted && msg.RecipientDeleted {
		return s.messages.Delete(ctx, messageID)
	}
	return s.messages.MarkDeleted(ctx, messageID, bySender)
}
