package services

import (
	"context"
	"testing"

	"dating-backend/internal/models"
	"dating-backend/internal/pagination"
	"dating-backend/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMessageService(messages *fakeMessageStore, members *fakeMemberStore) *MessageService {
	return NewMessageService(messages, members, nil, nil)
}

func TestSendMessage(t *testing.T) {
	members := newFakeMemberStore(
		&models.Member{ID: "a1", Username: "anna"},
		&models.Member{ID: "b1", Username: "ben"},
	)
	messages := newFakeMessageStore()
	svc := newTestMessageService(messages, members)

	msg, err := svc.Send(context.Background(), models.Identity{ID: "a1", Username: "anna"}, "ben", "hi there")

	require.NoError(t, err)
	assert.Equal(t, "a1", msg.SenderID)
	assert.Equal(t, "b1", msg.RecipientID)
	assert.Equal(t, "ben", msg.RecipientUsername)
	assert.Contains(t, messages.messages, msg.ID)
}

func TestSendMessageToSelf(t *testing.T) {
	svc := newTestMessageService(newFakeMessageStore(), newFakeMemberStore())

	_, err := svc.Send(context.Background(), models.Identity{ID: "a1", Username: "anna"}, "Anna", "hi me")

	assert.ErrorIs(t, err, shared.ErrSelfMessage)
}

func TestSendMessageUnknownRecipient(t *testing.T) {
	svc := newTestMessageService(newFakeMessageStore(), newFakeMemberStore())

	_, err := svc.Send(context.Background(), models.Identity{ID: "a1", Username: "anna"}, "ghost", "anyone there")

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSendMessagePushOnlyWhenNotDeliveredLive(t *testing.T) {
	recipient := &models.Member{ID: "b1", Username: "ben", PushToken: strPtr("device-1")}
	members := newFakeMemberStore(&models.Member{ID: "a1", Username: "anna"}, recipient)

	// recipient connected: no push
	notifier := &fakeNotifier{delivered: true}
	pusher := &fakePusher{}
	svc := NewMessageService(newFakeMessageStore(), members, notifier, pusher)
	_, err := svc.Send(context.Background(), models.Identity{ID: "a1", Username: "anna"}, "ben", "hi")
	require.NoError(t, err)
	assert.Empty(t, pusher.pushed)

	// recipient offline: push to their device
	notifier.delivered = false
	_, err = svc.Send(context.Background(), models.Identity{ID: "a1", Username: "anna"}, "ben", "hi again")
	require.NoError(t, err)
	assert.Equal(t, []string{"device-1"}, pusher.pushed)
}

func TestDeleteBySenderHidesFromSenderOnly(t *testing.T) {
	messages := newFakeMessageStore(&models.Message{ID: "msg1", SenderID: "a1", RecipientID: "b1"})
	svc := newTestMessageService(messages, newFakeMemberStore())

	err := svc.Delete(context.Background(), models.Identity{ID: "a1"}, "msg1")
	require.NoError(t, err)

	stored := messages.messages["msg1"]
	assert.True(t, stored.SenderDeleted)
	assert.False(t, stored.RecipientDeleted)

	// sender's outbox is empty, recipient's inbox still has it
	outbox, err := svc.List(context.Background(), models.Identity{ID: "a1"}, "outbox", pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, outbox.Items)

	inbox, err := svc.List(context.Background(), models.Identity{ID: "b1"}, "", pagination.Params{})
	require.NoError(t, err)
	require.Len(t, inbox.Items, 1)
}

func TestDeleteByBothRemovesForGood(t *testing.T) {
	messages := newFakeMessageStore(&models.Message{ID: "msg1", SenderID: "a1", RecipientID: "b1"})
	svc := newTestMessageService(messages, newFakeMemberStore())
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, models.Identity{ID: "a1"}, "msg1"))
	require.NoError(t, svc.Delete(ctx, models.Identity{ID: "b1"}, "msg1"))

	assert.NotContains(t, messages.messages, "msg1")

	err := svc.Delete(ctx, models.Identity{ID: "a1"}, "msg1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteByStrangerUnauthorized(t *testing.T) {
	messages := newFakeMessageStore(&models.Message{ID: "msg1", SenderID: "a1", RecipientID: "b1"})
	svc := newTestMessageService(messages, newFakeMemberStore())

	err := svc.Delete(context.Background(), models.Identity{ID: "nosy"}, "msg1")

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	stored := messages.messages["msg1"]
	assert.False(t, stored.SenderDeleted)
	assert.False(t, stored.RecipientDeleted)
}

func TestThreadRespectsOwnDeletedFlags(t *testing.T) {
	members := newFakeMemberStore(
		&models.Member{ID: "a1", Username: "anna"},
		&models.Member{ID: "b1", Username: "ben"},
	)
	messages := newFakeMessageStore(
		&models.Message{ID: "m1", SenderID: "a1", RecipientID: "b1", SenderDeleted: true},
		&models.Message{ID: "m2", SenderID: "b1", RecipientID: "a1"},
	)
	svc := newTestMessageService(messages, members)

	thread, err := svc.Thread(context.Background(), models.Identity{ID: "a1", Username: "anna"}, "ben")

	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "m2", thread[0].ID)
}
