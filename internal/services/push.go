package services

import (
	"fmt"

	"dating-backend/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// PushService sends APNs notifications to members who are offline when a
// message arrives
type PushService struct {
	client *apns2.Client
	topic  string
}

// NewPushService creates a new push service from token-based APNs credentials
func NewPushService(cfg config.APNSConfig) (*PushService, error) {
	authKey, err := token.AuthKeyFromFile(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	}).Production()

	return &PushService{
		client: client,
		topic:  cfg.Topic,
	}, nil
}

// PushNewMessage notifies a device about a new message. Failures are
// logged and swallowed; push delivery is best effort.
func (s *PushService) PushNewMessage(deviceToken, fromName string) {
	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload: payload.NewPayload().
			AlertTitle("New message").
			AlertBody(fmt.Sprintf("%s sent you a message", fromName)).
			Sound("default"),
	}

	res, err := s.client.Push(notification)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send push notification")
		return
	}
	if !res.Sent() {
		log.Warn().Str("reason", res.Reason).Msg("Push notification rejected")
	}
}
