package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"dating-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event is a server-pushed websocket event
type Event struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Hub manages one websocket connection per member and delivers new
// messages to connected recipients.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
}

// NewHub creates a new hub
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Register registers a member's connection, replacing any existing one
func (h *Hub) Register(memberID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[memberID]; ok {
		existing.Close()
	}
	h.connections[memberID] = conn

	log.Info().Str("member_id", memberID).Msg("WebSocket connection registered")
}

// Unregister removes a member's connection
func (h *Hub) Unregister(memberID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Only drop the entry if it still belongs to this connection; a
	// reconnect may already have replaced it.
	if current, ok := h.connections[memberID]; ok && current == conn {
		conn.Close()
		delete(h.connections, memberID)
		log.Info().Str("member_id", memberID).Msg("WebSocket connection unregistered")
	}
}

// IsOnline checks if a member has a live connection
func (h *Hub) IsOnline(memberID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[memberID]
	return ok
}

// SendToMember sends an event to a specific member
func (h *Hub) SendToMember(memberID string, event Event) error {
	h.mu.RLock()
	conn, ok := h.connections[memberID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("member %s is not connected", memberID)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(memberID, conn)
		return fmt.Errorf("failed to send event: %w", err)
	}

	return nil
}

// NotifyNewMessage delivers a new message to the recipient if they are
// connected; returns whether the live delivery happened.
func (h *Hub) NotifyNewMessage(recipientID string, msg *models.Message) bool {
	if !h.IsOnline(recipientID) {
		return false
	}

	if err := h.SendToMember(recipientID, Event{Type: "new_message", Message: msg}); err != nil {
		log.Error().Err(err).Str("member_id", recipientID).Msg("Failed to deliver message over websocket")
		return false
	}
	return true
}
