package handlers

import (
	"net/http"

	"dating-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler handles websocket connections for live message delivery
type WebSocketHandler struct {
	hub    *services.Hub
	tokens *services.TokenService
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(hub *services.Hub, tokens *services.TokenService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		tokens: tokens,
	}
}

// HandleWebSocket handles GET /ws?token=...
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	identity, err := h.tokens.Verify(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(identity.ID, conn)
	defer h.hub.Unregister(identity.ID, conn)

	log.Info().Str("member_id", identity.ID).Msg("WebSocket connection established")

	// The connection is server-push only; drain client frames until it closes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("member_id", identity.ID).Msg("WebSocket error")
			}
			break
		}
	}
}
