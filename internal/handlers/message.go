package handlers

import (
	"encoding/json"
	"net/http"

	"dating-backend/internal/middleware"
	"dating-backend/internal/pagination"
	"dating-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// GetMessages handles GET /api/messages
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	page, err := h.messageService.List(ctx, identity, r.URL.Query().Get("container"), pagination.Params{
		Page:     intQuery(r, "page"),
		PageSize: intQuery(r, "pageSize"),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	addPaginationHeader(w, page.Meta())
	respondJSON(w, http.StatusOK, page.Items)
}

// SendMessageRequest carries a new message
type SendMessageRequest struct {
	RecipientUsername string `json:"recipient_username"`
	Content           string `json:"content"`
}

// CreateMessage handles POST /api/messages
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.messageService.Send(ctx, identity, req.RecipientUsername, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

// GetThread handles GET /api/messages/thread/{username}
func (h *MessageHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)
	username := chi.URLParam(r, "username")

	messages, err := h.messageService.Thread(ctx, identity, username)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// DeleteMessage handles DELETE /api/messages/{messageID}
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)
	messageID := chi.URLParam(r, "messageID")

	if err := h.messageService.Delete(ctx, identity, messageID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
