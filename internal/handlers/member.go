package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dating-backend/internal/middleware"
	"dating-backend/internal/pagination"
	"dating-backend/internal/repository"
	"dating-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxPhotoSize = 10 << 20 // 10 MB

// MemberHandler handles member-related HTTP requests
type MemberHandler struct {
	memberService *services.MemberService
	photoService  *services.PhotoService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService, photoService *services.PhotoService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		photoService:  photoService,
	}
}

func intQuery(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}

// GetMembers handles GET /api/users
func (h *MemberHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	params := services.MemberListParams{
		Gender:  r.URL.Query().Get("gender"),
		MinAge:  intQuery(r, "minAge"),
		MaxAge:  intQuery(r, "maxAge"),
		OrderBy: r.URL.Query().Get("orderBy"),
		Page: pagination.Params{
			Page:     intQuery(r, "page"),
			PageSize: intQuery(r, "pageSize"),
		},
	}

	page, err := h.memberService.List(ctx, identity, params)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	addPaginationHeader(w, page.Meta())
	respondJSON(w, http.StatusOK, page.Items)
}

// GetMember handles GET /api/users/{username}
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)
	username := chi.URLParam(r, "username")

	member, err := h.memberService.Get(ctx, identity, username)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, member)
}

// UpdateProfile handles PUT /api/users
func (h *MemberHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	var update repository.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.memberService.UpdateProfile(ctx, identity, update); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddPhoto handles POST /api/users/add-photo
func (h *MemberHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	photo, err := h.photoService.Upload(ctx, identity, header.Filename, contentType, file)
	if err != nil {
		log.Error().Err(err).Str("member_id", identity.ID).Msg("Failed to upload photo")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("member_id", identity.ID).
		Str("photo_id", photo.ID).
		Msg("Photo uploaded, awaiting approval")

	respondJSON(w, http.StatusCreated, photo)
}

// SetMainPhoto handles PUT /api/users/set-main-photo/{photoID}
func (h *MemberHandler) SetMainPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)
	photoID := chi.URLParam(r, "photoID")

	if err := h.photoService.SetMain(ctx, identity, photoID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeletePhoto handles DELETE /api/users/delete-photo/{photoID}
func (h *MemberHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)
	photoID := chi.URLParam(r, "photoID")

	if err := h.photoService.Delete(ctx, identity, photoID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// PushTokenRequest carries a device push token registration
type PushTokenRequest struct {
	PushToken *string `json:"push_token"`
}

// UpdatePushToken handles PUT /api/users/push-token
func (h *MemberHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	var req PushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.memberService.UpdatePushToken(ctx, identity, req.PushToken); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
