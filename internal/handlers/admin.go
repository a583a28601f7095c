package handlers

import (
	"net/http"

	"dating-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AdminHandler handles administrative HTTP requests
type AdminHandler struct {
	adminService *services.AdminService
	photoService *services.PhotoService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService, photoService *services.PhotoService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		photoService: photoService,
	}
}

// GetUsersWithRoles handles GET /api/admin/users-with-roles
func (h *AdminHandler) GetUsersWithRoles(w http.ResponseWriter, r *http.Request) {
	members, err := h.adminService.ListMembersWithRoles(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, members)
}

// EditRoles handles POST /api/admin/edit-roles/{username}?roles=a,b
func (h *AdminHandler) EditRoles(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	rolesCSV := r.URL.Query().Get("roles")

	roles, err := h.adminService.EditRoles(r.Context(), username, rolesCSV)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("username", username).Strs("roles", roles).Msg("Roles updated")

	respondJSON(w, http.StatusOK, roles)
}

// GetPhotosForModeration handles GET /api/admin/photos-to-moderate
func (h *AdminHandler) GetPhotosForModeration(w http.ResponseWriter, r *http.Request) {
	photos, err := h.photoService.ListUnapproved(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, photos)
}

// ApprovePhoto handles POST /api/admin/approve-photo/{photoID}
func (h *AdminHandler) ApprovePhoto(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")

	if err := h.photoService.Approve(r.Context(), photoID); err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("photo_id", photoID).Msg("Photo approved")

	w.WriteHeader(http.StatusOK)
}

// RejectPhoto handles POST /api/admin/reject-photo/{photoID}
func (h *AdminHandler) RejectPhoto(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")

	if err := h.photoService.Reject(r.Context(), photoID); err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("photo_id", photoID).Msg("Photo rejected")

	w.WriteHeader(http.StatusOK)
}
