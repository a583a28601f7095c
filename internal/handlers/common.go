package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"dating-backend/internal/pagination"
	"dating-backend/internal/shared"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps service-layer errors onto caller-visible
// statuses. Anything unexpected becomes a 500 and is logged here.
func respondServiceError(w http.ResponseWriter, err error) {
	var ve *shared.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, shared.ErrNotFound):
		respondError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, shared.ErrUnauthorized):
		respondError(w, "Unauthorized", http.StatusUnauthorized)
	default:
		log.Error().Err(err).Msg("Request failed")
		respondError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// addPaginationHeader surfaces page metadata to the client
func addPaginationHeader(w http.ResponseWriter, meta pagination.Meta) {
	data, err := json.Marshal(meta)
	if err != nil {
		return
	}
	w.Header().Set("X-Pagination", string(data))
	w.Header().Set("Access-Control-Expose-Headers", "X-Pagination")
}
