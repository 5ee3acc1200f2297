// internal/handlers/respond.go

// Package handlers contains the HTTP layer: per-resource request
// validation, ownership checks, gateway calls, and response shaping.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ammerola/stockcart-be/internal/core/domain"
)

// respondJSON writes a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes the uniform {"error": "..."} body.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps sentinel errors to HTTP statuses. Ownership
// denial is reported as 401 like a missing credential, so non-owners
// learn nothing beyond the 404/401 distinction. Anything unrecognized is
// an upstream failure: the caller logs the detail, the client sees a
// generic message.
func respondDomainError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, notFoundMsg)
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON parses the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
