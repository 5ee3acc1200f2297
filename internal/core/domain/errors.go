// internal/core/domain/errors.go
package domain

import "errors"

// Sentinel errors shared across layers. Handlers map these to HTTP status
// codes at the boundary; everything else wraps them with %w.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates a valid identity acting on a resource it does
	// not own. The HTTP layer deliberately reports it as 401 so that
	// non-owners cannot distinguish "exists but not yours" from "no access".
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates a uniqueness violation in the store
	// (e.g. duplicate (cart, product) pair or duplicate email).
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates missing or malformed request fields.
	ErrValidation = errors.New("validation failed")
)
