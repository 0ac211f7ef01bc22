package domain

import "errors"

// Membership errors
var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("email is already registered")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrStatusConflict      = errors.New("member status was changed concurrently")
	ErrInvalidStatus       = errors.New("invalid member status")
)

// Access errors
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("admin role required")
	ErrInvalidToken    = errors.New("invalid token")
)

// ErrStoreUnavailable marks failures reaching the backing datastore.
var ErrStoreUnavailable = errors.New("member data unavailable")
