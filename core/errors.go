package core

import "errors"

// Authentication errors
var (
	ErrUserExists         = errors.New("an account with this email already exists") // 409 Conflict
	ErrUserNotFound       = errors.New("user not found")                            // 404 Not Found
	ErrInvalidCredentials = errors.New("invalid email or password")                 // 401 Unauthorized

	// ErrUnauthorized is the single error surfaced by the authorization
	// gate. It deliberately carries no detail about which part of the
	// (email, token) pair failed.
	ErrUnauthorized = errors.New("unauthorized") // 401
)

// Session errors
var (
	ErrMissingAuthHeader = errors.New("missing authorization header") // 401
	ErrInvalidToken      = errors.New("invalid session token")        // 401
	ErrSessionNotFound   = errors.New("session not found")            // 401
	ErrSessionExpired    = errors.New("session expired")              // 401
	ErrCacheMiss         = errors.New("session not found in cache")
)

// Validation errors (client input)
var (
	ErrEmailRequired        = errors.New("email is required")                                              // 400
	ErrPasswordRequired     = errors.New("password is required")                                           // 400
	ErrWeakPassword         = errors.New("password must be at least 8 characters with upper and lower case letters and a digit") // 400
	ErrPasswordMismatch     = errors.New("password and confirmation do not match")                         // 400
	ErrNameRequired         = errors.New("name is required")                                               // 400
	ErrPasswordHashRequired = errors.New("password hash is required")                                      // 500
	ErrInvalidEventRange    = errors.New("event must not end before it starts")                            // 400
)

// Calendar errors
var (
	// ErrCalendarNotFound is returned both when a calendar does not exist
	// and when the caller has no access to it, so callers cannot probe for
	// other users' calendar IDs.
	ErrCalendarNotFound = errors.New("calendar not found") // 404
)

// Store errors
var (
	ErrStoreUnavailable = errors.New("storage unavailable")        // 503
	ErrStoreTimeout     = errors.New("storage operation timed out") // 503
)

// Config errors (server-side configuration)
var (
	ErrStorageRequired     = errors.New("storage adapter is required") // 500
	ErrHTTPAdapterRequired = errors.New("http adapter is required")    // 500
)
